package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medisync/config"
	"medisync/cron"
	"medisync/database"
	appointmentRepoPkg "medisync/database/repository/appointment"
	doctorRepoPkg "medisync/database/repository/doctor"
	patientRepoPkg "medisync/database/repository/patient"
	paymentRepoPkg "medisync/database/repository/payment"
	"medisync/handlers"
	"medisync/middleware"
	"medisync/routes"
	"medisync/services/availability"
	"medisync/services/booking"
	doctorSvc "medisync/services/doctor"
	"medisync/services/lifecycle"
	"medisync/services/notification"
	"medisync/services/payment"
	"medisync/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Warnf("main: cloudinary storage unavailable: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	doctorRepo := doctorRepoPkg.NewMongoDoctorRepo()
	patientRepo := patientRepoPkg.NewMongoPatientRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()

	cache := utils.GetCacheClient()
	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queue.Close()

	mailer := notification.NewSMTPMailer()

	// services.
	doctorService := &doctorSvc.DefaultDoctorService{Repo: doctorRepo}
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:  doctorRepo,
		Cache: cache,
	}
	bookingService := &booking.DefaultBookingService{
		Doctors:      doctorRepo,
		Patients:     patientRepo,
		Appointments: appointmentRepo,
		Cache:        cache,
	}
	lifecycleService := &lifecycle.DefaultLifecycleService{
		Doctors:      doctorRepo,
		Patients:     patientRepo,
		Appointments: appointmentRepo,
		Cache:        cache,
		Queue:        queue,
		Mailer:       mailer,
	}
	paymentService := &payment.DefaultPaymentService{
		Doctors:  doctorRepo,
		Payments: paymentRepo,
		Booking:  bookingService,
	}

	// handlers.
	hb := &routes.HandlerBundle{
		Doctor:       handlers.NewDoctorHandler(doctorService),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Appointment:  handlers.NewAppointmentHandler(bookingService, lifecycleService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Storage:      handlers.NewStorageHandler(cloudinaryStorageService),
	}

	routes.RegisterRoutes(router, hb)

	// Background worker: periodic lifecycle sweep and rebooking emails.
	cron.InitLifecycleWorker(lifecycleService, mailer)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

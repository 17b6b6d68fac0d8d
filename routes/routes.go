package routes

import (
	"net/http"
	"time"

	"medisync/handlers"
	"medisync/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the routes need.
type HandlerBundle struct {
	Doctor       *handlers.DoctorHandler
	Availability *handlers.AvailabilityHandler
	Appointment  *handlers.AppointmentHandler
	Payment      *handlers.PaymentHandler
	Storage      *handlers.StorageHandler
}

// RegisterDoctorRoutes registers doctor onboarding and calendar endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/doctor")
	{
		// Public endpoints: patients browse clinics and calendars.
		api.GET("/:doctorId/clinic", hb.Doctor.GetClinic)
		api.GET("/:doctorId/availability", hb.Availability.GetAvailability)

		// Protected routes (require a doctor token).
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(middleware.RoleDoctor))
		protected.GET("/profile", hb.Doctor.GetProfile)
		protected.POST("/personal-details", hb.Doctor.SubmitPersonalDetails)
		protected.POST("/professional-details", hb.Doctor.SubmitProfessionalDetails)
		protected.GET("/verification-status", hb.Doctor.VerificationStatus)
		protected.POST("/clinic", hb.Doctor.SetupClinic)
		protected.GET("/clinic", hb.Doctor.GetClinic)

		protected.POST("/availability", hb.Availability.SetAvailability)
		protected.GET("/availability", hb.Availability.GetOwnAvailability)
		protected.POST("/availability/busy", hb.Availability.MarkBusy)

		protected.POST("/appointments/sweep", hb.Appointment.SweepSchedule)
		protected.POST("/appointments/reschedule", hb.Appointment.Reschedule)
		protected.DELETE("/appointments/:appointmentId", hb.Appointment.Cancel)
	}
}

// RegisterPatientRoutes registers the patient booking surface.
func RegisterPatientRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/patient")
	{
		api.Use(middleware.RequireAuth(middleware.RolePatient))
		api.POST("/appointments", hb.Appointment.Book)
		api.GET("/appointments/:appointmentId", hb.Appointment.Get)
		api.GET("/appointments/upcoming", hb.Appointment.Upcoming)
		api.GET("/appointments/history", hb.Appointment.History)
		api.DELETE("/appointments/:appointmentId", hb.Appointment.Cancel)
		api.POST("/appointments/review", hb.Appointment.SaveReview)
	}
}

// RegisterPaymentRoutes registers the paid booking endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.Use(middleware.RequireAuth(middleware.RolePatient))
		api.POST("/create-intent", hb.Payment.CreateIntent)
		api.POST("/confirm", hb.Payment.ConfirmPayment)
	}
}

// RegisterStorageRoutes registers doctor media uploads.
func RegisterStorageRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/storage")
	{
		api.Use(middleware.RequireAuth(middleware.RoleDoctor))
		api.POST("/upload/:bucket", hb.Storage.UploadFileHandler)
	}
}

// RegisterAdminRoutes registers admin-only endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.RequireAuth(middleware.RoleAdmin))
		api.PUT("/doctors/:doctorId/verify", hb.Doctor.Verify)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm MediSync"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDoctorRoutes(r, hb)
	RegisterPatientRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterStorageRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}

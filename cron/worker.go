package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"medisync/config"
	"medisync/services/lifecycle"
	"medisync/services/notification"
	"medisync/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitLifecycleWorker runs the asynq worker and its periodic scheduler in the
// background. The worker handles the lifecycle sweep and rebooking emails.
func InitLifecycleWorker(lifecycleSvc lifecycle.LifecycleService, mailer notification.Mailer) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLifecycleSweep, handleSweepTask(lifecycleSvc))
	mux.HandleFunc(tasks.TypeRebookingEmail, handleRebookingEmailTask(mailer))

	go monitorRedisConnection()
	go runScheduler(redisOpts)

	// Start async worker with retry logic.
	go func() {
		log.Println("[LifecycleWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[LifecycleWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[LifecycleWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// runScheduler enqueues the sweep task on the configured interval.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)

	spec := fmt.Sprintf("@every %dm", config.AppConfig.SweepIntervalMin)
	if _, err := scheduler.Register(spec, tasks.NewLifecycleSweepTask()); err != nil {
		log.Printf("[LifecycleWorker] Failed to register sweep schedule: %v", err)
		return
	}

	log.Printf("[LifecycleWorker] Sweep scheduled %s", spec)
	if err := scheduler.Run(); err != nil {
		log.Printf("[LifecycleWorker] Scheduler stopped: %v", err)
	}
}

func handleSweepTask(lifecycleSvc lifecycle.LifecycleService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		log.Println("[SweepHandler] Running lifecycle sweep")
		if err := lifecycleSvc.SweepAll(); err != nil {
			log.Printf("[SweepHandler] Sweep failed: %v", err)
			return err
		}
		return nil
	}
}

func handleRebookingEmailTask(mailer notification.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.RebookingEmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[RebookingHandler] Invalid payload: %v", err)
			return err
		}

		if err := mailer.SendRebookingEmail(p.To, p.PatientName, p.DoctorName, p.Link); err != nil {
			log.Printf("[RebookingHandler] Failed to send rebooking email: %v", err)
			return err
		}
		log.Printf("[RebookingHandler] Rebooking email sent to %s", p.To)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[LifecycleWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}

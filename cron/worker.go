package cron

import (
	"context"
	"encoding/json"
	"log"

	"classhub/config"
	"classhub/models"
	"classhub/services/push"
	"classhub/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in the background. Each
// fired task dispatches a push through the same dispatcher used for live
// booking and chat notifications.
func InitReminderWorker(pushSvc push.PushService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
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
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(pushSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[ReminderWorker] worker stopped: %v", err)
		}
	}()
}

func handleReminderTask(pushSvc push.PushService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		n := models.Notification{
			Type:  "activity_reminder",
			Title: p.Title,
			Body:  p.Body,
			Data: map[string]string{
				"bookingId":  p.BookingID,
				"activityId": p.ActivityID,
				"fireDate":   p.FireDate,
			},
		}

		if err := pushSvc.Dispatch(ctx, p.UserID, n); err != nil {
			log.Printf("[ReminderHandler] failed to dispatch reminder: %v", err)
			return err
		}
		return nil
	}
}

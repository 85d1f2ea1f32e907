package tasks

import (
	"encoding/json"
	"time"

	"classhub/config"
	"classhub/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the queued task for a scheduled activity reminder.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderQueue enqueues reminder tasks onto the Redis-backed queue. It
// implements the booking service's ReminderScheduler.
type ReminderQueue struct {
	client *asynq.Client
}

// NewReminderQueue creates a queue client from the application config.
func NewReminderQueue() *ReminderQueue {
	return &ReminderQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

// ScheduleActivityReminder enqueues one reminder to fire at the given time.
func (q *ReminderQueue) ScheduleActivityReminder(payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = q.client.Enqueue(task, opts...)
	return err
}

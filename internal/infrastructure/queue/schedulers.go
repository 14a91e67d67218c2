package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"edunews-backend/internal/domains/post/job"
	"edunews-backend/internal/shared"
	"edunews-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
	}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerSweepOrphanImagesJob()
}

// Sweep runs nightly when traffic is lowest. Uploads younger than the
// grace window are skipped, so a daily cadence loses nothing.
func (s *Scheduler) registerSweepOrphanImagesJob() error {
	payload, err := json.Marshal(job.SweepOrphansPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepOrphanImages, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // Daily at 3 AM
		task,
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register SweepOrphanImages job", err)
		return err
	}

	logger.Info("Registered SweepOrphanImages: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

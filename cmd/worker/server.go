package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Queues: map[string]int{
				"default": 10,
			},
			Concurrency: 5,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] Task failed - Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks before returning.
func (s *asynqServer) Shutdown() {
	log.Println("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Println("[Worker] Stopped")
}

package main

import (
	"github.com/hibiken/asynq"

	postJob "edunews-backend/internal/domains/post/job"
	"edunews-backend/internal/shared"
	"edunews-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	sweepOrphans *postJob.SweepOrphansHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sweepOrphans: postJob.NewSweepOrphansHandler(c.PostService),
	}
}

// RegisterHandlers binds every handler to its task type.
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeSweepOrphanImages, r.sweepOrphans)
}

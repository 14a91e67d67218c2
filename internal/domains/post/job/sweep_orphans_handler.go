package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"edunews-backend/internal/domains/post/service"
)

// DefaultGraceWindow is how old an unreferenced image must be before the
// sweep will remove it. A freshly uploaded blob may belong to a create that
// has not committed its record yet.
const DefaultGraceWindow = 24 * time.Hour

// SweepOrphansPayload configures a single sweep run.
type SweepOrphansPayload struct {
	OlderThanHours int `json:"older_than_hours,omitempty"`
}

// SweepOrphansHandler removes uploaded images that no post references.
type SweepOrphansHandler struct {
	postService service.PostService
}

func NewSweepOrphansHandler(postService service.PostService) *SweepOrphansHandler {
	return &SweepOrphansHandler{
		postService: postService,
	}
}

func (h *SweepOrphansHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload SweepOrphansPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SweepOrphans payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	olderThan := DefaultGraceWindow
	if payload.OlderThanHours > 0 {
		olderThan = time.Duration(payload.OlderThanHours) * time.Hour
	}

	log.Info().
		Dur("older_than", olderThan).
		Msg("Sweeping orphan images")

	removed, err := h.postService.SweepOrphanImages(ctx, olderThan)
	if err != nil {
		log.Error().Err(err).Msg("Orphan sweep failed")
		return fmt.Errorf("sweep orphan images: %w", err)
	}

	log.Info().
		Int("removed", removed).
		Msg("Orphan sweep completed")

	return nil
}

package shared

// Asynq task types.
const (
	TypeSweepOrphanImages = "post:sweep_orphan_images"
)

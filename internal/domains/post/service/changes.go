package service

import (
	"edunews-backend/internal/domains/post/model"
)

// ImageDelta is the three-way image decision for an edit.
type ImageDelta int

const (
	// ImageNoChange keeps the original image reference as-is.
	ImageNoChange ImageDelta = iota
	// ImageReplace uploads the newly supplied bytes and swaps the reference.
	ImageReplace
	// ImageClear drops the reference (and best-effort deletes the old blob).
	ImageClear
)

// ChangeSet is what an edit actually changes.
type ChangeSet struct {
	TextChanged bool
	Image       ImageDelta
}

// IsNoOp reports that the candidate equals the original. The coordinator
// must then perform zero store calls.
func (c ChangeSet) IsNoOp() bool {
	return !c.TextChanged && c.Image == ImageNoChange
}

// DetectChanges compares the last-persisted snapshot with a candidate edit.
// Text fields compare by exact string inequality (inputs are already
// trimmed). Supplied image bytes always mean replace; RemoveImage only
// counts as a clear when there is an original image to clear.
func DetectChanges(original *model.Post, candidate model.UpdatePostRequest) ChangeSet {
	cs := ChangeSet{
		TextChanged: candidate.Title != original.Title ||
			candidate.Category != original.Category ||
			candidate.Description != original.Description,
	}

	switch {
	case len(candidate.Image) > 0:
		cs.Image = ImageReplace
	case candidate.RemoveImage && original.HasImage():
		cs.Image = ImageClear
	default:
		cs.Image = ImageNoChange
	}
	return cs
}

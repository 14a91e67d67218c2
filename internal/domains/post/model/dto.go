package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxTitleLength       = 200
	MaxCategoryLength    = 50
	MaxDescriptionLength = 20000

	// MaxImageBytes caps uploaded post images at 5MB.
	MaxImageBytes = 5 * 1024 * 1024
)

// CreatePostRequest carries a new post. Image bytes come from the multipart
// form; text fields are trimmed by the handler before they get here.
type CreatePostRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Anonymous   bool   `json:"anonymous"`

	Image            []byte `json:"-"`
	ImageContentType string `json:"-"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.Length(1, MaxCategoryLength),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Length(1, MaxDescriptionLength),
		),
	)
}

// UpdatePostRequest carries a candidate edit. Image semantics:
// Image != nil selects a replacement, RemoveImage clears the current one,
// neither means the image is untouched. A present Image wins over
// RemoveImage, matching the picker UI where selecting an image overrides a
// prior clear.
type UpdatePostRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`

	Image            []byte `json:"-"`
	ImageContentType string `json:"-"`
	RemoveImage      bool   `json:"-"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.Length(1, MaxCategoryLength),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Length(1, MaxDescriptionLength),
		),
	)
}

// UpdateOutcome reports what an update actually did. NoChange means the
// change detector short-circuited and neither store was touched.
type UpdateOutcome struct {
	NoChange bool   `json:"noChange"`
	ImageURL string `json:"imageUrl,omitempty"`
	EditDate string `json:"editDate,omitempty"`
}

// FeedRequest is the paginated home feed query (25 per page). StartAfter
// is the opaque cursor from the previous page's meta, produced by
// EncodeCursor.
type FeedRequest struct {
	Limit      int    `form:"limit"`
	StartAfter string `form:"start_after"`
}

func (r *FeedRequest) Normalize() {
	if r.Limit <= 0 || r.Limit > 100 {
		r.Limit = 25
	}
}

// cursorSep separates postDate from id inside a feed cursor. The storage
// timestamp layout cannot contain it.
const cursorSep = "|"

// EncodeCursor builds the next-page cursor from the last row of a page.
// Keying on (postDate, id) keeps pagination exact when several posts share
// one timestamp.
func EncodeCursor(p Post) string {
	return p.PostDate + cursorSep + p.ID
}

// DecodeCursor splits a cursor into its keyset parts. A value without a
// separator is treated as a bare postDate with no id bound.
func DecodeCursor(s string) (postDate, id string) {
	if i := strings.Index(s, cursorSep); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

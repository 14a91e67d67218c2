package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePostRequestValidate(t *testing.T) {
	valid := CreatePostRequest{
		Title:       "Exam schedule",
		Category:    "Education",
		Description: "Finals start Monday.",
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing title", func(t *testing.T) {
		r := valid
		r.Title = ""
		assert.Error(t, r.Validate())
	})

	t.Run("missing category", func(t *testing.T) {
		r := valid
		r.Category = ""
		assert.Error(t, r.Validate())
	})

	t.Run("missing description", func(t *testing.T) {
		r := valid
		r.Description = ""
		assert.Error(t, r.Validate())
	})

	t.Run("title too long", func(t *testing.T) {
		r := valid
		r.Title = strings.Repeat("a", MaxTitleLength+1)
		assert.Error(t, r.Validate())
	})

	t.Run("description at the limit", func(t *testing.T) {
		r := valid
		r.Description = strings.Repeat("a", MaxDescriptionLength)
		assert.NoError(t, r.Validate())
	})
}

func TestFeedRequestNormalize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 25},
		{-5, 25},
		{10, 10},
		{100, 100},
		{101, 25},
	}
	for _, tt := range tests {
		r := FeedRequest{Limit: tt.in}
		r.Normalize()
		assert.Equal(t, tt.want, r.Limit)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	p := Post{ID: "3f6f0f5e-1111-2222-3333-444455556666", PostDate: "2024-01-02 10:00:00"}

	c := EncodeCursor(p)
	date, id := DecodeCursor(c)
	assert.Equal(t, p.PostDate, date)
	assert.Equal(t, p.ID, id)

	t.Run("bare date has no id bound", func(t *testing.T) {
		date, id := DecodeCursor("2024-01-02 10:00:00")
		assert.Equal(t, "2024-01-02 10:00:00", date)
		assert.Empty(t, id)
	})

	t.Run("empty cursor", func(t *testing.T) {
		date, id := DecodeCursor("")
		assert.Empty(t, date)
		assert.Empty(t, id)
	})
}

func TestHasImage(t *testing.T) {
	assert.False(t, (&Post{}).HasImage())
	assert.True(t, (&Post{ImageURL: "http://x/y.jpg"}).HasImage())
}

// Package feed orders and searches an in-memory set of posts. The functions
// are pure: callers (list views) own the slice and thread direction/query
// explicitly, no state is held here.
package feed

import (
	"sort"
	"strings"

	"edunews-backend/internal/domains/post/model"
	"edunews-backend/internal/shared/timefmt"
)

// Direction is the requested date ordering.
type Direction int

const (
	// NewestFirst shows the latest posts on top.
	NewestFirst Direction = iota
	// OldestFirst shows the earliest posts on top.
	OldestFirst
)

// ParseDirection maps the query-string value to a Direction, defaulting to
// newest-first like every view in the app.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "oldest") {
		return OldestFirst
	}
	return NewestFirst
}

// SortByDate returns a new slice ordered by parsed postDate. The sort is
// stable, and records whose postDate does not parse are always pushed toward
// the oldest end of the result: after every valid record under NewestFirst,
// before every valid record under OldestFirst. Two unparsable records keep
// their relative order.
func SortByDate(posts []model.Post, dir Direction) []model.Post {
	out := make([]model.Post, len(posts))
	copy(out, posts)

	sort.SliceStable(out, func(i, j int) bool {
		ti, oki := timefmt.Parse(out[i].PostDate)
		tj, okj := timefmt.Parse(out[j].PostDate)

		if !oki && !okj {
			return false
		}
		switch dir {
		case OldestFirst:
			// unparsable sorts before everything valid
			if !oki {
				return true
			}
			if !okj {
				return false
			}
			return ti.Before(tj)
		default: // NewestFirst
			// unparsable sorts after everything valid
			if !oki {
				return false
			}
			if !okj {
				return true
			}
			return ti.After(tj)
		}
	})
	return out
}

// FilterByTitle keeps posts whose title contains query, case-insensitively.
// An empty query returns the input unchanged; order is always preserved,
// filtering never re-sorts.
func FilterByTitle(posts []model.Post, query string) []model.Post {
	if query == "" {
		return posts
	}
	q := strings.ToLower(query)
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Title != "" && strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

// View is the composite contract for list screens: sort first, then filter
// over the sorted sequence.
func View(posts []model.Post, dir Direction, query string) []model.Post {
	return FilterByTitle(SortByDate(posts, dir), query)
}

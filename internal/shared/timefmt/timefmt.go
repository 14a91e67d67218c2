// Package timefmt owns the single timestamp format posts are stored with.
// Every caller (write path, ordering, display) must go through here so the
// pattern and timezone stay consistent and round-trips don't break.
package timefmt

import "time"

// Layout is the storage format for postDate/editDate ("yyyy-MM-dd HH:mm:ss").
const Layout = "2006-01-02 15:04:05"

// location is the canonical timezone for parsing and formatting.
var location = time.Local

// Parse reads a stored timestamp. It never fails loudly: malformed or empty
// input returns ok=false and callers decide what that means (the feed sorter
// pushes such records to the oldest end).
func Parse(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, s, location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Format renders t in the storage layout.
func Format(t time.Time) string {
	return t.In(location).Format(Layout)
}

// Now returns the current time already in storage format.
func Now() string {
	return Format(time.Now())
}

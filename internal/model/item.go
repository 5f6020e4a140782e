package model

import "strings"

// Item is the domain model for a todo entry as the API returns it.
// The client treats it as a read-only snapshot value.
type Item struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at,omitempty"` // opaque, display-only
}

// Patch is a partial update. Nil fields are left out of the request body.
type Patch struct {
	Title *string `json:"title,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

// DonePatch sets the completion flag.
func DonePatch(done bool) Patch { return Patch{Done: &done} }

// TitlePatch sets the title.
func TitlePatch(title string) Patch { return Patch{Title: &title} }

// Empty reports whether the patch carries no field.
func (p Patch) Empty() bool { return p.Title == nil && p.Done == nil }

// NormalizeTitle trims surrounding whitespace. An empty result means the
// title must be rejected.
func NormalizeTitle(s string) string { return strings.TrimSpace(s) }

// Stats counts done and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

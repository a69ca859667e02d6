package domain

import "time"

// Item is a simple note-like record. Anyone can read items; creating
// and updating require authentication, deleting requires staff.
type Item struct {
	ID          int64
	Title       string
	Description string
	CreatedAt   time.Time
}

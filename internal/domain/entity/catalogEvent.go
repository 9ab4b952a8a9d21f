package entity

import "time"

// RoughEvent is a catalog listing entry: just enough to show the event in a
// paginated list. Full details are fetched separately by id.
type RoughEvent struct {
	ID    string
	Title string
	Date  time.Time
}

// CatalogEvent is the full externally-scraped event description.
type CatalogEvent struct {
	ID          string
	Title       string
	Rating      string
	Description string
	Address     string
	StartTime   time.Time
	EndTime     time.Time
}

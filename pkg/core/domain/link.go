package domain

import "time"

// Link represents a shortened URL
type Link struct {
	ID             string // Short identifier, also the primary key
	OriginalURL    string
	Owner          Owner
	NumHits        int64
	LastAccessedOn time.Time
}

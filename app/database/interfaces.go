package database

import "time"

// EntryRepository is the persistence contract the pipeline and review
// manager depend on. Nothing above this interface issues raw queries.
type EntryRepository interface {
	// Insert stores a new entry. When an entry with the same content hash
	// already exists, the existing id is returned with created=false and no
	// second row is written.
	Insert(entry Entry) (id int64, created bool, err error)

	GetByID(id int64) (*Entry, error)
	GetByHash(contentHash string) (*Entry, error)

	// GetPending returns the review queue: a filtered view over stored
	// entries, never a separately owned collection.
	GetPending() ([]Entry, error)

	// UpdateReviewStatus transitions a pending entry to a terminal status.
	// Acting on a missing or already-resolved entry returns false.
	UpdateReviewStatus(id int64, status, reviewer, reason string, reviewedAt time.Time) (bool, error)

	GetStats() (Stats, error)
}

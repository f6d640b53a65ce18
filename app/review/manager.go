package review

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/database"
)

// SystemReviewer is recorded on transitions performed by the expiry sweep.
const SystemReviewer = "system"

// Manager resolves pending entries: explicit approve/reject actions plus the
// periodic expiry sweep. The queue itself is the set of stored entries whose
// review_status is pending; the manager owns no state of its own.
type Manager struct {
	repo       database.EntryRepository
	expiration time.Duration
}

func NewManager(repo database.EntryRepository, expiration time.Duration) *Manager {
	return &Manager{repo: repo, expiration: expiration}
}

// Pending returns the current review queue.
func (m *Manager) Pending() ([]database.Entry, error) {
	return m.repo.GetPending()
}

// Approve transitions a pending entry to approved. Acting on a missing or
// already-resolved entry returns an error, never an overwrite.
func (m *Manager) Approve(id int64, reviewer string) error {
	ok, err := m.repo.UpdateReviewStatus(id, database.StatusApproved, reviewer, "", time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("entry %d not found or already resolved", id)
	}

	slog.Info("Review approved", "entry_id", id, "reviewer", reviewer)
	return nil
}

// Reject transitions a pending entry to rejected with a reason.
func (m *Manager) Reject(id int64, reviewer, reason string) error {
	ok, err := m.repo.UpdateReviewStatus(id, database.StatusRejected, reviewer, reason, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("entry %d not found or already resolved", id)
	}

	slog.Info("Review rejected", "entry_id", id, "reviewer", reviewer, "reason", reason)
	return nil
}

// SweepExpired auto-approves every pending entry whose collection time is
// older than the expiration window. The pending guard in the repository
// makes the sweep idempotent: an entry resolved between listing and update
// is simply skipped.
func (m *Manager) SweepExpired(now time.Time) (int, error) {
	pending, err := m.repo.GetPending()
	if err != nil {
		return 0, fmt.Errorf("failed to list pending reviews: %w", err)
	}

	expired := 0
	for _, entry := range pending {
		if now.Sub(entry.CollectedAt) <= m.expiration {
			continue
		}

		ok, err := m.repo.UpdateReviewStatus(entry.ID, database.StatusAutoApprovedExpired,
			SystemReviewer, "", now)
		if err != nil {
			return expired, fmt.Errorf("failed to expire entry %d: %w", entry.ID, err)
		}
		if ok {
			expired++
			slog.Info("Review expired, auto-approved", "entry_id", entry.ID,
				"collected_at", entry.CollectedAt.Format(time.RFC3339))
		}
	}

	return expired, nil
}

package review

import (
	"errors"
	"testing"
	"time"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/database"
)

// fakeRepo implements database.EntryRepository in memory with the same
// pending-only transition guard as the SQL implementation.
type fakeRepo struct {
	entries map[int64]*database.Entry
	nextID  int64
	failOn  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[int64]*database.Entry), nextID: 1}
}

func (f *fakeRepo) add(status string, collectedAt time.Time) int64 {
	id := f.nextID
	f.nextID++
	f.entries[id] = &database.Entry{
		ID:           id,
		ContentHash:  time.Now().String(),
		CollectedAt:  collectedAt,
		ReviewStatus: status,
	}
	return id
}

func (f *fakeRepo) Insert(entry database.Entry) (int64, bool, error) {
	id := f.nextID
	f.nextID++
	entry.ID = id
	f.entries[id] = &entry
	return id, true, nil
}

func (f *fakeRepo) GetByID(id int64) (*database.Entry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

func (f *fakeRepo) GetByHash(hash string) (*database.Entry, error) {
	for _, entry := range f.entries {
		if entry.ContentHash == hash {
			return entry, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetPending() ([]database.Entry, error) {
	if f.failOn == "pending" {
		return nil, errors.New("database unavailable")
	}
	var pending []database.Entry
	for id := int64(1); id < f.nextID; id++ {
		if entry, ok := f.entries[id]; ok && entry.ReviewStatus == database.StatusPending {
			pending = append(pending, *entry)
		}
	}
	return pending, nil
}

func (f *fakeRepo) UpdateReviewStatus(id int64, status, reviewer, reason string, reviewedAt time.Time) (bool, error) {
	entry, ok := f.entries[id]
	if !ok || entry.ReviewStatus != database.StatusPending {
		return false, nil
	}
	entry.ReviewStatus = status
	entry.ReviewedBy = reviewer
	entry.RejectReason = reason
	entry.ReviewedAt = &reviewedAt
	return true, nil
}

func (f *fakeRepo) GetStats() (database.Stats, error) {
	return database.Stats{Total: len(f.entries)}, nil
}

func TestManager_Approve(t *testing.T) {
	repo := newFakeRepo()
	id := repo.add(database.StatusPending, time.Now())
	manager := NewManager(repo, 48*time.Hour)

	if err := manager.Approve(id, "alice"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	entry := repo.entries[id]
	if entry.ReviewStatus != database.StatusApproved {
		t.Errorf("Expected approved, got %q", entry.ReviewStatus)
	}
	if entry.ReviewedBy != "alice" {
		t.Errorf("Expected reviewer alice, got %q", entry.ReviewedBy)
	}
}

func TestManager_Reject(t *testing.T) {
	repo := newFakeRepo()
	id := repo.add(database.StatusPending, time.Now())
	manager := NewManager(repo, 48*time.Hour)

	if err := manager.Reject(id, "bob", "incomplete data"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	entry := repo.entries[id]
	if entry.ReviewStatus != database.StatusRejected {
		t.Errorf("Expected rejected, got %q", entry.ReviewStatus)
	}
	if entry.RejectReason != "incomplete data" {
		t.Errorf("Expected reason preserved, got %q", entry.RejectReason)
	}
}

func TestManager_Approve_AlreadyResolved(t *testing.T) {
	repo := newFakeRepo()
	id := repo.add(database.StatusRejected, time.Now())
	manager := NewManager(repo, 48*time.Hour)

	if err := manager.Approve(id, "alice"); err == nil {
		t.Error("Expected error when approving a resolved entry")
	}
	if repo.entries[id].ReviewStatus != database.StatusRejected {
		t.Error("Resolved status must not be overwritten")
	}
}

func TestManager_Approve_NotFound(t *testing.T) {
	manager := NewManager(newFakeRepo(), 48*time.Hour)

	if err := manager.Approve(99, "alice"); err == nil {
		t.Error("Expected error for missing entry")
	}
}

func TestManager_SweepExpired(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now().UTC()

	expiredID := repo.add(database.StatusPending, now.Add(-72*time.Hour))
	freshID := repo.add(database.StatusPending, now.Add(-1*time.Hour))
	resolvedID := repo.add(database.StatusApproved, now.Add(-72*time.Hour))

	manager := NewManager(repo, 48*time.Hour)

	count, err := manager.SweepExpired(now)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 expired entry, got %d", count)
	}

	if got := repo.entries[expiredID].ReviewStatus; got != database.StatusAutoApprovedExpired {
		t.Errorf("Expected auto_approved_expired, got %q", got)
	}
	if repo.entries[expiredID].ReviewedBy != SystemReviewer {
		t.Errorf("Expected system reviewer, got %q", repo.entries[expiredID].ReviewedBy)
	}
	if got := repo.entries[freshID].ReviewStatus; got != database.StatusPending {
		t.Errorf("Fresh entry must stay pending, got %q", got)
	}
	if got := repo.entries[resolvedID].ReviewStatus; got != database.StatusApproved {
		t.Errorf("Resolved entry must be untouched, got %q", got)
	}
}

func TestManager_SweepExpired_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now().UTC()
	repo.add(database.StatusPending, now.Add(-72*time.Hour))

	manager := NewManager(repo, 48*time.Hour)

	if count, _ := manager.SweepExpired(now); count != 1 {
		t.Fatalf("Expected 1 on first sweep, got %d", count)
	}
	if count, _ := manager.SweepExpired(now); count != 0 {
		t.Errorf("Expected 0 on second sweep, got %d", count)
	}
}

func TestManager_SweepExpired_RepoError(t *testing.T) {
	repo := newFakeRepo()
	repo.failOn = "pending"
	manager := NewManager(repo, 48*time.Hour)

	if _, err := manager.SweepExpired(time.Now()); err == nil {
		t.Error("Expected error when listing fails")
	}
}

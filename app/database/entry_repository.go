package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ EntryRepository = (*SQLEntryRepository)(nil)

// SQLEntryRepository implements EntryRepository over SQLite.
type SQLEntryRepository struct {
	db *DB
}

func NewEntryRepository(db *DB) *SQLEntryRepository {
	return &SQLEntryRepository{db: db}
}

func (r *SQLEntryRepository) Insert(entry Entry) (int64, bool, error) {
	result, err := r.db.Exec(`
		INSERT INTO entries (
			source_url, content_hash, collected_at, processed_at,
			data, metadata, quality_metrics, review_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO NOTHING
	`, entry.SourceURL, entry.ContentHash, entry.CollectedAt, entry.ProcessedAt,
		string(entry.Data), string(entry.Metadata), string(entry.QualityMetrics),
		entry.ReviewStatus)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read insert result: %w", err)
	}

	if affected == 0 {
		existing, err := r.GetByHash(entry.ContentHash)
		if err != nil {
			return 0, false, err
		}
		if existing == nil {
			return 0, false, fmt.Errorf("entry with hash %s vanished during insert", entry.ContentHash)
		}
		return existing.ID, false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return id, true, nil
}

func (r *SQLEntryRepository) GetByID(id int64) (*Entry, error) {
	return r.getOne("SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
}

func (r *SQLEntryRepository) GetByHash(contentHash string) (*Entry, error) {
	return r.getOne("SELECT "+entryColumns+" FROM entries WHERE content_hash = ?", contentHash)
}

func (r *SQLEntryRepository) GetPending() ([]Entry, error) {
	rows, err := r.db.Query(`
		SELECT `+entryColumns+`
		FROM entries
		WHERE review_status = ?
		ORDER BY collected_at ASC
	`, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

// UpdateReviewStatus transitions a pending entry exactly once. The pending
// guard in the WHERE clause makes resolved entries untouchable, so repeated
// sweeps and late reviewer actions are no-ops.
func (r *SQLEntryRepository) UpdateReviewStatus(id int64, status, reviewer, reason string, reviewedAt time.Time) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE entries
		SET review_status = ?, reviewed_by = ?, reject_reason = ?, reviewed_at = ?
		WHERE id = ? AND review_status = ?
	`, status, reviewer, reason, reviewedAt, id, StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update review status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}

	return affected > 0, nil
}

func (r *SQLEntryRepository) GetStats() (Stats, error) {
	var stats Stats
	err := r.db.QueryRow(`
		SELECT
			COUNT(*) AS total,
			SUM(CASE WHEN review_status = 'pending' THEN 1 ELSE 0 END) AS pending,
			SUM(CASE WHEN review_status = 'approved' THEN 1 ELSE 0 END) AS approved,
			SUM(CASE WHEN review_status = 'rejected' THEN 1 ELSE 0 END) AS rejected,
			SUM(CASE WHEN review_status = 'auto_approved_expired' THEN 1 ELSE 0 END) AS expired
		FROM entries
	`).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.Expired)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get entry stats: %w", err)
	}
	return stats, nil
}

const entryColumns = `id, source_url, content_hash, collected_at, processed_at,
	data, metadata, quality_metrics, review_status,
	COALESCE(reject_reason, ''), reviewed_at, COALESCE(reviewed_by, ''), created_at`

func (r *SQLEntryRepository) getOne(query string, arg any) (*Entry, error) {
	row := r.db.QueryRow(query, arg)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var entry Entry
	var data, metadata, metrics string
	var reviewedAt sql.NullTime

	err := row.Scan(
		&entry.ID, &entry.SourceURL, &entry.ContentHash,
		&entry.CollectedAt, &entry.ProcessedAt,
		&data, &metadata, &metrics,
		&entry.ReviewStatus, &entry.RejectReason, &reviewedAt,
		&entry.ReviewedBy, &entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to scan entry row: %w", err)
	}

	entry.Data = []byte(data)
	entry.Metadata = []byte(metadata)
	entry.QualityMetrics = []byte(metrics)
	if reviewedAt.Valid {
		entry.ReviewedAt = &reviewedAt.Time
	}

	return entry, nil
}

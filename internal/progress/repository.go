// Package progress persists the resumable state of a review session: the id snapshot and
// the cursor into it.
package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/vocabreview/internal/database"
	"github.com/at-ishikawa/vocabreview/internal/learning"
)

// ErrCorruptSnapshot is returned when the stored id list cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt progress snapshot")

// Progress is one user's saved session.
type Progress struct {
	Mode         learning.Mode
	Source       string
	Shuffle      bool
	ItemIDs      []int64
	CurrentIndex int
	// InitialCount is the queue size when a lapse session started.
	InitialCount int
}

type progressRow struct {
	UserID       string `db:"user_id"`
	Mode         string `db:"mode"`
	Source       string `db:"source"`
	Shuffle      bool   `db:"shuffle"`
	ItemIDs      string `db:"item_ids"`
	CurrentIndex int    `db:"current_index"`
	InitialCount int    `db:"initial_count"`
}

//go:generate mockgen -source=repository.go -destination=../mocks/progress/mock_repository.go -package=mock_progress

// Repository defines operations on the saved session of one user.
type Repository interface {
	Get(ctx context.Context) (*Progress, error)
	Save(ctx context.Context, p Progress) error
	UpdateIndex(ctx context.Context, index int) error
	UpdateSnapshot(ctx context.Context, ids []int64) error
	Clear(ctx context.Context) error
}

// DBRepository implements Repository on the review_progress table.
type DBRepository struct {
	db     *sqlx.DB
	userID string
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB, userID string) *DBRepository {
	return &DBRepository{db: db, userID: userID}
}

// Get returns the saved session, or nil if there is none.
func (r *DBRepository) Get(ctx context.Context) (*Progress, error) {
	var row progressRow
	err := r.db.GetContext(ctx, &row,
		`SELECT user_id, mode, source, shuffle, item_ids, current_index, initial_count
		FROM review_progress WHERE user_id = ?`, r.userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(review_progress) > %w", err)
	}

	var ids []int64
	if err := json.Unmarshal([]byte(row.ItemIDs), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return &Progress{
		Mode:         learning.Mode(row.Mode),
		Source:       row.Source,
		Shuffle:      row.Shuffle,
		ItemIDs:      ids,
		CurrentIndex: row.CurrentIndex,
		InitialCount: row.InitialCount,
	}, nil
}

// Save replaces the saved session.
func (r *DBRepository) Save(ctx context.Context, p Progress) error {
	ids, err := encodeIDs(p.ItemIDs)
	if err != nil {
		return err
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM review_progress WHERE user_id = ?", r.userID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete review_progress) > %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO review_progress (user_id, mode, source, shuffle, item_ids, current_index, initial_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.userID, string(p.Mode), p.Source, p.Shuffle, ids, p.CurrentIndex, p.InitialCount); err != nil {
			return fmt.Errorf("tx.ExecContext(insert review_progress) > %w", err)
		}
		return nil
	})
}

// UpdateIndex moves the saved cursor.
func (r *DBRepository) UpdateIndex(ctx context.Context, index int) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE review_progress SET current_index = ? WHERE user_id = ?", index, r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(update progress index) > %w", err)
	}
	return nil
}

// UpdateSnapshot replaces the saved id list and keeps the cursor.
func (r *DBRepository) UpdateSnapshot(ctx context.Context, ids []int64) error {
	encoded, err := encodeIDs(ids)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE review_progress SET item_ids = ? WHERE user_id = ?", encoded, r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(update progress snapshot) > %w", err)
	}
	return nil
}

// Clear removes the saved session.
func (r *DBRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM review_progress WHERE user_id = ?", r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(delete review_progress) > %w", err)
	}
	return nil
}

func encodeIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("json.Marshal(item ids) > %w", err)
	}
	return string(b), nil
}

package learning

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=history.go -destination=../mocks/learning/mock_history.go -package=mock_learning

// HistoryRepository stores the answer log.
type HistoryRepository interface {
	Create(ctx context.Context, log *ReviewLog) error
	FindByItem(ctx context.Context, itemID int64, mode Mode) ([]ReviewLog, error)
}

// DBHistoryRepository implements HistoryRepository on the review_history table.
type DBHistoryRepository struct {
	db     *sqlx.DB
	userID string
}

// NewDBHistoryRepository creates a new DBHistoryRepository.
func NewDBHistoryRepository(db *sqlx.DB, userID string) *DBHistoryRepository {
	return &DBHistoryRepository{db: db, userID: userID}
}

// Create inserts a log entry and sets its id.
func (r *DBHistoryRepository) Create(ctx context.Context, log *ReviewLog) error {
	log.UserID = r.userID
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO review_history (user_id, item_id, reviewed_at, score, remembered, elapsed_time, mode, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.UserID, log.ItemID, log.ReviewedAt, log.Score, log.Remembered, log.ElapsedTime, log.Mode, log.Source)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert review_history) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	log.ID = id
	return nil
}

// FindByItem returns the log of one item in one mode, oldest first.
func (r *DBHistoryRepository) FindByItem(ctx context.Context, itemID int64, mode Mode) ([]ReviewLog, error) {
	var logs []ReviewLog
	if err := r.db.SelectContext(ctx, &logs,
		`SELECT id, user_id, item_id, reviewed_at, score, remembered, elapsed_time, mode, source
		FROM review_history WHERE user_id = ? AND item_id = ? AND mode = ? ORDER BY reviewed_at, id`,
		r.userID, itemID, mode); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_history by item) > %w", err)
	}
	return logs, nil
}

// FindBySource returns the whole log of a source, oldest first.
func (r *DBHistoryRepository) FindBySource(ctx context.Context, source string) ([]ReviewLog, error) {
	var logs []ReviewLog
	if err := r.db.SelectContext(ctx, &logs,
		`SELECT id, user_id, item_id, reviewed_at, score, remembered, elapsed_time, mode, source
		FROM review_history WHERE user_id = ? AND source = ? ORDER BY reviewed_at, id`,
		r.userID, source); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_history by source) > %w", err)
	}
	return logs, nil
}

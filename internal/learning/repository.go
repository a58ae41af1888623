// Package learning provides the learning item and review history models and their repositories.
package learning

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/at-ishikawa/vocabreview/internal/database"
	"github.com/at-ishikawa/vocabreview/internal/date"
)

const itemColumns = `id, user_id, source, word, definition, ease_factor, repetition, interval_days,
	next_review, last_remembered, last_forgot, remember_count, forget_count, last_score,
	avg_elapsed_time, lapse, spell_strength, spell_next_review, stop_review`

// spellingEligible selects items that have enough review history to be spelled.
const spellingEligible = `(repetition >= 3 OR spell_strength IS NOT NULL)`

// SpellingGroups are the spelling candidates in priority order, each sorted by word.
type SpellingGroups struct {
	Due       []int64
	Unspelled []int64
	Upcoming  []int64
}

// All concatenates the groups in priority order.
func (g SpellingGroups) All() []int64 {
	return lo.Flatten([][]int64{g.Due, g.Unspelled, g.Upcoming})
}

// HorizonAdjustment counts the rows moved by ClampToHorizon.
type HorizonAdjustment struct {
	Interval        int64 `yaml:"interval"`
	NextReview      int64 `yaml:"next_review"`
	SpellNextReview int64 `yaml:"spell_next_review"`
}

//go:generate mockgen -source=repository.go -destination=../mocks/learning/mock_repository.go -package=mock_learning

// ItemRepository defines operations for reading and scheduling learning items.
type ItemRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]Item, error)
	FindLapsed(ctx context.Context, source string) ([]Item, error)
	FilterLapsed(ctx context.Context, ids []int64) ([]int64, error)
	DueReviewIDs(ctx context.Context, source string, today date.Date) ([]int64, error)
	LowEaseIDs(ctx context.Context, source string, today date.Date, exclude []int64, limit int) ([]int64, error)
	SpellingIDs(ctx context.Context, source string, today date.Date) (SpellingGroups, error)
	DailyLoads(ctx context.Context, mode Mode, source string, today date.Date, days int) ([]int, error)
	UpdateReview(ctx context.Context, id int64, u ReviewUpdate) error
	UpdateSpelling(ctx context.Context, id int64, u SpellingUpdate) error
	ClearLapse(ctx context.Context, id int64) error
	StopReview(ctx context.Context, id int64) error
	ClampToHorizon(ctx context.Context, today date.Date, maxPrepDays int) (HorizonAdjustment, error)
}

// DBItemRepository implements ItemRepository for one user.
type DBItemRepository struct {
	db     *sqlx.DB
	userID string
}

// NewDBItemRepository creates a new DBItemRepository.
func NewDBItemRepository(db *sqlx.DB, userID string) *DBItemRepository {
	return &DBItemRepository{db: db, userID: userID}
}

// FindByIDs returns the items in the order of ids. Unknown ids are skipped.
func (r *DBItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT "+itemColumns+" FROM items WHERE user_id = ? AND id IN (?)", r.userID, ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(items by ids) > %w", err)
	}
	var items []Item
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(items by ids) > %w", err)
	}

	byID := lo.KeyBy(items, func(it Item) int64 { return it.ID })
	return lo.FilterMap(ids, func(id int64, _ int) (Item, bool) {
		it, ok := byID[id]
		return it, ok
	}), nil
}

// FindLapsed returns the active items of a source that are in the lapse pool, sorted by word.
func (r *DBItemRepository) FindLapsed(ctx context.Context, source string) ([]Item, error) {
	var items []Item
	if err := r.db.SelectContext(ctx, &items,
		"SELECT "+itemColumns+" FROM items WHERE user_id = ? AND source = ? AND stop_review = 0 AND lapse > 0 ORDER BY word, id",
		r.userID, source); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lapsed items) > %w", err)
	}
	return items, nil
}

// FilterLapsed keeps the ids that are still active and in the lapse pool, preserving order.
func (r *DBItemRepository) FilterLapsed(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT id FROM items WHERE user_id = ? AND stop_review = 0 AND lapse > 0 AND id IN (?)", r.userID, ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(lapsed ids) > %w", err)
	}
	var found []int64
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(lapsed ids) > %w", err)
	}
	return lo.Intersect(found, ids), nil
}

// DueReviewIDs returns the ids whose review date has arrived, sorted by word ignoring case.
func (r *DBItemRepository) DueReviewIDs(ctx context.Context, source string, today date.Date) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM items
		WHERE user_id = ? AND source = ? AND stop_review = 0 AND next_review IS NOT NULL AND next_review <= ?
		ORDER BY LOWER(word), id`,
		r.userID, source, today); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due review ids) > %w", err)
	}
	return ids, nil
}

// LowEaseIDs picks up to limit items with the lowest ease factor that were not answered today
// and are not in exclude. The picked ids are returned sorted by word.
func (r *DBItemRepository) LowEaseIDs(ctx context.Context, source string, today date.Date, exclude []int64, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}
	inner := `SELECT id, word FROM items
		WHERE user_id = ? AND source = ? AND stop_review = 0
		AND (last_remembered IS NULL OR last_remembered <> ?)
		AND (last_forgot IS NULL OR last_forgot <> ?)`
	args := []interface{}{r.userID, source, today, today}
	if len(exclude) > 0 {
		inner += " AND id NOT IN (?)"
		args = append(args, exclude)
	}
	inner += " ORDER BY ease_factor, repetition, id LIMIT ?"
	args = append(args, limit)

	query, args, err := sqlx.In("SELECT id FROM ("+inner+") extra ORDER BY LOWER(word), id", args...)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(low ease ids) > %w", err)
	}
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(low ease ids) > %w", err)
	}
	return ids, nil
}

// SpellingIDs returns the spelling candidates grouped as due, never spelled, and not yet due.
func (r *DBItemRepository) SpellingIDs(ctx context.Context, source string, today date.Date) (SpellingGroups, error) {
	base := "SELECT id FROM items WHERE user_id = ? AND source = ? AND stop_review = 0 AND " + spellingEligible
	order := " ORDER BY LOWER(word), id"

	var groups SpellingGroups
	if err := r.db.SelectContext(ctx, &groups.Due,
		base+" AND spell_next_review IS NOT NULL AND spell_next_review <= ?"+order,
		r.userID, source, today); err != nil {
		return SpellingGroups{}, fmt.Errorf("db.SelectContext(due spelling ids) > %w", err)
	}
	if err := r.db.SelectContext(ctx, &groups.Unspelled,
		base+" AND spell_next_review IS NULL"+order,
		r.userID, source); err != nil {
		return SpellingGroups{}, fmt.Errorf("db.SelectContext(unspelled ids) > %w", err)
	}
	if err := r.db.SelectContext(ctx, &groups.Upcoming,
		base+" AND spell_next_review > ?"+order,
		r.userID, source, today); err != nil {
		return SpellingGroups{}, fmt.Errorf("db.SelectContext(upcoming spelling ids) > %w", err)
	}
	return groups, nil
}

type dailyCount struct {
	Day   date.Date `db:"day"`
	Total int       `db:"total"`
}

var loadColumns = map[Mode]string{
	ModeReview:   "next_review",
	ModeSpelling: "spell_next_review",
}

// DailyLoads returns how many items are already scheduled on each of the next days.
// Element i holds the count for today+i+1.
func (r *DBItemRepository) DailyLoads(ctx context.Context, mode Mode, source string, today date.Date, days int) ([]int, error) {
	column, ok := loadColumns[mode]
	if !ok {
		return nil, fmt.Errorf("no daily loads for mode %q", mode)
	}
	query := fmt.Sprintf(`SELECT %[1]s AS day, COUNT(*) AS total FROM items
		WHERE user_id = ? AND source = ? AND stop_review = 0 AND %[1]s > ? AND %[1]s <= ?
		GROUP BY %[1]s`, column)

	var counts []dailyCount
	if err := r.db.SelectContext(ctx, &counts, query, r.userID, source, today, today.AddDays(days)); err != nil {
		return nil, fmt.Errorf("db.SelectContext(daily %s loads) > %w", mode, err)
	}

	loads := make([]int, days)
	for _, c := range counts {
		offset := c.Day.DaysSince(today)
		if offset >= 1 && offset <= days {
			loads[offset-1] += c.Total
		}
	}
	return loads, nil
}

// UpdateReview writes the review state computed for an answer.
func (r *DBItemRepository) UpdateReview(ctx context.Context, id int64, u ReviewUpdate) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE items SET repetition = ?, interval_days = ?, ease_factor = ?, next_review = ?,
		last_remembered = ?, last_forgot = ?, remember_count = ?, forget_count = ?, last_score = ?,
		avg_elapsed_time = ?, lapse = ?, stop_review = ?
		WHERE id = ? AND user_id = ?`,
		u.Repetition, u.Interval, u.EaseFactor, u.NextReview,
		u.LastRemembered, u.LastForgot, u.RememberCount, u.ForgetCount, u.LastScore,
		u.AvgElapsedTime, u.Lapse, u.StopReview,
		id, r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(update review %d) > %w", id, err)
	}
	return nil
}

// UpdateSpelling writes the spelling state computed for an attempt.
func (r *DBItemRepository) UpdateSpelling(ctx context.Context, id int64, u SpellingUpdate) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE items SET spell_strength = ?, spell_next_review = ? WHERE id = ? AND user_id = ?",
		u.Strength, u.NextReview, id, r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(update spelling %d) > %w", id, err)
	}
	return nil
}

// ClearLapse takes an item out of the lapse pool.
func (r *DBItemRepository) ClearLapse(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE items SET lapse = 0 WHERE id = ? AND user_id = ?", id, r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(clear lapse %d) > %w", id, err)
	}
	return nil
}

// StopReview retires an item from every mode.
func (r *DBItemRepository) StopReview(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE items SET stop_review = 1 WHERE id = ? AND user_id = ?", id, r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(stop review %d) > %w", id, err)
	}
	return nil
}

// ClampToHorizon pulls every schedule that lies beyond today+maxPrepDays back onto that day.
// Intervals longer than the horizon are shortened as well.
func (r *DBItemRepository) ClampToHorizon(ctx context.Context, today date.Date, maxPrepDays int) (HorizonAdjustment, error) {
	if maxPrepDays < 1 {
		return HorizonAdjustment{}, fmt.Errorf("max prep days must be positive, got %d", maxPrepDays)
	}
	limit := today.AddDays(maxPrepDays)

	var adj HorizonAdjustment
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		steps := []struct {
			name   string
			target *int64
			query  string
			args   []interface{}
		}{
			{
				name:   "interval",
				target: &adj.Interval,
				query:  "UPDATE items SET interval_days = ?, next_review = ? WHERE user_id = ? AND stop_review = 0 AND interval_days > ?",
				args:   []interface{}{maxPrepDays, limit, r.userID, maxPrepDays},
			},
			{
				name:   "next_review",
				target: &adj.NextReview,
				query:  "UPDATE items SET next_review = ? WHERE user_id = ? AND stop_review = 0 AND next_review IS NOT NULL AND next_review > ? AND interval_days <= ?",
				args:   []interface{}{limit, r.userID, limit, maxPrepDays},
			},
			{
				name:   "spell_next_review",
				target: &adj.SpellNextReview,
				query:  "UPDATE items SET spell_next_review = ? WHERE user_id = ? AND stop_review = 0 AND spell_next_review IS NOT NULL AND spell_next_review > ?",
				args:   []interface{}{limit, r.userID, limit},
			},
		}
		for _, step := range steps {
			result, err := tx.ExecContext(ctx, step.query, step.args...)
			if err != nil {
				return fmt.Errorf("tx.ExecContext(clamp %s) > %w", step.name, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("result.RowsAffected() > %w", err)
			}
			*step.target = affected
		}
		return nil
	})
	if err != nil {
		return HorizonAdjustment{}, err
	}
	return adj, nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/vocabreview/internal/background"
	"github.com/at-ishikawa/vocabreview/internal/config"
	"github.com/at-ishikawa/vocabreview/internal/database"
	"github.com/at-ishikawa/vocabreview/internal/date"
	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/progress"
	"github.com/at-ishikawa/vocabreview/internal/review"
	"github.com/at-ishikawa/vocabreview/internal/scheduling"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openDatabase loads the configuration and opens its database. The caller closes the db.
func openDatabase() (*config.Config, *sqlx.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}

func addTodayFlag(flags *pflag.FlagSet, today *string) {
	flags.StringVar(today, "today", "", "Use this day (YYYY-MM-DD) instead of the current day")
}

func newClock(today string) (date.Clock, error) {
	if today == "" {
		return date.SystemClock{Location: time.Local}, nil
	}
	day, err := date.Parse(today)
	if err != nil {
		return nil, fmt.Errorf("parse --today: %w", err)
	}
	return date.FixedClock{Day: day}, nil
}

func newSettings(cfg config.LearningConfig) review.StaticSettings {
	return review.StaticSettings{
		DailyReviewLimit: cfg.DailyReviewLimit,
		DailySpellLimit:  cfg.DailySpellLimit,
		MaxPrepDays:      cfg.MaxPrepDays,
		LowEFExtraCount:  cfg.LowEFExtraCount,
		LapseGaps:        cfg.LapseGaps,
		ScoreThresholds: scheduling.ScoreThresholds{
			Fast: cfg.ScoreThresholds.Fast,
			Slow: cfg.ScoreThresholds.Slow,
		},
	}
}

func newReviewSession(ctx context.Context, cfg *config.Config, db *sqlx.DB, clock date.Clock) *review.Session {
	return review.NewSession(review.Dependencies{
		Items:    learning.NewDBItemRepository(db, cfg.UserID),
		History:  learning.NewDBHistoryRepository(db, cfg.UserID),
		Progress: progress.NewDBRepository(db, cfg.UserID),
		Settings: newSettings(cfg.Learning),
		Clock:    clock,
		Runner:   background.NewAsyncRunner(ctx),
	}, review.Options{
		Queue: review.QueueOptions{
			BatchSize:      cfg.Queue.BatchSize,
			QueueThreshold: cfg.Queue.QueueThreshold,
			TotalLimit:     cfg.Queue.TotalLimit,
		},
		Debounce: cfg.Progress.Debounce,
		Retry: review.RetryOptions{
			Attempts: cfg.WriteRetry.Attempts,
			Delay:    cfg.WriteRetry.Delay,
		},
	})
}

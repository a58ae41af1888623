package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	UserID     string         `mapstructure:"user_id" validate:"required"`
	Source     string         `mapstructure:"source" validate:"required"`
	Database   DatabaseConfig `mapstructure:"database"`
	Learning   LearningConfig `mapstructure:"learning"`
	Queue      QueueConfig    `mapstructure:"queue"`
	Progress   ProgressConfig `mapstructure:"progress"`
	WriteRetry RetryConfig    `mapstructure:"write_retry"`

	Dictionaries DictionariesConfig `mapstructure:"dictionaries"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type LearningConfig struct {
	DailyReviewLimit int                   `mapstructure:"daily_review_limit" validate:"gte=1"`
	DailySpellLimit  int                   `mapstructure:"daily_spell_limit" validate:"gte=1"`
	MaxPrepDays      int                   `mapstructure:"max_prep_days" validate:"gte=1,lte=365"`
	LowEFExtraCount  int                   `mapstructure:"low_ef_extra_count" validate:"gte=0"`
	LapseGaps        []int                 `mapstructure:"lapse_gaps" validate:"required,ascending,dive,gte=1"`
	DefaultShuffle   bool                  `mapstructure:"default_shuffle"`
	ScoreThresholds  ScoreThresholdsConfig `mapstructure:"score_thresholds"`
}

// ScoreThresholdsConfig holds reaction times in seconds.
type ScoreThresholdsConfig struct {
	Fast float64 `mapstructure:"fast" validate:"gt=0"`
	Slow float64 `mapstructure:"slow" validate:"gtfield=Fast"`
}

type QueueConfig struct {
	BatchSize      int `mapstructure:"batch_size" validate:"gte=1"`
	QueueThreshold int `mapstructure:"queue_threshold" validate:"gte=0"`
	// TotalLimit caps the ids of one session; 0 means no cap.
	TotalLimit int `mapstructure:"total_limit" validate:"gte=0"`
}

type ProgressConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

type RetryConfig struct {
	Attempts uint          `mapstructure:"attempts" validate:"gte=1"`
	Delay    time.Duration `mapstructure:"delay" validate:"gte=0"`
}

type DictionariesConfig struct {
	RapidAPI RapidAPIConfig `mapstructure:"rapidapi"`
}

type RapidAPIConfig struct {
	CacheDirectory string `mapstructure:"cache_directory"`
	Host           string `mapstructure:"host"`
	Key            string `mapstructure:"key"`
	MaxResults     int    `mapstructure:"max_results" validate:"gte=0"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vocabreview")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("user_id", "local")
	v.SetDefault("source", "default")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "vocabreview.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "vocabreview")
	v.SetDefault("database.username", "user")
	v.SetDefault("learning.daily_review_limit", 50)
	v.SetDefault("learning.daily_spell_limit", 30)
	v.SetDefault("learning.max_prep_days", 45)
	v.SetDefault("learning.low_ef_extra_count", 0)
	v.SetDefault("learning.lapse_gaps", []int{1, 3, 7, 15})
	v.SetDefault("learning.default_shuffle", false)
	v.SetDefault("learning.score_thresholds.fast", 2.0)
	v.SetDefault("learning.score_thresholds.slow", 5.0)
	v.SetDefault("queue.batch_size", 20)
	v.SetDefault("queue.queue_threshold", 5)
	v.SetDefault("queue.total_limit", 100)
	v.SetDefault("progress.debounce", 5*time.Second)
	v.SetDefault("write_retry.attempts", 3)
	v.SetDefault("write_retry.delay", 200*time.Millisecond)
	v.SetDefault("dictionaries.rapidapi.cache_directory", filepath.Join("dictionaries", "rapidapi"))
	v.SetDefault("dictionaries.rapidapi.host", "wordsapiv1.p.rapidapi.com")
	v.SetDefault("dictionaries.rapidapi.max_results", 2)

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("user_id", "VOCABREVIEW_USER"); err != nil {
		return nil, fmt.Errorf("failed to bind VOCABREVIEW_USER environment variable: %w", err)
	}

	// The RapidAPI key is read from the environment only
	if err := v.BindEnv("dictionaries.rapidapi.host", "RAPID_API_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind RAPID_API_HOST environment variable: %w", err)
	}
	if err := v.BindEnv("dictionaries.rapidapi.key", "RAPID_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind RAPID_API_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

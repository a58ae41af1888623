package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		UserID: "local",
		Source: "default",
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "vocabreview.db",
			Host:     "localhost",
			Port:     3306,
			Database: "vocabreview",
			Username: "user",
		},
		Learning: LearningConfig{
			DailyReviewLimit: 50,
			DailySpellLimit:  30,
			MaxPrepDays:      45,
			LowEFExtraCount:  0,
			LapseGaps:        []int{1, 3, 7, 15},
			ScoreThresholds:  ScoreThresholdsConfig{Fast: 2, Slow: 5},
		},
		Queue: QueueConfig{
			BatchSize:      20,
			QueueThreshold: 5,
			TotalLimit:     100,
		},
		Progress:   ProgressConfig{Debounce: 5 * time.Second},
		WriteRetry: RetryConfig{Attempts: 3, Delay: 200 * time.Millisecond},
		Dictionaries: DictionariesConfig{
			RapidAPI: RapidAPIConfig{
				CacheDirectory: filepath.Join("dictionaries", "rapidapi"),
				Host:           "wordsapiv1.p.rapidapi.com",
				MaxResults:     2,
			},
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		wantErr           bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name: "no config file uses defaults",
			want: defaultConfig,
		},
		{
			name: "valid config file with custom values",
			configContent: `user_id: alice
source: toefl
database:
  driver: mysql
  host: db.example.com
  port: 3307
  database: review
  username: admin
learning:
  daily_review_limit: 80
  max_prep_days: 30
  low_ef_extra_count: 10
  lapse_gaps: [1, 2, 5]
  default_shuffle: true
queue:
  batch_size: 10
  total_limit: 0
progress:
  debounce: 2s
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.UserID = "alice"
				cfg.Source = "toefl"
				cfg.Database.Driver = "mysql"
				cfg.Database.Host = "db.example.com"
				cfg.Database.Port = 3307
				cfg.Database.Database = "review"
				cfg.Database.Username = "admin"
				cfg.Learning.DailyReviewLimit = 80
				cfg.Learning.MaxPrepDays = 30
				cfg.Learning.LowEFExtraCount = 10
				cfg.Learning.LapseGaps = []int{1, 2, 5}
				cfg.Learning.DefaultShuffle = true
				cfg.Queue.BatchSize = 10
				cfg.Queue.TotalLimit = 0
				cfg.Progress.Debounce = 2 * time.Second
				return cfg
			},
		},
		{
			name: "explicit config file path",
			configContent: `source: ielts
write_retry:
  attempts: 5
  delay: 1s
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Source = "ielts"
				cfg.WriteRetry = RetryConfig{Attempts: 5, Delay: time.Second}
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `learning:
  daily_review_limit: 10
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "gaps must grow",
			configContent: `learning:
  lapse_gaps: [1, 7, 3]
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "lapse_gaps must be strictly increasing"},
		},
		{
			name: "gaps must be positive",
			configContent: `learning:
  lapse_gaps: [0, 3]
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "lapse_gaps[0]"},
		},
		{
			name: "unknown database driver",
			configContent: `database:
  driver: postgres
`,
			wantErr:           true,
			wantErrorContains: []string{"driver must be one of"},
		},
		{
			name: "slow threshold must exceed fast threshold",
			configContent: `learning:
  score_thresholds:
    fast: 4
    slow: 3
`,
			wantErr:           true,
			wantErrorContains: []string{"slow"},
		},
		{
			name: "batch size must be positive",
			configContent: `queue:
  batch_size: 0
`,
			wantErr:           true,
			wantErrorContains: []string{"batch_size"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_PASSWORD", "")
			t.Setenv("VOCABREVIEW_USER", "")
			t.Setenv("RAPID_API_HOST", "")
			t.Setenv("RAPID_API_KEY", "")
			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "review.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644))
				}
				t.Chdir(tempDir)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestConfigLoader_Load_PasswordFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_PASSWORD", "secret")

	loader, err := NewConfigLoader("")
	require.NoError(t, err)
	got, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Database.Password)
}

func TestConfigLoader_Load_RapidAPIFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RAPID_API_HOST", "words.example.com")
	t.Setenv("RAPID_API_KEY", "rapid-key")

	loader, err := NewConfigLoader("")
	require.NoError(t, err)
	got, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, RapidAPIConfig{
		CacheDirectory: filepath.Join("dictionaries", "rapidapi"),
		Host:           "words.example.com",
		Key:            "rapid-key",
		MaxResults:     2,
	}, got.Dictionaries.RapidAPI)
}

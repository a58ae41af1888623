package progress

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/vocabreview/internal/learning"
)

var progressColumns = []string{"user_id", "mode", "source", "shuffle", "item_ids", "current_index", "initial_count"}

func newRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql"), "alice"), mock
}

func TestDBRepository_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *Progress
		wantErr   error
		anyErr    bool
	}{
		{
			name: "returns saved progress",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT user_id, mode, source, shuffle, item_ids, current_index, initial_count FROM review_progress WHERE user_id = \\?").
					WithArgs("alice").
					WillReturnRows(sqlmock.NewRows(progressColumns).AddRow("alice", "review", "toefl", true, "[3,1,2]", 1, 0))
			},
			want: &Progress{
				Mode:         learning.ModeReview,
				Source:       "toefl",
				Shuffle:      true,
				ItemIDs:      []int64{3, 1, 2},
				CurrentIndex: 1,
			},
		},
		{
			name: "no progress",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM review_progress").
					WillReturnRows(sqlmock.NewRows(progressColumns))
			},
		},
		{
			name: "corrupt snapshot",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM review_progress").
					WillReturnRows(sqlmock.NewRows(progressColumns).AddRow("alice", "lapse", "toefl", false, "[1,", 0, 3))
			},
			wantErr: ErrCorruptSnapshot,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM review_progress").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)
			tt.setupMock(mock)

			got, err := repo.Get(context.Background())
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Save(t *testing.T) {
	tests := []struct {
		name      string
		progress  Progress
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name:     "replaces the saved session",
			progress: Progress{Mode: learning.ModeSpelling, Source: "toefl", ItemIDs: []int64{5, 6}, CurrentIndex: 0},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM review_progress WHERE user_id = \\?").
					WithArgs("alice").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO review_progress").
					WithArgs("alice", "spelling", "toefl", false, "[5,6]", 0, 0).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:     "empty snapshot is stored as an empty list",
			progress: Progress{Mode: learning.ModeLapse, Source: "toefl"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM review_progress").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO review_progress").
					WithArgs("alice", "lapse", "toefl", false, "[]", 0, 0).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:     "insert error rolls back",
			progress: Progress{Mode: learning.ModeReview, Source: "toefl", ItemIDs: []int64{1}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM review_progress").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO review_progress").WillReturnError(fmt.Errorf("disk full"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)
			tt.setupMock(mock)

			err := repo.Save(context.Background(), tt.progress)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Updates(t *testing.T) {
	t.Run("update index", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectExec("UPDATE review_progress SET current_index = \\? WHERE user_id = \\?").
			WithArgs(4, "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateIndex(context.Background(), 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update snapshot", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectExec("UPDATE review_progress SET item_ids = \\? WHERE user_id = \\?").
			WithArgs("[9,8]", "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateSnapshot(context.Background(), []int64{9, 8}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clear", func(t *testing.T) {
		repo, mock := newRepository(t)
		mock.ExpectExec("DELETE FROM review_progress WHERE user_id = \\?").
			WithArgs("alice").
			WillReturnError(fmt.Errorf("connection refused"))

		assert.ErrorContains(t, repo.Clear(context.Background()), "connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

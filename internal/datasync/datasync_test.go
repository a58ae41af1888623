package datasync

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/vocabreview/internal/date"
	"github.com/at-ishikawa/vocabreview/internal/learning"
	mock_datasync "github.com/at-ishikawa/vocabreview/internal/mocks/datasync"
)

var today = date.New(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

var borrow = learning.Item{ID: 1, Source: "toefl", Word: "borrow", Definition: "to take and return"}

func TestImporter_ImportWords(t *testing.T) {
	tests := []struct {
		name       string
		words      []learning.NewWord
		opts       ImportOptions
		lookup     bool
		setup      func(items *mock_datasync.MockItemStore, dictionary *mock_datasync.MockDefinitionLookup)
		want       *ImportResult
		wantErr    string
		wantOutput []string
	}{
		{
			name: "new words are inserted, known, blank and repeated words are skipped",
			words: []learning.NewWord{
				{Word: " apple ", Definition: "a round fruit "},
				{Word: "Borrow", Definition: "to lend"},
				{Word: "  "},
				{Word: "APPLE", Definition: "again"},
				{Word: "cat"},
			},
			setup: func(items *mock_datasync.MockItemStore, _ *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return([]learning.Item{borrow}, nil)
				items.EXPECT().InsertWords(gomock.Any(), "toefl", []learning.NewWord{
					{Word: "apple", Definition: "a round fruit"},
					{Word: "cat"},
				}, today).Return(nil)
			},
			want: &ImportResult{WordsNew: 2, WordsSkipped: 3},
			wantOutput: []string{
				`  [NEW]  "apple" (a round fruit)`,
				`  [SKIP]  "Borrow" (to take and return)`,
				`  [NEW]  "cat" ()`,
			},
		},
		{
			name:  "existing definition is updated",
			words: []learning.NewWord{{Word: "borrow", Definition: "to lend"}},
			opts:  ImportOptions{UpdateExisting: true},
			setup: func(items *mock_datasync.MockItemStore, _ *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return([]learning.Item{borrow}, nil)
				items.EXPECT().UpdateDefinition(gomock.Any(), int64(1), "to lend").Return(nil)
			},
			want:       &ImportResult{WordsUpdated: 1},
			wantOutput: []string{`  [UPDATE]  "borrow" (to lend)`},
		},
		{
			name:  "same definition is not an update",
			words: []learning.NewWord{{Word: "borrow", Definition: "to take and return"}, {Word: "BORROW"}},
			opts:  ImportOptions{UpdateExisting: true},
			setup: func(items *mock_datasync.MockItemStore, _ *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return([]learning.Item{borrow}, nil)
			},
			want: &ImportResult{WordsSkipped: 2},
		},
		{
			name:  "dry run writes nothing",
			words: []learning.NewWord{{Word: "apple"}, {Word: "borrow", Definition: "to lend"}},
			opts:  ImportOptions{DryRun: true, UpdateExisting: true},
			setup: func(items *mock_datasync.MockItemStore, _ *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return([]learning.Item{borrow}, nil)
			},
			want:       &ImportResult{WordsNew: 1, WordsUpdated: 1},
			wantOutput: []string{`  [NEW]  "apple" ()`, `  [UPDATE]  "borrow" (to lend)`},
		},
		{
			name: "missing definitions are looked up",
			words: []learning.NewWord{
				{Word: "apple", Definition: "a round fruit"},
				{Word: "cat"},
				{Word: "qwxz"},
			},
			lookup: true,
			setup: func(items *mock_datasync.MockItemStore, dictionary *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return(nil, nil)
				dictionary.EXPECT().Definition(gomock.Any(), "cat").Return("(noun) a small animal", nil)
				dictionary.EXPECT().Definition(gomock.Any(), "qwxz").Return("", errors.New("no definition found"))
				items.EXPECT().InsertWords(gomock.Any(), "toefl", []learning.NewWord{
					{Word: "apple", Definition: "a round fruit"},
					{Word: "cat", Definition: "(noun) a small animal"},
					{Word: "qwxz"},
				}, today).Return(nil)
			},
			want: &ImportResult{WordsNew: 3, Warnings: 1},
			wantOutput: []string{
				`  [NEW]  "cat" ((noun) a small animal)`,
				`  [WARN]  no definition for "qwxz": no definition found`,
			},
		},
		{
			name:  "item lookup failure",
			words: []learning.NewWord{{Word: "apple"}},
			setup: func(items *mock_datasync.MockItemStore, _ *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return(nil, errors.New("connection refused"))
			},
			wantErr: "items.FindBySource(toefl) > connection refused",
		},
		{
			name:  "insert failure",
			words: []learning.NewWord{{Word: "apple"}},
			setup: func(items *mock_datasync.MockItemStore, _ *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return(nil, nil)
				items.EXPECT().InsertWords(gomock.Any(), "toefl", gomock.Any(), today).Return(errors.New("duplicate entry"))
			},
			wantErr: "items.InsertWords(toefl) > duplicate entry",
		},
		{
			name:  "update failure",
			words: []learning.NewWord{{Word: "borrow", Definition: "to lend"}},
			opts:  ImportOptions{UpdateExisting: true},
			setup: func(items *mock_datasync.MockItemStore, _ *mock_datasync.MockDefinitionLookup) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return([]learning.Item{borrow}, nil)
				items.EXPECT().UpdateDefinition(gomock.Any(), int64(1), "to lend").Return(errors.New("timeout"))
			},
			wantErr: "items.UpdateDefinition(1) > timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			items := mock_datasync.NewMockItemStore(ctrl)
			dictionary := mock_datasync.NewMockDefinitionLookup(ctrl)
			tt.setup(items, dictionary)

			var lookup DefinitionLookup
			if tt.lookup {
				lookup = dictionary
			}
			var buf bytes.Buffer
			importer := NewImporter(items, lookup, &buf)
			got, err := importer.ImportWords(context.Background(), "toefl", tt.words, today, tt.opts)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestExporter_Export(t *testing.T) {
	logs := []learning.ReviewLog{
		{ID: 1, ItemID: 1, ReviewedAt: time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC), Score: 4, Remembered: true, Mode: learning.ModeReview, Source: "toefl"},
	}

	tests := []struct {
		name    string
		setup   func(items *mock_datasync.MockItemStore, history *mock_datasync.MockHistoryReader)
		want    *ExportData
		wantErr string
	}{
		{
			name: "items and the answer log",
			setup: func(items *mock_datasync.MockItemStore, history *mock_datasync.MockHistoryReader) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return([]learning.Item{borrow}, nil)
				history.EXPECT().FindBySource(gomock.Any(), "toefl").Return(logs, nil)
			},
			want: &ExportData{Source: "toefl", Items: []learning.Item{borrow}, ReviewLogs: logs},
		},
		{
			name: "items failure",
			setup: func(items *mock_datasync.MockItemStore, history *mock_datasync.MockHistoryReader) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return(nil, errors.New("connection refused"))
			},
			wantErr: "items.FindBySource() > connection refused",
		},
		{
			name: "history failure",
			setup: func(items *mock_datasync.MockItemStore, history *mock_datasync.MockHistoryReader) {
				items.EXPECT().FindBySource(gomock.Any(), "toefl").Return([]learning.Item{borrow}, nil)
				history.EXPECT().FindBySource(gomock.Any(), "toefl").Return(nil, errors.New("connection refused"))
			},
			wantErr: "history.FindBySource() > connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			items := mock_datasync.NewMockItemStore(ctrl)
			history := mock_datasync.NewMockHistoryReader(ctrl)
			tt.setup(items, history)

			got, err := NewExporter(items, history).Export(context.Background(), "toefl")
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImporter_ImportWords_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	items := mock_datasync.NewMockItemStore(ctrl)
	dictionary := mock_datasync.NewMockDefinitionLookup(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	items.EXPECT().FindBySource(gomock.Any(), "toefl").Return(nil, nil)
	dictionary.EXPECT().Definition(gomock.Any(), "cat").DoAndReturn(func(context.Context, string) (string, error) {
		cancel()
		return "", context.Canceled
	})

	_, err := NewImporter(items, dictionary, &bytes.Buffer{}).
		ImportWords(ctx, "toefl", []learning.NewWord{{Word: "cat"}}, today, ImportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

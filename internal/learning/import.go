package learning

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/vocabreview/internal/database"
	"github.com/at-ishikawa/vocabreview/internal/date"
)

// NewWord is a word to add to a source.
type NewWord struct {
	Word       string `yaml:"word"`
	Definition string `yaml:"definition"`
}

// ReadWordsFile reads a word list. .xlsx and .csv files hold the word in the first column and
// the definition in the second one, an optional "word" header row is skipped. Any other file
// is a YAML list of words.
func ReadWordsFile(path string) ([]NewWord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readWordsExcel(path)
	case ".csv":
		return readWordsCSV(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	var words []NewWord
	if err := yaml.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return words, nil
}

func readWordsExcel(path string) ([]NewWord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenFile(%s) > %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("f.GetRows(%s) > %w", sheets[0], err)
	}
	return wordsFromRows(rows), nil
}

func readWordsCSV(path string) ([]NewWord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reader.ReadAll(%s) > %w", path, err)
	}
	return wordsFromRows(rows), nil
}

func wordsFromRows(rows [][]string) []NewWord {
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "word") {
		rows = rows[1:]
	}
	words := make([]NewWord, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		w := NewWord{Word: row[0]}
		if len(row) > 1 {
			w.Definition = row[1]
		}
		words = append(words, w)
	}
	return words
}

// FindBySource returns every item of a source, stopped ones included, sorted by word.
func (r *DBItemRepository) FindBySource(ctx context.Context, source string) ([]Item, error) {
	var items []Item
	if err := r.db.SelectContext(ctx, &items,
		"SELECT "+itemColumns+" FROM items WHERE user_id = ? AND source = ? ORDER BY LOWER(word), id",
		r.userID, source); err != nil {
		return nil, fmt.Errorf("db.SelectContext(items by source) > %w", err)
	}
	return items, nil
}

// InsertWords adds new items due for review today. The words must not exist in the source yet.
func (r *DBItemRepository) InsertWords(ctx context.Context, source string, words []NewWord, today date.Date) error {
	if len(words) == 0 {
		return nil
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, w := range words {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO items (user_id, source, word, definition, next_review) VALUES (?, ?, ?, ?, ?)",
				r.userID, source, w.Word, w.Definition, today); err != nil {
				return fmt.Errorf("tx.ExecContext(insert %s) > %w", w.Word, err)
			}
		}
		return nil
	})
}

// UpdateDefinition replaces the definition of an item.
func (r *DBItemRepository) UpdateDefinition(ctx context.Context, id int64, definition string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE items SET definition = ? WHERE id = ? AND user_id = ?", definition, id, r.userID); err != nil {
		return fmt.Errorf("db.ExecContext(update definition %d) > %w", id, err)
	}
	return nil
}

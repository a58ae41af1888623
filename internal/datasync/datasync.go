// Package datasync provides import/export orchestration between YAML files and database.
package datasync

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/at-ishikawa/vocabreview/internal/date"
	"github.com/at-ishikawa/vocabreview/internal/learning"
)

//go:generate mockgen -source=datasync.go -destination=../mocks/datasync/mock_datasync.go -package=mock_datasync

// ItemStore is the part of the item repository used by imports and exports.
type ItemStore interface {
	FindBySource(ctx context.Context, source string) ([]learning.Item, error)
	InsertWords(ctx context.Context, source string, words []learning.NewWord, today date.Date) error
	UpdateDefinition(ctx context.Context, id int64, definition string) error
}

// HistoryReader reads the answer log of a source.
type HistoryReader interface {
	FindBySource(ctx context.Context, source string) ([]learning.ReviewLog, error)
}

// DefinitionLookup finds the definition of a word imported without one.
type DefinitionLookup interface {
	Definition(ctx context.Context, word string) (string, error)
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	WordsNew     int
	WordsSkipped int
	WordsUpdated int
	Warnings     int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer reads a YAML word list and writes to DB.
type Importer struct {
	items      ItemStore
	dictionary DefinitionLookup
	writer     io.Writer
}

// NewImporter creates a new Importer. dictionary may be nil, then words keep an empty definition.
func NewImporter(items ItemStore, dictionary DefinitionLookup, writer io.Writer) *Importer {
	return &Importer{
		items:      items,
		dictionary: dictionary,
		writer:     writer,
	}
}

// ImportWords adds the words missing from a source. Words are matched case-insensitively after trimming;
// blank words are ignored and only the first occurrence of a repeated word is used.
// New words are due for review today.
func (imp *Importer) ImportWords(ctx context.Context, source string, words []learning.NewWord, today date.Date, opts ImportOptions) (*ImportResult, error) {
	existing, err := imp.items.FindBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("items.FindBySource(%s) > %w", source, err)
	}
	known := lo.KeyBy(existing, func(item learning.Item) string {
		return strings.ToLower(item.Word)
	})

	candidates := lo.FilterMap(words, func(w learning.NewWord, _ int) (learning.NewWord, bool) {
		w.Word = strings.TrimSpace(w.Word)
		w.Definition = strings.TrimSpace(w.Definition)
		return w, w.Word != ""
	})
	candidates = lo.UniqBy(candidates, func(w learning.NewWord) string {
		return strings.ToLower(w.Word)
	})

	var result ImportResult
	var newWords []learning.NewWord
	for _, w := range candidates {
		item, ok := known[strings.ToLower(w.Word)]
		if !ok {
			if w.Definition == "" && imp.dictionary != nil {
				definition, err := imp.dictionary.Definition(ctx, w.Word)
				if ctx.Err() != nil {
					return nil, fmt.Errorf("dictionary.Definition(%s) > %w", w.Word, ctx.Err())
				}
				if err != nil {
					fmt.Fprintf(imp.writer, "  [WARN]  no definition for %q: %v\n", w.Word, err)
					result.Warnings++
				}
				w.Definition = definition
			}
			fmt.Fprintf(imp.writer, "  [NEW]  %q (%s)\n", w.Word, w.Definition)
			newWords = append(newWords, w)
			result.WordsNew++
			continue
		}
		if !opts.UpdateExisting || w.Definition == "" || w.Definition == item.Definition {
			fmt.Fprintf(imp.writer, "  [SKIP]  %q (%s)\n", w.Word, item.Definition)
			result.WordsSkipped++
			continue
		}
		if !opts.DryRun {
			if err := imp.items.UpdateDefinition(ctx, item.ID, w.Definition); err != nil {
				return nil, fmt.Errorf("items.UpdateDefinition(%d) > %w", item.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [UPDATE]  %q (%s)\n", w.Word, w.Definition)
		result.WordsUpdated++
	}
	result.WordsSkipped += len(words) - len(candidates)

	if opts.DryRun || len(newWords) == 0 {
		return &result, nil
	}
	if err := imp.items.InsertWords(ctx, source, newWords, today); err != nil {
		return nil, fmt.Errorf("items.InsertWords(%s) > %w", source, err)
	}
	return &result, nil
}

// ExportData holds all exported data of a source.
type ExportData struct {
	Source     string               `yaml:"source"`
	Items      []learning.Item      `yaml:"items"`
	ReviewLogs []learning.ReviewLog `yaml:"review_logs"`
}

// Exporter reads DB and returns domain structs.
type Exporter struct {
	items   ItemStore
	history HistoryReader
}

// NewExporter creates a new Exporter.
func NewExporter(items ItemStore, history HistoryReader) *Exporter {
	return &Exporter{
		items:   items,
		history: history,
	}
}

// Export reads the items and the answer log of a source.
func (e *Exporter) Export(ctx context.Context, source string) (*ExportData, error) {
	items, err := e.items.FindBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("items.FindBySource() > %w", err)
	}

	logs, err := e.history.FindBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("history.FindBySource() > %w", err)
	}

	return &ExportData{
		Source:     source,
		Items:      items,
		ReviewLogs: logs,
	}, nil
}

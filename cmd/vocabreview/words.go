package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/vocabreview/internal/datasync"
	"github.com/at-ishikawa/vocabreview/internal/dictionary"
	"github.com/at-ishikawa/vocabreview/internal/learning"
)

func newWordsCommand() *cobra.Command {
	wordsCommand := &cobra.Command{
		Use:   "words",
		Short: "Manage the words of the configured source",
	}
	wordsCommand.AddCommand(
		newWordsImportCommand(),
		newWordsExportCommand(),
	)
	return wordsCommand
}

func newWordsImportCommand() *cobra.Command {
	var today string
	var dryRun bool
	var updateExisting bool
	var lookup bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := learning.ReadWordsFile(args[0])
			if err != nil {
				return err
			}
			clock, err := newClock(today)
			if err != nil {
				return err
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			var dictionaryLookup datasync.DefinitionLookup
			if lookup {
				rapidAPI := cfg.Dictionaries.RapidAPI
				if rapidAPI.Key == "" {
					return errors.New("--lookup needs the RAPID_API_KEY environment variable")
				}
				dictionaryLookup = dictionary.NewReader(rapidAPI.CacheDirectory, dictionary.Config{
					RapidAPIHost: rapidAPI.Host,
					RapidAPIKey:  rapidAPI.Key,
					MaxResults:   rapidAPI.MaxResults,
				})
			}

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(learning.NewDBItemRepository(db, cfg.UserID), dictionaryLookup, out)
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.ImportWords(cmd.Context(), cfg.Source, words, clock.Today(), opts)
			if err != nil {
				return fmt.Errorf("import words: %w", err)
			}

			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, _ = fmt.Fprintf(out, "  Words (%s):  %d new, %d skipped, %d updated\n",
				cfg.Source, result.WordsNew, result.WordsSkipped, result.WordsUpdated)
			if result.Warnings > 0 {
				_, _ = fmt.Fprintf(out, "  Warnings:  %d\n", result.Warnings)
			}
			return nil
		},
	}
	addTodayFlag(cmd.Flags(), &today)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Update the definitions of existing words")
	cmd.Flags().BoolVar(&lookup, "lookup", false, "Look up missing definitions on WordsAPI")
	return cmd
}

func newWordsExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the words and the answer log of the configured source as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			exporter := datasync.NewExporter(
				learning.NewDBItemRepository(db, cfg.UserID),
				learning.NewDBHistoryRepository(db, cfg.UserID),
			)
			data, err := exporter.Export(cmd.Context(), cfg.Source)
			if err != nil {
				return fmt.Errorf("export words: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := writeYAML(w, data); err != nil {
				return err
			}
			if output != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words and %d answers to %s\n", len(data.Items), len(data.ReviewLogs), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write instead of stdout")
	return cmd
}

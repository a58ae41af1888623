package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/vocabreview/internal/database"
	"github.com/at-ishikawa/vocabreview/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			versions, err := database.Migrate(cmd.Context(), db, schemas.Migrations)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(versions) == 0 {
				_, _ = fmt.Fprintf(out, "The %s database is up to date\n", cfg.Database.Driver)
				return nil
			}
			for _, v := range versions {
				_, _ = fmt.Fprintf(out, "Applied %s\n", v)
			}
			return nil
		},
	}
}

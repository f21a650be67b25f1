package commands

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect the database schema",
		Long: `Inspect the database schema.

Pending migrations are applied automatically whenever the database is opened.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.library(cmd.Context()); err != nil {
				return err
			}

			version, dirty, err := a.db.Version()
			if err != nil {
				return err
			}

			if a.out.JSON() {
				return a.out.Encode(map[string]any{"version": version, "dirty": dirty})
			}
			a.out.Line("Schema version: %d", version)
			if dirty {
				a.out.Warning("The last migration did not complete; the schema is dirty.")
			}
			return nil
		},
	})

	return cmd
}

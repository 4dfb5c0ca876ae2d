package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eleven-am/taskboard/internal/config"
	"github.com/eleven-am/taskboard/internal/logger"
	"github.com/eleven-am/taskboard/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

func withStore(fn func(st *store.Store) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Database.URL, store.Options{
			MaxConnections: cfg.Database.MaxConnections,
			MaxIdle:        cfg.Database.MaxIdle,
		})
		if err != nil {
			return err
		}
		defer st.Close()
		return fn(st)
	}
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withStore(func(st *store.Store) error {
		// Open already migrates; reaching here means the schema is current.
		logger.Migration().Info("schema is up to date")
		return nil
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: withStore(func(st *store.Store) error {
		return store.MigrateDown(st.DB())
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: withStore(func(st *store.Store) error {
		return store.MigrationStatus(st.DB())
	}),
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

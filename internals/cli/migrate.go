package cli

import (
	"github.com/spf13/cobra"

	"lms_backend/internals/configs"
	database "lms_backend/internals/databases"
)

// NewMigrateCmd membuat tabel + index (idempotent).
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(*configPath)
		},
	}
}

func runMigrations(configPath string) error {
	cfg, err := configs.Load(configPath)
	if err != nil {
		return err
	}
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return database.Migrate(db)
}

package cli

import (
	"github.com/spf13/cobra"

	"lms_backend/internals/configs"
	database "lms_backend/internals/databases"
	"lms_backend/internals/seeds"
)

// NewSeedCmd mengisi quiz & exam contoh (migrate dulu).
func NewSeedCmd(configPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample quizzes and exams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configs.Load(*configPath)
			if err != nil {
				return err
			}
			db, err := database.ConnectDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}
			return seeds.RunAllSeeds(db, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "internals/seeds/assessments", "directory with data_quizzes.json / data_exams.json")
	return cmd
}

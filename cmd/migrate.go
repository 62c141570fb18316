package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrewpaige1/studyflash-api/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Connect migrates before returning.
		db, err := config.Connect(cfg.DB, cfg.Env, log)
		if err != nil {
			return err
		}
		log.Info("schema up to date", zap.String("db_driver", cfg.DB.Driver))
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return config.Close(db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

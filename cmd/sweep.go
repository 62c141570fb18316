package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/studyflash-api/config"
	"github.com/andrewpaige1/studyflash-api/maintenance"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove orphaned flashcards and attempt cards once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := config.Connect(cfg.DB, cfg.Env, log)
		if err != nil {
			return err
		}
		defer config.Close(db)

		res, err := maintenance.NewSweeper(db, log).Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d flashcards and %d attempt cards\n", res.Flashcards, res.AttemptCards)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

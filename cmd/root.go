package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrewpaige1/studyflash-api/config"
	"github.com/andrewpaige1/studyflash-api/logger"
)

var (
	envFile string
	v       = config.New()
	cfg     *config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "studyflash",
	Short: "StudyFlash API - flashcard sets, practice sessions and leaderboards",
	Long: `StudyFlash serves the JSON API behind the flashcard study app:
accounts, sets, flashcards, practice attempts and the score leaderboard.

Settings come from the environment (optionally a .env file) and can be
overridden with flags.`,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	var err error
	if cfg, err = config.Load(v); err != nil {
		return err
	}

	if log, err = logger.New(cfg.Env); err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if log != nil {
		_ = log.Sync()
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")
	flags.String("env", "", "runtime environment (development, production, test)")
	flags.String("db-driver", "", "database driver (postgres, sqlite)")
	flags.String("db-url", "", "database DSN or sqlite file")

	_ = v.BindPFlag("app_env", flags.Lookup("env"))
	_ = v.BindPFlag("db_driver", flags.Lookup("db-driver"))
	_ = v.BindPFlag("db_url", flags.Lookup("db-url"))
}

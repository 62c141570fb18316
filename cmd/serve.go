package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrewpaige1/studyflash-api/config"
	"github.com/andrewpaige1/studyflash-api/handlers"
	"github.com/andrewpaige1/studyflash-api/maintenance"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides PORT)")
	serveCmd.Flags().Duration("sweep-interval", 0, "run the orphan sweep this often, 0 disables it")

	_ = v.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("sweep_interval", serveCmd.Flags().Lookup("sweep-interval"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	db, err := config.Connect(cfg.DB, cfg.Env, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.Close(db); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	router, err := handlers.NewRouter(db, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sweep > 0 {
		go maintenance.NewSweeper(db, log).Run(ctx, cfg.Sweep)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.Env),
			zap.String("db_driver", cfg.DB.Driver),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.Shutdown))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"receipt-processor/api"
	"receipt-processor/internal/config"
	"receipt-processor/internal/receipt"
)

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the receipt processor HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
			slog.SetDefault(logger)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
			if err != nil {
				return fmt.Errorf("listen on port %d: %w", cfg.Server.Port, err)
			}
			return serve(ctx, lis, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (defaults apply when empty)")
	return cmd
}

// serve runs the API on lis until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, lis net.Listener, cfg *config.Config, logger *slog.Logger) error {
	repo, err := receipt.OpenRepository(cfg.Store.Backend)
	if err != nil {
		return err
	}
	defer repo.Close()

	logger.Info("receipt processor starting",
		"addr", lis.Addr().String(),
		"store", cfg.Store.Backend,
		"unknown_id", cfg.Receipts.UnknownID,
		"metrics", cfg.Metrics.Enabled,
	)

	srv := &http.Server{Handler: api.NewRouter(repo, cfg, logger)}

	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("receipt processor shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

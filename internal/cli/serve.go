package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"file-manager-plugin/internal/config"
	"file-manager-plugin/internal/filesystem"
	"file-manager-plugin/internal/lock"
	"file-manager-plugin/internal/transport"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// lockTimeout bounds how long serve waits for another host to release the
// instance lock.
var lockTimeout = 2 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the file manager channel over stdio or HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, nil, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	d := config.Defaults()
	flags := cmd.Flags()
	flags.String("transport", d.Transport, "Transport protocol (stdio or http)")
	flags.Int("port", d.Port, "Port for HTTP transport")
	flags.Int("max-concurrent", d.MaxConcurrent, "Maximum concurrent requests")
	flags.Int("timeout", d.RequestTimeoutSec, "Request timeout in seconds")
	flags.Int("max-request-size", d.MaxRequestSizeMB, "Maximum request size in MB")
	flags.String("lock-file", d.LockFile, "Exclusive lock file; refuse to serve while another host holds it")
	mustBind(opts.v, flags, config.KeyTransport, "transport")
	mustBind(opts.v, flags, config.KeyPort, "port")
	mustBind(opts.v, flags, config.KeyMaxConcurrent, "max-concurrent")
	mustBind(opts.v, flags, config.KeyRequestTimeoutSec, "timeout")
	mustBind(opts.v, flags, config.KeyMaxRequestSizeMB, "max-request-size")
	mustBind(opts.v, flags, config.KeyLockFile, "lock-file")
	return cmd
}

// runServe serves cfg's transport until input ends or a signal arrives.
// A nil locker selects the flock-backed LockManager.
func runServe(ctx context.Context, cfg *config.Config, locker lock.LockManagerInterface, in io.Reader, out io.Writer) error {
	logger, err := newLogger(cfg, cfg.Transport)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("effective configuration",
		zap.String("transport", cfg.Transport),
		zap.Int("port", cfg.Port),
		zap.Int("max_concurrent", cfg.MaxConcurrent),
		zap.Int("request_timeout_sec", cfg.RequestTimeoutSec),
		zap.Int("max_request_size_mb", cfg.MaxRequestSizeMB),
		zap.String("lock_file", cfg.LockFile),
	)

	if cfg.LockFile != "" {
		if locker == nil {
			locker = lock.NewLockManager(logger.Named("lock"))
		}
		held, err := locker.AcquireLock(ctx, cfg.LockFile, lockTimeout)
		if err != nil {
			return fmt.Errorf("another host may be running: %w", err)
		}
		defer func() {
			if err := locker.ReleaseLock(held); err != nil {
				logger.Warn("release instance lock failed", zap.Error(err))
			}
		}()
	}

	h, err := newHost(filesystem.NewDefaultFileSystemAdapter(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportHTTP:
		return serveHTTP(ctx, cfg, h, logger)
	case config.TransportStdio:
		return serveStdio(ctx, cfg, h, in, out, logger)
	default:
		return fmt.Errorf("unsupported transport %q", cfg.Transport)
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, h *host, logger *zap.Logger) error {
	handler := transport.NewHTTPHandler(h.dispatcher, cfg.RequestTimeoutSec, cfg.MaxRequestSizeMB, logger.Named("http"))

	done := make(chan error, 1)
	go func() { done <- handler.StartServer(cfg.Port) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		if err := handler.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return <-done
	}
}

func serveStdio(ctx context.Context, cfg *config.Config, h *host, in io.Reader, out io.Writer, logger *zap.Logger) error {
	handler, err := transport.NewStdioHandler(h.dispatcher, cfg.MaxConcurrent, cfg.MaxRequestSizeMB, logger.Named("stdio"))
	if err != nil {
		return err
	}
	defer handler.Close()

	done := make(chan error, 1)
	go func() { done <- handler.Start(in, out) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The reader cannot be interrupted; in-flight requests are abandoned.
		logger.Info("shutdown signal received, stopping stdio handler")
		return nil
	}
}

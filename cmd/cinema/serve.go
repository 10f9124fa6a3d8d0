package main

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

	"github.com/llehouerou/go-graphql-projection/internal/cinemaserver"
)

type serveOptions struct {
	configPath string
	addr       string
	dsn        string
	debug      bool
}

func newServeCommand() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cinema schema over HTTP and graphql-ws",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML server configuration")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address, overrides the configuration")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "MySQL DSN, overrides the configuration; empty serves the demo data from memory")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Development logging")
	return cmd
}

func (o serveOptions) config() (cinemaserver.Config, error) {
	cfg := cinemaserver.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = cinemaserver.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.dsn != "" {
		cfg.DSN = o.dsn
	}
	return cfg, cfg.Validate()
}

func openStore(ctx context.Context, cfg cinemaserver.Config, log *zap.Logger) (cinemaserver.Store, func(), error) {
	if cfg.DSN == "" {
		log.Info("serving the demo data from memory")
		return cinemaserver.NewDemoStore(), func() {}, nil
	}
	store, err := cinemaserver.OpenSQLStore(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn("closing the database", zap.Error(err))
		}
	}, nil
}

func serve(ctx context.Context, opts serveOptions) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	log, err := newLogger(opts.debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	srv, err := cinemaserver.NewServer(cfg, store, log)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("path", cinemaserver.Path))
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Close()
	return httpServer.Shutdown(shutdownCtx)
}

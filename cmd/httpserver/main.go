package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tinyhttpd/internal/config"
	"tinyhttpd/internal/fsdir"
	"tinyhttpd/internal/routes"
	"tinyhttpd/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "httpserver",
	Short: "Minimal concurrent HTTP/1.1 server over raw TCP",
	Long: `httpserver accepts raw TCP connections, parses HTTP/1.1 requests by
hand and serves a small fixed route set: /, /echo/<msg>, /user-agent and
GET/POST /files/<name> against a configured directory.`,
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().String("addr", config.DefaultAddr, "address to accept connections on")
	rootCmd.Flags().String("directory", "", "serving directory for the /files routes (empty disables them)")
	rootCmd.Flags().Int("workers", config.DefaultWorkers, "maximum connections handled in parallel")
	rootCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(log)

	var dir *fsdir.Dir
	if cfg.Directory != "" {
		dir = fsdir.New(cfg.Directory)
	} else {
		log.Warn("no serving directory configured, file routes disabled")
	}

	srv, err := server.Serve(cfg.Addr, cfg.Workers, routes.New(dir, log), log)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	defer srv.Close()
	log.Info("server started", "addr", srv.Addr().String(), "directory", cfg.Directory, "workers", cfg.Workers)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

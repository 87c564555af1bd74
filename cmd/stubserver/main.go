// Command stubserver serves a development inventory backend on SQLite.
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

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/erazemk/magasin/internal/api"
	"github.com/erazemk/magasin/internal/db"
	"github.com/erazemk/magasin/internal/logger"
	"github.com/erazemk/magasin/internal/store"
)

func main() {
	fs := pflag.NewFlagSet("stubserver", pflag.ContinueOnError)

	dbPath := fs.StringP("db", "d", db.Memory, "")
	addr := fs.StringP("addr", "a", ":8080", "")
	seed := fs.Bool("seed", true, "")
	tools := fs.Int("seed-tools", store.DefaultSeed.Tools, "")
	movements := fs.Int("seed-movements", store.DefaultSeed.Movements, "")
	logPath := fs.StringP("log", "l", "", "")
	logLevel := fs.String("log-level", "info", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: stubserver [flags]

Flags:
  -d, --db <path>             SQLite database path (default: in memory)
  -a, --addr <host:port>      listen address (default: :8080)
      --seed                  insert sample data into an empty database (default: true)
      --seed-tools <n>        sample tools to insert (default: 60)
      --seed-movements <n>    sample movements to insert (default: 40)
  -l, --log <path>            log file path (default: no file, stdout/stderr only)
      --log-level <level>     debug, info, warn or error (default: info)
  -h, --help                  show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// INFO/WARN go to stdout, ERROR to stderr, everything to the log file.
	log, closeLog, err := logger.New(logger.Options{Level: *logLevel, File: *logPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	zap.ReplaceGlobals(log)

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Error("failed to migrate database", zap.Error(err))
		os.Exit(1)
	}

	if *seed {
		opts := store.SeedOptions{Tools: *tools, Movements: *movements}
		if err := store.Seed(context.Background(), database, opts); err != nil {
			log.Error("failed to seed database", zap.Error(err))
			os.Exit(1)
		}
	}

	log.Info("database ready", zap.String("path", *dbPath))

	server := &http.Server{
		Addr:              *addr,
		Handler:           api.LoggingMiddleware(logger.Named(log, "stub"))(api.NewRouter(database)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", *addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("server stopped, closing database")
}

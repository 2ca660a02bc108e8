package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/cduffy/ironclub/api"
	"github.com/cduffy/ironclub/auth"
	"github.com/cduffy/ironclub/store"
	bboltstore "github.com/cduffy/ironclub/store/bbolt"
	postgresstore "github.com/cduffy/ironclub/store/postgres"
)

// Environment variables read at startup. The shared password never appears
// on the command line, so it stays out of process listings.
const (
	envAuthPassword     = "IRONCLUB_AUTH_PASSWORD"
	envRegistrationOpen = "IRONCLUB_REGISTRATION_OPEN"
)

var (
	port        int
	dataDir     string
	postgresDSN string
	sessionTTL  time.Duration
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the workout tracker server",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv(envAuthPassword)
		if secret == "" {
			slog.Warn("no shared password configured; all logins will fail",
				"env", envAuthPassword)
		}
		registrationOpen := true
		if raw := os.Getenv(envRegistrationOpen); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", envRegistrationOpen, err)
			}
			registrationOpen = v
		}

		var st store.Store
		if postgresDSN != "" {
			pg, err := postgresstore.Open(cmd.Context(), postgresDSN)
			if err != nil {
				return fmt.Errorf("opening postgres store: %w", err)
			}
			defer pg.Close()
			st = pg
		} else {
			if err := os.MkdirAll(dataDir, 0o700); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}
			bb, err := bboltstore.Open(dataDir+"/ironclub.db", nil)
			if err != nil {
				return fmt.Errorf("opening bbolt store: %w", err)
			}
			defer bb.Close()
			st = bb
		}

		cfg := auth.NewConfig(secret, registrationOpen, sessionTTL)
		gateway, err := auth.NewGateway(cfg, st)
		if err != nil {
			return fmt.Errorf("building auth gateway: %w", err)
		}

		a := api.New(st, gateway)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(api.SecurityHeaders)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Mount("/api", a.Router())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Starting server on port %d...\n", port)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory for persistent data")
	serverCmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "PostgreSQL DSN; overrides the embedded store")
	serverCmd.Flags().DurationVar(&sessionTTL, "session-ttl", 24*time.Hour, "Session lifetime")
}

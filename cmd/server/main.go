package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/collection"
	"task-tracker-api/internal/config"
	"task-tracker-api/internal/console"
	"task-tracker-api/internal/database"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/routes"
	"task-tracker-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "tasktracker",
		Short:   "Task Tracker - per-session to-do list manager",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(shellCmd(&configPath))
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFactory(cfg *config.Config) (collection.Factory, error) {
	return collection.NewFactory(cfg.Session.Backend, database.Opener(cfg.Database))
}

func serveCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cfg)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func serve(cfg *config.Config) error {
	gin.SetMode(cfg.Server.Mode)

	factory, err := newFactory(cfg)
	if err != nil {
		return err
	}

	hub := realtime.NewHub()
	sessions := session.NewManager(factory, cfg.Session.TTL, hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitorDone := make(chan struct{})
	go func() {
		sessions.Run(ctx, cfg.Session.PurgeInterval)
		close(janitorDone)
	}()

	// Setup the routes (public and session routes)
	ginRoutes := routes.SetupRoutes(routes.Dependencies{
		Sessions: sessions,
		Issuer:   auth.NewTokenIssuer(cfg.Token),
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: ginRoutes,
	}

	log.Printf("Server starting on %s (collection backend: %s)", cfg.Server.Addr, cfg.Session.Backend)
	log.Println("API endpoints:")
	for _, e := range routes.Endpoints {
		log.Println("  " + e)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		stop()
		<-janitorDone
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	<-janitorDone
	return nil
}

func shellCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Manage a to-do list interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			factory, err := newFactory(cfg)
			if err != nil {
				return err
			}
			tasks, err := factory()
			if err != nil {
				return err
			}
			defer tasks.Close()

			return console.NewShell(tasks, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tasktracker.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}

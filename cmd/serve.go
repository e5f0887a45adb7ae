package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/attendance"
	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/facematch"
	"github.com/facegate/facegate/internal/store"
	"github.com/facegate/facegate/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance web server",
	Long: `Start the Facegate web server.
The server issues presigned upload URLs for camera captures, matches the
uploaded face against the enrolled collection, and records attendance with
a per-day limit. Published analytics summaries are served read-only.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = mustGetString(cmd, "host")
	}

	ctx := context.Background()
	awsCfg, err := store.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}

	objects := store.NewObjectStore(awsCfg, cfg.Storage.Bucket, cfg.AWS.Endpoint)
	records := store.NewRecordStore(awsCfg, cfg.Records.Table, cfg.AWS.Endpoint)
	matcher := facematch.NewClient(awsCfg, cfg.Face.CollectionID, cfg.Face.MatchThreshold)

	marker := attendance.NewService(objects, matcher, records, cfg.Attendance.DailyLimit)

	var analytics *store.ObjectStore
	if cfg.Storage.AnalyticsBucket != "" {
		analytics = store.NewObjectStore(awsCfg, cfg.Storage.AnalyticsBucket, cfg.AWS.Endpoint)
	} else {
		analytics = objects
	}

	server := web.NewServer(cfg, web.Deps{
		Presigner: objects,
		Marker:    marker,
		Analytics: analytics,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Facegate on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

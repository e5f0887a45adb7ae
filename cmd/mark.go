package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/client"
)

var markCmd = &cobra.Command{
	Use:   "mark <image-path>",
	Short: "Mark attendance with a capture file",
	Long: `Run the full attendance flow against a running server: request a
presigned upload URL, upload the capture, and ask the server to match the
face and record attendance.

The bearer token is read from the FACEGATE_TOKEN environment variable or
the --token flag.

Example:
  facegate mark --server http://localhost:8080 capture.png`,
	Args: cobra.ExactArgs(1),
	RunE: runMark,
}

func init() {
	rootCmd.AddCommand(markCmd)

	markCmd.Flags().String("server", "http://localhost:8080", "Base URL of the attendance server")
	markCmd.Flags().String("token", "", "Bearer token (defaults to FACEGATE_TOKEN)")
}

func runMark(cmd *cobra.Command, args []string) error {
	path := args[0]

	token := mustGetString(cmd, "token")
	if token == "" {
		token = os.Getenv("FACEGATE_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no token provided, set FACEGATE_TOKEN or use --token")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading capture %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// The server validates the token itself; the expiry here only gates the
	// local pre-flight check.
	api := client.NewAPI(mustGetString(cmd, "server"),
		client.StaticToken(token, time.Now().Add(time.Hour)))

	ctx := context.Background()
	ticket, err := api.IssueUploadURL(ctx, filepath.Base(path), contentType)
	if err != nil {
		return fmt.Errorf("requesting upload URL: %w", err)
	}
	if err := api.UploadObject(ctx, ticket.UploadURL, contentType, data); err != nil {
		return fmt.Errorf("uploading capture: %w", err)
	}

	resp, err := api.MarkAttendance(ctx, ticket.Key)
	if err != nil {
		return fmt.Errorf("marking attendance: %w", err)
	}

	switch client.Classify(resp) {
	case client.OutcomeRecorded:
		fmt.Printf("Recorded: %s at %s %s\n", resp.EmployeeID, resp.Date, resp.Time)
	case client.OutcomeNoMatch:
		fmt.Println("No matching face found")
	case client.OutcomeLimitExceeded:
		fmt.Printf("Rejected: %s\n", resp.Message)
	default:
		fmt.Printf("Server response: %s\n", resp.Message)
	}
	return nil
}

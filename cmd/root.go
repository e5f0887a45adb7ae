package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facegate",
	Short: "Face-recognition attendance tracking",
	Long: `Facegate records workplace attendance from camera captures.
Employees upload a photo through a presigned URL, the service matches the
face against an enrolled collection, and a duplicate-aware record is written
per calendar day. Aggregated daily and weekly analytics are published as
static JSON.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

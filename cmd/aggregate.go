package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/analytics"
	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/store"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Recompute and publish attendance analytics",
	Long: `Scan all attendance records and publish daily and weekly per-employee
counts as static JSON objects in the analytics bucket. The job is idempotent:
rerunning it over the same records produces the same output, so it is safe
to schedule on a timer.`,
	RunE: runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().Bool("dry-run", false, "Compute counts without publishing")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.ValidateAnalytics(); err != nil {
		return err
	}
	dryRun := mustGetBool(cmd, "dry-run")

	ctx := context.Background()
	awsCfg, err := store.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}

	records := store.NewRecordStore(awsCfg, cfg.Records.Table, cfg.AWS.Endpoint)

	var daily, weekly analytics.Counts
	if dryRun {
		all, err := records.ScanAll(ctx)
		if err != nil {
			return fmt.Errorf("scanning records: %w", err)
		}
		daily, weekly = analytics.Aggregate(all, time.Now())
		fmt.Println("Dry run, nothing published")
	} else {
		objects := store.NewObjectStore(awsCfg, cfg.Storage.AnalyticsBucket, cfg.AWS.Endpoint)
		job := analytics.NewJob(records, objects)
		daily, weekly, err = job.Run(ctx)
		if err != nil {
			return fmt.Errorf("running aggregation: %w", err)
		}
		fmt.Printf("Published %s and %s to %s\n",
			analytics.DailyKey, analytics.WeeklyKey, cfg.Storage.AnalyticsBucket)
	}

	printCounts("Today", daily)
	printCounts("Last 7 days", weekly)
	return nil
}

func printCounts(label string, counts analytics.Counts) {
	fmt.Printf("%s: %d employees\n", label, len(counts))

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Printf("  %s: %d\n", id, counts[id])
	}
}

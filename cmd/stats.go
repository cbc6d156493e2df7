package cmd

import (
	"context"
	"fmt"

	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/scoring"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scoring statistics",
	Run: func(_ *cobra.Command, _ []string) {
		runStats()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats() {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store := openJobStore(config, logger)
	defer store.Close()

	stats, err := scoring.NewLifecycle(store, logger).Stats(context.Background())
	if err != nil {
		logger.Fatal("collecting statistics", zap.Error(err))
	}

	printStats(stats)
}

func printStats(stats *scoring.Stats) {
	fmt.Println("Scoring statistics")
	fmt.Printf("  Total jobs:    %d\n", stats.Counts.Total)
	fmt.Printf("  Scored jobs:   %d\n", stats.Counts.Scored)
	fmt.Printf("  Unscored jobs: %d\n", stats.Counts.Unscored)

	if stats.Counts.Scored == 0 {
		return
	}

	fmt.Println("\nScore distribution:")
	printDistribution(stats.Distribution, stats.Counts.Scored)

	fmt.Println("\nBy band:")
	for _, band := range []jobs.Band{jobs.BandGood, jobs.BandAverage, jobs.BandPoor} {
		fmt.Printf("  %-5s %d\n", band, stats.Bands[band])
	}
}

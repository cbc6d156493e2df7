package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loadCmd = &cobra.Command{
	Use:   "load <csv-file>",
	Short: "Load scraped job postings from a CSV file into the job database",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runLoad(args[0])
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(path string) {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store := openJobStore(config, logger)
	defer store.Close()

	report, err := store.ImportCSV(context.Background(), path)
	if err != nil {
		logger.Fatal("importing jobs", zap.String("path", path), zap.Error(err))
	}

	fmt.Printf("Loaded %s: %d rows read, %d inserted, %d skipped\n",
		path, report.Read, report.Inserted, report.Skipped)
}

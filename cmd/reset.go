package cmd

import (
	"context"
	"fmt"

	"github.com/spigell/job-scorer/internal/scoring"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear AI scores and reasoning, optionally for a score range only",
	Run: func(cmd *cobra.Command, _ []string) {
		runReset(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Int("min-score", -1, "clear only scores >= this value (0-10)")
	resetCmd.Flags().Int("max-score", -1, "clear only scores <= this value (0-10)")
	resetCmd.Flags().Bool("force", false, "skip the confirmation prompt")
}

func runReset(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	min := scoreBound(cmd, "min-score")
	max := scoreBound(cmd, "max-score")

	store := openJobStore(config, logger)
	defer store.Close()

	lifecycle := scoring.NewLifecycle(store, logger)

	force, _ := cmd.Flags().GetBool("force")
	if !force && !confirm(resetLabel(min, max)) {
		logger.Info("exiting", zap.String("reason", "reset cancelled"))
		return
	}

	report, err := lifecycle.Reset(ctx, min, max)
	if err != nil {
		logger.Fatal("resetting scores", zap.Error(err))
	}

	fmt.Printf("Reset %d job scores. Scored jobs: %d -> %d\n",
		report.Cleared, report.ScoredBefore, report.ScoredAfter)
}

// scoreBound translates the flag's -1 sentinel into an absent bound.
func scoreBound(cmd *cobra.Command, name string) *int {
	value, _ := cmd.Flags().GetInt(name)
	if value < 0 {
		return nil
	}
	return &value
}

func resetLabel(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("Reset scores in range [%d, %d]?", *min, *max)
	case min != nil:
		return fmt.Sprintf("Reset scores >= %d?", *min)
	case max != nil:
		return fmt.Sprintf("Reset scores <= %d?", *max)
	default:
		return "Reset ALL scores?"
	}
}

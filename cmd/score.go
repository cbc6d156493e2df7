package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/job-scorer/internal/ai"
	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/scoring"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:       "score {new|all|ids}",
	Short:     "Score jobs against your profile with the AI matcher",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"new", "all", "ids"},
	Run: func(cmd *cobra.Command, args []string) {
		runScore(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Int("limit", 0, "maximum number of jobs to process")
	scoreCmd.Flags().String("job-ids", "", "comma-separated job ids (for the 'ids' action)")
}

func runScore(cmd *cobra.Command, action string) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	sel, err := buildSelection(cmd, action)
	if err != nil {
		logger.Fatal("invalid arguments", zap.Error(err))
	}

	userProfile := loadProfile(config, logger)

	logger.Info("starting the job scorer",
		zap.String("version", version),
		zap.String("mode", string(sel.Mode)),
		zap.String("profile_title", userProfile.CurrentTitle),
	)

	matcher, err := newMatcher(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai matcher", zap.Error(err))
	}

	store := openJobStore(config, logger)
	defer store.Close()

	report, err := scoring.NewRunner(store, matcher, logger).Run(ctx, userProfile, sel)
	if err != nil {
		logger.Fatal("batch run failed", zap.Error(err))
	}

	printRunReport(report)

	if serviceUnreachable(report) {
		logger.Fatal("scoring service could not be reached for any job",
			zap.Int("attempted", report.Attempted),
			zap.String("hint", "check network access and provider credentials"),
		)
	}
}

func buildSelection(cmd *cobra.Command, action string) (jobs.Selection, error) {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return jobs.Selection{}, err
	}
	if limit < 0 {
		return jobs.Selection{}, fmt.Errorf("limit must not be negative")
	}

	sel := jobs.Selection{Mode: jobs.Mode(action), Limit: limit}

	if sel.Mode != jobs.ModeIDs {
		return sel, nil
	}

	raw, err := cmd.Flags().GetString("job-ids")
	if err != nil {
		return jobs.Selection{}, err
	}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			sel.IDs = append(sel.IDs, id)
		}
	}
	if len(sel.IDs) == 0 {
		return jobs.Selection{}, fmt.Errorf("the 'ids' action requires --job-ids")
	}

	return sel, nil
}

func printRunReport(report *scoring.Report) {
	fmt.Printf("\nScoring completed. Attempted: %d, Scored: %d, Failed: %d, Skipped: %d\n",
		report.Attempted, report.Scored, report.Failed, report.Skipped)

	for _, failure := range report.Failures {
		fmt.Printf("  failed job %s (%s): %s\n", failure.JobID, failure.Kind, failure.Err)
	}

	if report.Scored > 0 {
		fmt.Println("\nScore distribution for this run:")
		printDistribution(report.Distribution, report.Scored)
	}
}

func printDistribution(dist map[int]int, total int) {
	for score := 10; score >= 0; score-- {
		count := dist[score]
		if count == 0 {
			continue
		}
		percentage := float64(count) / float64(total) * 100
		fmt.Printf("  %2d: %4d (%.1f%%)\n", score, count, percentage)
	}
}

// serviceUnreachable reports whether every attempted job failed without the
// scoring service producing a single reply worth keeping or rejecting.
func serviceUnreachable(report *scoring.Report) bool {
	if report.Attempted == 0 || report.Failed != report.Attempted {
		return false
	}
	for _, failure := range report.Failures {
		if failure.Kind == ai.KindMalformed {
			return false
		}
	}
	return true
}

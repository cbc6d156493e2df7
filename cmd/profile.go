package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/job-scorer/internal/profile"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var profileCmd = &cobra.Command{
	Use:       "profile {create|view|delete}",
	Short:     "Manage the candidate profile used for scoring",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"create", "view", "delete"},
	Run: func(cmd *cobra.Command, args []string) {
		runProfile(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().Bool("sample", false, "create the built-in sample profile (for the 'create' action)")
	profileCmd.Flags().String("from-json", "", "create the profile from a JSON file (for the 'create' action)")
}

func runProfile(cmd *cobra.Command, action string) {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store := profileStore(config)

	switch action {
	case "create":
		createProfile(cmd, store, logger)
	case "view":
		viewProfile(store, logger)
	case "delete":
		deleteProfile(store, logger)
	}
}

func createProfile(cmd *cobra.Command, store *profile.Store, logger *zap.Logger) {
	if store.Exists() && !confirm("Profile already exists. Overwrite?") {
		logger.Info("exiting", zap.String("reason", "profile creation cancelled"))
		return
	}

	var (
		p   *profile.Profile
		err error
	)

	fromJSON, _ := cmd.Flags().GetString("from-json")
	sample, _ := cmd.Flags().GetBool("sample")

	switch {
	case sample:
		p = profile.Sample()
	case fromJSON != "":
		p, err = profile.Import(fromJSON)
		if err != nil {
			logger.Fatal("importing profile", zap.Error(err))
		}
	default:
		p, err = promptProfile()
		if err != nil {
			logger.Fatal("collecting profile input", zap.Error(err))
		}
	}

	if err := store.Save(p); err != nil {
		logger.Fatal("saving profile", zap.Error(err))
	}

	logger.Info("profile saved", zap.String("path", store.Path()))
}

func viewProfile(store *profile.Store, logger *zap.Logger) {
	p, err := store.Load()
	if err != nil {
		logger.Fatal("no profile found",
			zap.String("path", store.Path()),
			zap.String("hint", "create one with: job-scorer profile create"),
		)
	}

	fmt.Println(p.Summary())
}

func deleteProfile(store *profile.Store, logger *zap.Logger) {
	if !store.Exists() {
		logger.Fatal("no profile found", zap.String("path", store.Path()))
	}

	if !confirm("Are you sure you want to delete your profile?") {
		logger.Info("exiting", zap.String("reason", "profile deletion cancelled"))
		return
	}

	if err := store.Delete(); err != nil {
		logger.Fatal("deleting profile", zap.Error(err))
	}

	logger.Info("profile deleted", zap.String("path", store.Path()))
}

func promptProfile() (*profile.Profile, error) {
	title, err := promptString("Current job title", "")
	if err != nil {
		return nil, err
	}

	yearsRaw, err := promptString("Years of experience", "3")
	if err != nil {
		return nil, err
	}
	years, err := strconv.Atoi(strings.TrimSpace(yearsRaw))
	if err != nil {
		return nil, fmt.Errorf("years of experience must be a number: %w", err)
	}

	background, err := promptString("Professional experience summary", "")
	if err != nil {
		return nil, err
	}

	languages, err := promptList("Programming languages (comma-separated)")
	if err != nil {
		return nil, err
	}

	technologies, err := promptList("Technologies/frameworks (comma-separated)")
	if err != nil {
		return nil, err
	}

	infrastructure, err := promptList("Infrastructure/tools (comma-separated)")
	if err != nil {
		return nil, err
	}

	education, err := promptString("Education background", "")
	if err != nil {
		return nil, err
	}

	targetRoles, err := promptList("Target roles (comma-separated)")
	if err != nil {
		return nil, err
	}

	matchGoal, err := promptString("Job matching goal", "")
	if err != nil {
		return nil, err
	}

	locationsRaw, err := promptString("Location preferences (comma-separated)", "Remote")
	if err != nil {
		return nil, err
	}

	salary, err := promptString("Salary range (optional)", "")
	if err != nil {
		return nil, err
	}

	workPrefsRaw, err := promptString("Work preferences (comma-separated)", "Remote,Hybrid")
	if err != nil {
		return nil, err
	}

	return &profile.Profile{
		CurrentTitle:        title,
		YearsExperience:     years,
		Background:          background,
		Languages:           languages,
		Technologies:        technologies,
		Infrastructure:      infrastructure,
		Education:           education,
		TargetRoles:         targetRoles,
		MatchGoal:           matchGoal,
		LocationPreferences: splitList(locationsRaw),
		SalaryRange:         strings.TrimSpace(salary),
		WorkPreferences:     splitList(workPrefsRaw),
	}, nil
}

func promptString(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
	return prompt.Run()
}

func promptList(label string) ([]string, error) {
	raw, err := promptString(label, "")
	if err != nil {
		return nil, err
	}
	return splitList(raw), nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func confirm(label string) bool {
	prompt := promptui.Select{
		Label: label,
		Items: []string{"Yes", "No"},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false
	}

	return answer == "Yes"
}

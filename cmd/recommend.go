package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/query"
	"github.com/spigell/assessment-recommender/internal/recommend"
)

const (
	PromptDetails = "Show assessment details"
	PromptToFile  = "Dump recommendations to file"
	PromptExit    = "Exit"
	PromptBack    = "back"

	outputText = "text"
	outputJSON = "json"
)

var errExit = errors.New("exit requested")

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Recommend assessments for a natural-language query or explicit filters",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRecommend(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringSlice("skills", nil, "skills to match, skips the language model")
	recommendCmd.Flags().String("job-level", "", "job level to match, skips the language model")
	recommendCmd.Flags().String("duration", "", "duration limit in minutes, skips the language model")
	recommendCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	recommendCmd.Flags().BoolP("interactive", "i", false, "browse recommendations interactively")
}

func runRecommend(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, config := setup()

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}

	engine, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("preparing the recommender", zap.Error(err))
	}

	filters, issues, err := resolveFilters(ctx, cmd, args, config, logger)
	if err != nil {
		logger.Fatal("resolving filters", zap.Error(err))
	}

	result, err := engine.Run(ctx, filters, issues)
	if err != nil {
		logger.Fatal("recommending", zap.Error(err))
	}

	if len(result.Recommendations) == 0 {
		logger.Info("exiting", zap.String("reason", "no assessments left after filters"))
		return
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := browse(result.Recommendations, logger); err != nil && !errors.Is(err, errExit) {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	if err := printResult(os.Stdout, result, output); err != nil {
		logger.Fatal("printing recommendations", zap.Error(err))
	}
}

// resolveFilters prefers explicit filter flags and falls back to the
// language model when a query argument is given.
func resolveFilters(ctx context.Context, cmd *cobra.Command, args []string, config *Config, logger *zap.Logger) (query.Filters, []query.Issue, error) {
	flags := cmd.Flags()
	if flags.Changed("skills") || flags.Changed("job-level") || flags.Changed("duration") {
		skills, _ := flags.GetStringSlice("skills")
		jobLevel, _ := flags.GetString("job-level")
		duration, _ := flags.GetString("duration")

		filters, issues := query.FromValues(skills, jobLevel, duration)
		return filters, issues, nil
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return query.Filters{}, nil, errors.New("either a query argument or one of --skills, --job-level, --duration is required")
	}

	extractor, err := newExtractor(ctx, config, logger)
	if err != nil {
		return query.Filters{}, nil, err
	}

	extraction, err := extractor.Extract(ctx, args[0])
	if err != nil {
		return query.Filters{}, nil, err
	}

	return extraction.Filters, extraction.Issues, nil
}

func printResult(w io.Writer, result *recommend.Result, output string) error {
	if output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for i, r := range result.Recommendations {
		if _, err := fmt.Fprintf(w, "%2d. %s (score %.0f, %.0f min, %s)\n",
			i+1, r.Title, r.Score, r.AssessmentLength, r.TestType,
		); err != nil {
			return err
		}
	}
	return nil
}

func browse(recs []recommend.Recommendation, logger *zap.Logger) error {
	prompt := promptui.Select{
		Label: "Proceed?",
		Items: []string{PromptDetails, PromptToFile, PromptExit},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptDetails:
			if err := showDetails(recs, logger); err != nil {
				return err
			}
		case PromptToFile:
			filename, err := dumpToTmpFile(recs)
			if err != nil {
				return fmt.Errorf("dump recommendations to file: %w", err)
			}
			logger.Info("dumping recommendations to file", zap.String("filename", filename))
		case PromptExit:
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func showDetails(recs []recommend.Recommendation, logger *zap.Logger) error {
	items := make([]string, 0, len(recs)+1)
	for i, r := range recs {
		items = append(items, fmt.Sprintf("%d %s", i+1, r.Title))
	}

	selectPrompt := promptui.Select{
		Label: "Choose an assessment and press ENTER",
		Items: append(items, PromptBack),
		Size:  len(items) + 1,
	}

	idx, selected, err := selectPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	pretty, _ := json.MarshalIndent(recs[idx], "", "  ")
	logger.Info(string(pretty))
	return nil
}

func dumpToTmpFile(recs []recommend.Recommendation) (string, error) {
	f, err := os.CreateTemp("", "recommendations-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return "", err
	}

	return f.Name(), nil
}

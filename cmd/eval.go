package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/evaluation"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate filter extraction against the built-in test queries",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		logger, config := setup()

		engine, err := newEngine(config, logger)
		if err != nil {
			logger.Fatal("preparing the recommender", zap.Error(err))
		}

		extractor, err := newExtractor(ctx, config, logger)
		if err != nil {
			logger.Fatal("preparing the extractor", zap.Error(err))
		}

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		output, _ := cmd.Flags().GetString("output")

		report, err := evaluation.NewRunner(extractor, engine, concurrency, logger).Run(ctx, evaluation.DefaultCases())
		if err != nil {
			logger.Fatal("evaluating", zap.Error(err))
		}

		if err := report.WriteFile(output); err != nil {
			logger.Fatal("writing the report", zap.Error(err))
		}

		logger.Info("evaluation report written",
			zap.String("filename", output),
			zap.Int("passed", report.Passed),
			zap.Int("total", report.Total),
		)
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringP("output", "o", "eval_results.json", "file to write the report to")
	evalCmd.Flags().Int("concurrency", 2, "number of queries evaluated concurrently")
}

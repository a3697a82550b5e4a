package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <query>",
	Short: "Print the filters the language model extracts from a query",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		logger, config := setup()

		extractor, err := newExtractor(ctx, config, logger)
		if err != nil {
			logger.Fatal("preparing the extractor", zap.Error(err))
		}

		extraction, err := extractor.Extract(ctx, args[0])
		if err != nil {
			logger.Fatal("extracting filters", zap.Error(err))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(extraction); err != nil {
			logger.Fatal("printing filters", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

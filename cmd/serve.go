package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/ai"
	"github.com/spigell/assessment-recommender/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, config := setup()

		engine, err := newEngine(config, logger)
		if err != nil {
			logger.Fatal("preparing the recommender", zap.Error(err))
		}

		// Without a key the server still answers /recommend/filters.
		var extractor ai.Extractor
		if e, err := newExtractor(ctx, config, logger); err != nil {
			logger.Warn("language model is unavailable; only explicit filters are served", zap.Error(err))
		} else {
			extractor = e
		}

		srv := server.New(engine, extractor, config.Server, logger)
		if err := srv.Run(ctx); err != nil {
			logger.Fatal("serving", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "address to listen on (default :8000)")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

package cmd

import (
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/joho/godotenv/autoload" // .env has to be loaded before cfg
	"github.com/spf13/cobra"
	"github.com/xyfu66/score-following-app/config"
	"github.com/xyfu66/score-following-app/logger"
)

const sentryFlushTimeout = 2 * time.Second

var cfg = config.Load()

var rootCmd = &cobra.Command{
	Use:   "scorefollow",
	Short: "Score following",
	Long:  `Keeps a score cursor in step with a live beat position from the tracker.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setup(cfg)
	},
	SilenceUsage: true,
}

func Execute() {
	defer sentry.Flush(sentryFlushTimeout)
	cobra.CheckErr(rootCmd.Execute())
}

func setup(c *config.Config) {
	logger.SetLevel(c.LogLevel)
	log := logger.GetProjectLogger()

	if c.SentryDSN == "" {
		log.Debug("sentry not configured")
		return
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.SentryDSN,
		Environment: c.Environment,
		Debug:       c.Environment == "development",
	}); err != nil {
		log.WithError(err).Warn("failed to initialize sentry")
		return
	}
	log.WithField("environment", c.Environment).Info("sentry initialized")
}

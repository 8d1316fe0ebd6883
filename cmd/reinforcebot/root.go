package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"reinforcebot/config"
	"reinforcebot/logging"
	"reinforcebot/version"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "reinforcebot",
	Short: "Chat bot that reads reinforcement cards and decides to reinforce, sell or stop",
	Long: `reinforcebot watches the chat window of the reinforcement game, reads each
result card with Tesseract and types the next command.

  farm       sell once the item reaches targets.farm
  challenge  never sell, stop once the item reaches targets.challenge

Capture regions are measured with "reinforcebot calibrate" (or interactively
when a run starts without any), and everything else lives in config.yaml.`,
	Version:       version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.reinforcebot/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides log.level)",
	)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(ocrCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and builds the logger.
func setup() (*config.Manager, zerolog.Logger, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg := mgr.Get()
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logging.Setup(level, cfg.Log.Pretty)
	if f := mgr.FileUsed(); f != "" {
		log.Debug().Str("file", f).Msg("config loaded")
	}
	return mgr, log, nil
}

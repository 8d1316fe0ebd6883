package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"reinforcebot/config"
	"reinforcebot/models"
	"reinforcebot/pkg/ocr"
	"reinforcebot/pkg/reinforce"
	"reinforcebot/pkg/rotation"
	"reinforcebot/process/calibrate"
	"reinforcebot/process/capture"
	"reinforcebot/process/inject"
	"reinforcebot/process/loop"
)

var (
	runMode    string
	runTarget  int
	runRegions []string
	runNoWatch bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the reinforce loop",
	Long: `Start the observe-decide-act loop.

Each tick captures the active region, reads it (retrying once without the
settle delay when the reading is not trustworthy), decides and types the
matching chat command. Two abandoned ticks in a row move on to the next region.

Without configured regions the run starts with an interactive calibration.

Examples:
  reinforcebot run                           # mode and targets from config.yaml
  reinforcebot run --mode challenge --target 15
  reinforcebot run --region 40,620,520,140 --region 40,480,520,140`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, log, err := setup()
		if err != nil {
			return err
		}
		cfg := *mgr.Get()
		if err := applyRunFlags(cmd, &cfg); err != nil {
			return err
		}
		mode, err := cfg.RunMode()
		if err != nil {
			return err
		}

		// tessdata must be present before anything is captured
		if err := ocr.CheckTessdata(cfg.OCR.Tessdata, cfg.OCR.Languages); err != nil {
			return err
		}

		selector := calibrate.NewTerminal(os.Stdin, os.Stderr,
			calibrate.CommandCursor(cfg.Input.CursorCommand), rotation.MaxRegions, log)
		regions := cfg.Regions
		if len(regions) == 0 {
			log.Info().Msg("no capture regions configured, starting calibration")
			if regions, err = selector.Select(ctx); err != nil {
				return err
			}
		}
		rot, err := rotation.New(regions, cfg.Rotation.Threshold)
		if err != nil {
			return err
		}
		rot.SetRecalibrateAfter(cfg.Rotation.RecalibrateAfter)

		engine, err := ocr.NewTesseract(cfg.OCR.Tessdata, cfg.OCR.Languages)
		if err != nil {
			return err
		}
		defer engine.Close()

		updates := make(chan loop.Update, 1)
		if !runNoWatch {
			mgr.OnChange(func(next *config.Config) {
				c := *next
				if err := applyRunFlags(cmd, &c); err != nil {
					log.Warn().Err(err).Msg("reloaded config ignored")
					return
				}
				loop.Offer(updates, loop.Update{Targets: c.Targets, Items: c.Items})
			})
			mgr.WatchConfig(log)
		}

		l, err := loop.New(loop.Options{
			Capture: capture.NewCommand(cfg.Capture.Command, cfg.Timing.Settle, log),
			Reader:  ocr.NewReader(engine, cfg.OCR.BinarizeBelow, uint8(cfg.OCR.BinarizeThreshold), log),
			Chat: inject.NewChat(
				inject.NewCommand(cfg.Input.TypeCommand, cfg.Input.EnterCommand),
				cfg.Timing.PreType, cfg.Timing.TypePause, log,
			),
			Policy:   reinforce.NewPolicy(mode, cfg.Targets, cfg.Items),
			Gate:     reinforce.NewTrustGate(cfg.OCR.MinConfidence),
			Rotator:  rot,
			Selector: selector,
			Commands: loop.Commands{Reinforce: cfg.Commands.Reinforce, Sell: cfg.Commands.Sell},
			Tick:     cfg.Timing.Tick,
			Updates:  updates,
			Log:      log,
		})
		if err != nil {
			return err
		}
		logRun(log, mode, cfg, rot)
		return l.Run(ctx)
	},
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", "", "run mode: farm (1) or challenge (2)")
	runCmd.Flags().IntVar(&runTarget, "target", 0, "target level for the selected mode")
	runCmd.Flags().StringArrayVar(&runRegions, "region", nil, "capture region x,y,width,height (repeatable, up to 3)")
	runCmd.Flags().BoolVar(&runNoWatch, "no-watch", false, "do not reload config.yaml while running")
}

// applyRunFlags lets command-line flags override cfg.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("mode") {
		cfg.Mode = runMode
	}
	mode, err := cfg.RunMode()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("target") {
		if runTarget < 0 {
			return fmt.Errorf("--target %d: must not be negative", runTarget)
		}
		if mode == models.ModeChallenge {
			cfg.Targets.Challenge = runTarget
		} else {
			cfg.Targets.Farm = runTarget
		}
	}
	if len(runRegions) > 0 {
		cfg.Regions = cfg.Regions[:0:0]
		for _, s := range runRegions {
			r, err := models.ParseRegion(s)
			if err != nil {
				return err
			}
			cfg.Regions = append(cfg.Regions, r)
		}
	}
	return cfg.Validate()
}

func logRun(log zerolog.Logger, mode models.RunMode, cfg config.Config, rot *rotation.Rotator) {
	target := cfg.Targets.Farm
	if mode == models.ModeChallenge {
		target = cfg.Targets.Challenge
	}
	for i, r := range rot.Regions() {
		log.Info().Int("index", i).Str("region", r.String()).Msg("capture region")
	}
	log.Info().
		Str("mode", mode.String()).
		Int("target", target).
		Float64("min_conf", cfg.OCR.MinConfidence).
		Msg("starting, press Ctrl+C to stop")
}

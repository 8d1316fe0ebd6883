package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"reinforcebot/pkg/rotation"
	"reinforcebot/process/calibrate"
)

var calibrateMax int

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Measure capture regions with the mouse",
	Long: `Measure up to three capture regions by pointing at the top-left and the
bottom-right corner of the result card and pressing Enter each time. Answer q
to finish early. The regions are printed as YAML ready to paste into config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, log, err := setup()
		if err != nil {
			return err
		}
		if calibrateMax <= 0 || calibrateMax > rotation.MaxRegions {
			return fmt.Errorf("--max %d: must be between 1 and %d", calibrateMax, rotation.MaxRegions)
		}
		sel := calibrate.NewTerminal(os.Stdin, os.Stderr,
			calibrate.CommandCursor(mgr.Get().Input.CursorCommand), calibrateMax, log)
		regions, err := sel.Select(cmd.Context())
		if err != nil {
			return err
		}
		if len(regions) == 0 {
			return rotation.ErrNoRegions
		}
		out, err := yaml.Marshal(map[string]any{"regions": regions})
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	calibrateCmd.Flags().IntVar(&calibrateMax, "max", rotation.MaxRegions, "number of regions to measure")
}

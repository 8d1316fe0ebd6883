package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reinforcebot/config"
	"reinforcebot/models"
	"reinforcebot/pkg/ocr"
	"reinforcebot/pkg/reinforce"
)

var (
	classifyFile string
	classifyConf float64
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify OCR text from stdin or a file",
	Long: `Feed already recognized text through normalization, classification, field
extraction, the trust gate and the decision policy, without Tesseract.

Examples:
  echo "획득 검: [+7] 전설의 검" | reinforcebot classify
  reinforcebot classify --file dump.txt --conf 62`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := setup()
		if err != nil {
			return err
		}
		var r io.Reader = cmd.InOrStdin()
		if classifyFile != "" && classifyFile != "-" {
			f, err := os.Open(classifyFile)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		obs := models.Observation{Text: string(data), Confidence: classifyConf}
		return report(cmd.OutOrStdout(), mgr.Get(), obs)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyFile, "file", "", "text file to classify (default stdin)")
	classifyCmd.Flags().Float64Var(&classifyConf, "conf", 100, "confidence to assume for the text")
}

// report prints what one tick would conclude from obs.
func report(w io.Writer, cfg *config.Config, obs models.Observation) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	a := reinforce.NewTrustGate(cfg.OCR.MinConfidence).Assess(obs)

	fmt.Fprintln(w, "text:")
	for _, line := range strings.Split(strings.TrimRight(obs.Text, "\n"), "\n") {
		fmt.Fprintf(w, "  | %s\n", line)
	}
	fmt.Fprintf(w, "normalized: %s\n", strings.ReplaceAll(ocr.Normalize(obs.Text), "\n", " / "))
	fmt.Fprintf(w, "confidence: %.1f\n", obs.Confidence)
	fmt.Fprintf(w, "result:     %s\n", reinforce.Classify(obs.Text))
	if info, err := reinforce.ExtractSuccessInfo(obs.Text); err == nil {
		fmt.Fprintf(w, "level:      %d\n", info.Level)
		fmt.Fprintf(w, "item:       %s\n", info.ItemName)
	}
	if reinforce.IsGoldShortage(obs.Text) {
		fmt.Fprintln(w, "banner:     gold shortage")
	}
	fmt.Fprintf(w, "verdict:    %s\n", a.Verdict)
	if !a.Trusted() {
		fmt.Fprintln(w, "action:     none (tick abandoned)")
		return nil
	}
	d := policy.Decide(obs)
	fmt.Fprintf(w, "action:     %s (%s, %s mode)\n", d.Action, d.Reason, policy.Mode)
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"reinforcebot/models"
	"reinforcebot/pkg/ocr"
	"reinforcebot/process/capture"
)

var (
	ocrFile   string
	ocrRegion string
)

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Read a saved screenshot and show what the bot would do",
	Long: `Run the capture-free half of a tick on a saved screenshot: both OCR passes,
classification, field extraction, trust verdict and the decision for the
configured mode. With --region the image is cropped first.

Examples:
  reinforcebot ocr --file card.png
  reinforcebot ocr --file desktop.png --region 40,620,520,140`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, log, err := setup()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		var region models.Region
		if ocrRegion != "" {
			if region, err = models.ParseRegion(ocrRegion); err != nil {
				return err
			}
		}
		img, err := (&capture.File{Path: ocrFile}).Capture(cmd.Context(), region, false)
		if err != nil {
			return err
		}

		engine, err := ocr.NewTesseract(cfg.OCR.Tessdata, cfg.OCR.Languages)
		if err != nil {
			return err
		}
		defer engine.Close()

		reader := ocr.NewReader(engine, cfg.OCR.BinarizeBelow, uint8(cfg.OCR.BinarizeThreshold), log)
		obs, err := reader.Read(img)
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), cfg, obs)
	},
}

func init() {
	ocrCmd.Flags().StringVar(&ocrFile, "file", "", "screenshot to read (png, jpg, bmp)")
	ocrCmd.Flags().StringVar(&ocrRegion, "region", "", "crop x,y,width,height before reading")
	_ = ocrCmd.MarkFlagRequired("file")
}

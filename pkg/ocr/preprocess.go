package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultBinarizeThreshold is the luminance below which a pixel becomes black.
const DefaultBinarizeThreshold = 160

// Binarize performs a global threshold on the ITU-R 601 luminance of img.
// Pixels darker than threshold become black, all others white.
func Binarize(img image.Image, threshold uint8) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		r, g, b := int(out.Pix[i]), int(out.Pix[i+1]), int(out.Pix[i+2])
		lum := (299*r + 587*g + 114*b) / 1000
		var v uint8 = 255
		if lum < int(threshold) {
			v = 0
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = v, v, v, 255
	}
	return out
}

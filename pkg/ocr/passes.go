package ocr

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"reinforcebot/models"
)

// DefaultBinarizeBelow is the confidence under which a binarized second pass is tried.
const DefaultBinarizeBelow = 80.0

// Reader turns a captured frame into an Observation. The frame is recognized as
// captured; when confidence is below BinarizeBelow it is recognized again after
// binarization and the more confident of the two readings wins.
type Reader struct {
	engine        Engine
	binarizeBelow float64
	threshold     uint8
	log           zerolog.Logger
}

// NewReader wraps engine with the two-pass strategy. Zero values select the defaults.
func NewReader(engine Engine, binarizeBelow float64, threshold uint8, log zerolog.Logger) *Reader {
	if binarizeBelow <= 0 {
		binarizeBelow = DefaultBinarizeBelow
	}
	if threshold == 0 {
		threshold = DefaultBinarizeThreshold
	}
	return &Reader{
		engine:        engine,
		binarizeBelow: binarizeBelow,
		threshold:     threshold,
		log:           log,
	}
}

// Read recognizes img, retrying once on a binarized copy if the first pass is weak.
func (r *Reader) Read(img image.Image) (models.Observation, error) {
	text, conf, err := r.engine.Recognize(img)
	if err != nil {
		return models.Observation{}, fmt.Errorf("ocr pass raw: %w", err)
	}
	obs := models.Observation{Text: text, Confidence: conf}
	if conf >= r.binarizeBelow {
		return obs, nil
	}

	binText, binConf, err := r.engine.Recognize(Binarize(img, r.threshold))
	if err != nil {
		r.log.Warn().Err(err).Msg("ocr pass binarized failed, keeping raw")
		return obs, nil
	}
	r.log.Debug().
		Float64("raw_conf", conf).
		Float64("bin_conf", binConf).
		Msg("ocr passes")
	if binConf > conf {
		return models.Observation{Text: binText, Confidence: binConf}, nil
	}
	return obs, nil
}

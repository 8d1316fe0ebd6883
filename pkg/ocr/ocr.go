package ocr

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages are the Tesseract models needed to read the chat cards.
var DefaultLanguages = []string{"kor", "eng"}

// Engine runs a single recognition pass over an image and reports the text and
// the mean word confidence in percent.
type Engine interface {
	Recognize(img image.Image) (string, float64, error)
}

// Tesseract is an Engine backed by a long-lived gosseract client.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// CheckTessdata verifies that dir holds a traineddata file for every language.
// An empty dir falls back to TESSDATA_PREFIX; if that is unset too the system
// default location is trusted and nothing is checked.
func CheckTessdata(dir string, langs []string) error {
	if dir == "" {
		dir = os.Getenv("TESSDATA_PREFIX")
	}
	if dir == "" {
		return nil
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrNoTessdata, dir)
	}
	for _, lang := range langs {
		p := filepath.Join(dir, lang+".traineddata")
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: %s", ErrNoTessdata, p)
		}
	}
	return nil
}

// NewTesseract checks the language data and prepares a client. Close must be
// called when the engine is no longer needed.
func NewTesseract(tessdata string, langs []string) (*Tesseract, error) {
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	if err := CheckTessdata(tessdata, langs); err != nil {
		return nil, err
	}
	client := gosseract.NewClient()
	if tessdata != "" {
		if err := client.SetTessdataPrefix(tessdata); err != nil {
			client.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("set language: %w", err)
	}
	return &Tesseract{client: client}, nil
}

// Recognize encodes img as PNG and runs Tesseract over it.
func (t *Tesseract) Recognize(img image.Image) (string, float64, error) {
	if img == nil || img.Bounds().Empty() {
		return "", 0, ErrEmptyImage
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", 0, fmt.Errorf("encode png: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("ocr error: %w", err)
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return text, 0, fmt.Errorf("ocr confidence: %w", err)
	}
	return text, meanConfidence(boxes), nil
}

// Close releases the underlying Tesseract handle.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}

func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	if len(boxes) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes))
}

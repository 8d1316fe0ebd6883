package ocr

import "errors"

// ErrNoTessdata is returned when the trained language data cannot be found.
var ErrNoTessdata = errors.New("tessdata not found")

// ErrEmptyImage is returned when an image with no pixels is submitted for recognition.
var ErrEmptyImage = errors.New("empty image")

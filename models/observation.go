package models

// Observation is one OCR reading of the active region.
type Observation struct {
	Text       string
	Confidence float64 // percent, 0-100
}

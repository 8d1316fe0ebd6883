package ocr

import (
	"regexp"
	"strings"
)

// digitRepair maps glyphs Tesseract confuses with digits. It must run before any
// digit matching.
var digitRepair = strings.NewReplacer(
	"l", "1",
	"I", "1",
	"O", "0",
)

var (
	disallowedRE = regexp.MustCompile(`[^가-힣0-9+\[\]:\s]`)
	spaceRunRE   = regexp.MustCompile(`\s+`)
)

// RepairDigits replaces digit look-alikes (l, I -> 1; O -> 0).
func RepairDigits(s string) string {
	return digitRepair.Replace(s)
}

// Normalize canonicalizes raw OCR output: digit look-alikes are repaired, each
// line keeps only Hangul syllables, digits, '+', '[', ']', ':' and spaces, runs
// of whitespace collapse to one space, and lines left empty are dropped.
func Normalize(text string) string {
	text = RepairDigits(text)
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = disallowedRE.ReplaceAllString(line, "")
		line = strings.TrimSpace(spaceRunRE.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Flatten normalizes text and removes all remaining whitespace, so phrase
// containment checks ignore spacing inserted by OCR.
func Flatten(text string) string {
	return strings.Join(strings.Fields(Normalize(text)), "")
}

// Lines returns the normalized, non-empty lines of text.
func Lines(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Split(n, "\n")
}

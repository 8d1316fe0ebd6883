package reinforce

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"reinforcebot/pkg/ocr"
)

// ErrNoSuccessInfo is returned when no acquisition line carries a level and item name.
var ErrNoSuccessInfo = errors.New("no success info")

// SuccessInfo is the level and item read from a success card.
type SuccessInfo struct {
	Level    int
	ItemName string
}

var (
	// "획득 검:" in front of the level
	acquirePrefixRE = regexp.MustCompile(`^.*[획회]\s*득\s*검\s*[:\s]*`)
	bracketLevelRE  = regexp.MustCompile(`\[\s*\+(\d+)\s*\]\s+(.+)`)
	bareLevelRE     = regexp.MustCompile(`\+(\d+)\s+(.+)`)
)

// ExtractSuccessInfo finds the acquisition line, scanning from the bottom of the
// card up, and reads "[+N] name" or "+N name" from it. Candidates that fail to
// parse are skipped in favor of the next line up.
func ExtractSuccessInfo(raw string) (SuccessInfo, error) {
	lines := ocr.Lines(raw)
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !acquired(squash(line)) {
			continue
		}
		rest := acquirePrefixRE.ReplaceAllString(line, "")
		if info, ok := parseLevelAndName(rest); ok {
			return info, nil
		}
	}
	return SuccessInfo{}, ErrNoSuccessInfo
}

func parseLevelAndName(s string) (SuccessInfo, bool) {
	for _, re := range []*regexp.Regexp{bracketLevelRE, bareLevelRE} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		level, err := strconv.Atoi(m[1])
		if err != nil {
			return SuccessInfo{}, false
		}
		name := strings.TrimSpace(m[2])
		if name == "" {
			return SuccessInfo{}, false
		}
		return SuccessInfo{Level: level, ItemName: name}, true
	}
	return SuccessInfo{}, false
}

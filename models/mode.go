package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned when a run mode name cannot be parsed.
var ErrInvalidMode = errors.New("invalid run mode")

// RunMode selects the sell/stop policy for a whole run.
type RunMode int

const (
	// ModeFarm sells items once they reach the farm target level.
	ModeFarm RunMode = iota
	// ModeChallenge never sells and stops at the challenge target level.
	ModeChallenge
)

func (m RunMode) String() string {
	switch m {
	case ModeFarm:
		return "farm"
	case ModeChallenge:
		return "challenge"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseRunMode accepts the mode name or its menu number ("1" farm, "2" challenge).
func ParseRunMode(s string) (RunMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "farm", "1":
		return ModeFarm, nil
	case "challenge", "2":
		return ModeChallenge, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Package rotation tracks which capture region is active and moves to the next
// one after repeated untrustworthy readings.
package rotation

import (
	"errors"
	"fmt"

	"reinforcebot/models"
)

// DefaultThreshold is the number of consecutive abandoned ticks that triggers a rotation.
const DefaultThreshold = 2

// MaxRegions is the largest number of regions a run may use.
const MaxRegions = 3

// ErrNoRegions is returned when a run would start without any capture region.
var ErrNoRegions = errors.New("no capture regions configured")

// State is the rotator's observable state.
type State struct {
	ActiveIndex int
	Failures    int // consecutive abandoned ticks on the active region
}

// Rotator owns the region list and the failure counter. It is not safe for
// concurrent use; the loop mutates it between ticks only.
type Rotator struct {
	regions   []models.Region
	state     State
	threshold int

	// recalibrateAfter full cycles without a trusted reading; 0 never asks
	recalibrateAfter int
	rotations        int
}

// New returns a rotator starting on the first region.
func New(regions []models.Region, threshold int) (*Rotator, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	r := &Rotator{threshold: threshold}
	if err := r.Recalibrate(regions); err != nil {
		return nil, err
	}
	return r, nil
}

// SetRecalibrateAfter sets how many full rotation cycles without a trusted
// reading make NeedsRecalibration report true. Zero disables it.
func (r *Rotator) SetRecalibrateAfter(cycles int) {
	if cycles < 0 {
		cycles = 0
	}
	r.recalibrateAfter = cycles
}

// Active returns the region to capture next.
func (r *Rotator) Active() models.Region {
	return r.regions[r.state.ActiveIndex]
}

// State returns a copy of the current state.
func (r *Rotator) State() State { return r.state }

// Len returns the number of configured regions.
func (r *Rotator) Len() int { return len(r.regions) }

// Regions returns a copy of the configured regions.
func (r *Rotator) Regions() []models.Region {
	return append([]models.Region(nil), r.regions...)
}

// OnTrustedReading resets the failure counter.
func (r *Rotator) OnTrustedReading() {
	r.state.Failures = 0
	r.rotations = 0
}

// OnAmbiguousFailure records an abandoned tick. When the counter reaches the
// threshold the next region becomes active (wrapping) and the counter resets;
// with one region only the reset happens. It reports whether the threshold was hit.
func (r *Rotator) OnAmbiguousFailure() bool {
	r.state.Failures++
	if r.state.Failures < r.threshold {
		return false
	}
	r.state.Failures = 0
	r.state.ActiveIndex = (r.state.ActiveIndex + 1) % len(r.regions)
	r.rotations++
	return true
}

// NeedsRecalibration reports whether every region has failed for the configured
// number of cycles since the last trusted reading.
func (r *Rotator) NeedsRecalibration() bool {
	return r.recalibrateAfter > 0 && r.rotations >= r.recalibrateAfter*len(r.regions)
}

// Recalibrate replaces the whole region set and resets the state.
func (r *Rotator) Recalibrate(regions []models.Region) error {
	if len(regions) == 0 {
		return ErrNoRegions
	}
	if len(regions) > MaxRegions {
		return fmt.Errorf("%d capture regions configured, at most %d allowed", len(regions), MaxRegions)
	}
	for i, reg := range regions {
		if !reg.Usable() {
			return fmt.Errorf("capture region %d (%s) is too small", i, reg)
		}
	}
	r.regions = append([]models.Region(nil), regions...)
	r.state = State{}
	r.rotations = 0
	return nil
}

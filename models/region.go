package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MinRegionSide is the smallest accepted width or height of a capture region in pixels.
const MinRegionSide = 5

// Region is a rectangular screen area that is captured and recognized every tick.
type Region struct {
	X      int `mapstructure:"x" yaml:"x"`
	Y      int `mapstructure:"y" yaml:"y"`
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// RegionFromCorners builds a region from two opposite corners given in any order.
func RegionFromCorners(x1, y1, x2, y2 int) Region {
	return Region{
		X:      min(x1, x2),
		Y:      min(y1, y2),
		Width:  abs(x2 - x1),
		Height: abs(y2 - y1),
	}
}

// Usable reports whether the region is large enough to hold a readable card.
func (r Region) Usable() bool {
	return r.Width >= MinRegionSide && r.Height >= MinRegionSide
}

func (r Region) String() string {
	return fmt.Sprintf("x=%d y=%d w=%d h=%d", r.X, r.Y, r.Width, r.Height)
}

// ParseRegion parses "x,y,width,height".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q: want x,y,width,height", s)
	}
	var vals [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		vals[i] = n
	}
	r := Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if !r.Usable() {
		return Region{}, fmt.Errorf("region %q: smaller than %dx%d", s, MinRegionSide, MinRegionSide)
	}
	return r, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

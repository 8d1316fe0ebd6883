// Package calibrate lets the user mark capture regions on screen.
package calibrate

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"reinforcebot/models"
)

// DefaultCursorCommand prints the pointer position as X=..\nY=.. lines.
var DefaultCursorCommand = []string{"xdotool", "getmouselocation", "--shell"}

// Selector returns the regions accepted by the user, in order. An empty result
// means the user cancelled before accepting any region.
type Selector interface {
	Select(ctx context.Context) ([]models.Region, error)
}

// Static always returns the same regions.
type Static []models.Region

// Select returns a copy of s.
func (s Static) Select(context.Context) ([]models.Region, error) {
	return append([]models.Region(nil), s...), nil
}

// CursorFunc reports the current pointer position.
type CursorFunc func(ctx context.Context) (image.Point, error)

// Terminal prompts on out, waits for Enter on in and samples the cursor at the
// top-left and bottom-right corner of each region. Answering "q" (or closing
// input) finishes calibration.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	cursor CursorFunc
	max    int
	log    zerolog.Logger
}

// NewTerminal returns a terminal selector accepting up to max regions.
func NewTerminal(in io.Reader, out io.Writer, cursor CursorFunc, max int, log zerolog.Logger) *Terminal {
	if max <= 0 {
		max = 1
	}
	return &Terminal{in: bufio.NewReader(in), out: out, cursor: cursor, max: max, log: log}
}

var errDone = errors.New("calibration finished")

// Select runs the interactive calibration.
func (t *Terminal) Select(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	for len(regions) < t.max {
		n := len(regions) + 1
		p1, err := t.point(ctx, fmt.Sprintf("[region %d] hover the TOP-LEFT corner of the card and press Enter (q to finish): ", n))
		if errors.Is(err, errDone) {
			break
		}
		if err != nil {
			return regions, err
		}
		p2, err := t.point(ctx, fmt.Sprintf("[region %d] hover the BOTTOM-RIGHT corner and press Enter (q to finish): ", n))
		if errors.Is(err, errDone) {
			break
		}
		if err != nil {
			return regions, err
		}

		r := models.RegionFromCorners(p1.X, p1.Y, p2.X, p2.Y)
		if !r.Usable() {
			fmt.Fprintf(t.out, "region too small (%s), try again\n", r)
			continue
		}
		fmt.Fprintf(t.out, "region %d: %s\n", n, r)
		t.log.Info().Int("index", n-1).Str("region", r.String()).Msg("region accepted")
		regions = append(regions, r)
	}
	return regions, nil
}

func (t *Terminal) point(ctx context.Context, prompt string) (image.Point, error) {
	if err := ctx.Err(); err != nil {
		return image.Point{}, err
	}
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
		if line == "" {
			return image.Point{}, errDone
		}
	case err != nil:
		return image.Point{}, err
	}
	if a := strings.ToLower(strings.TrimSpace(line)); a == "q" || a == "quit" {
		return image.Point{}, errDone
	}
	return t.cursor(ctx)
}

// CommandCursor samples the pointer by running args, which must print
// "X=<n>" and "Y=<n>" lines (xdotool getmouselocation --shell).
func CommandCursor(args []string) CursorFunc {
	if len(args) == 0 {
		args = DefaultCursorCommand
	}
	return func(ctx context.Context) (image.Point, error) {
		out, err := exec.CommandContext(ctx, args[0], args[1:]...).Output()
		if err != nil {
			return image.Point{}, fmt.Errorf("cursor position: %w", err)
		}
		return ParseCursor(out)
	}
}

// ParseCursor reads X= and Y= from shell-style key=value output.
func ParseCursor(out []byte) (image.Point, error) {
	var p image.Point
	var seenX, seenY bool
	for _, line := range bytes.Split(out, []byte("\n")) {
		k, v, ok := strings.Cut(strings.TrimSpace(string(line)), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		switch k {
		case "X":
			if err != nil {
				return p, fmt.Errorf("cursor X %q: %w", v, err)
			}
			p.X, seenX = n, true
		case "Y":
			if err != nil {
				return p, fmt.Errorf("cursor Y %q: %w", v, err)
			}
			p.Y, seenY = n, true
		}
	}
	if !seenX || !seenY {
		return p, fmt.Errorf("cursor position missing in %q", out)
	}
	return p, nil
}

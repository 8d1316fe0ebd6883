// Package capture grabs screen regions as images.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"reinforcebot/models"
	"reinforcebot/process/pace"
)

// DefaultSettle lets a freshly posted card finish rendering before capture.
const DefaultSettle = 1500 * time.Millisecond

// DefaultCommand grabs a region of the X11 root window as PNG on stdout
// (ImageMagick). Placeholders {x} {y} {w} {h} are replaced per capture.
var DefaultCommand = []string{"import", "-silent", "-window", "root", "-crop", "{w}x{h}+{x}+{y}", "+repage", "png:-"}

// ErrEmptyCapture is returned when the capture command produced no image data.
var ErrEmptyCapture = errors.New("empty capture")

// Provider captures a region, optionally waiting for the settle delay first.
type Provider interface {
	Capture(ctx context.Context, region models.Region, settle bool) (image.Image, error)
}

// Command captures by running an external screenshot tool that writes an image
// to stdout.
type Command struct {
	Args   []string
	Settle time.Duration
	log    zerolog.Logger
}

// NewCommand returns a Command provider; empty args select DefaultCommand.
func NewCommand(args []string, settle time.Duration, log zerolog.Logger) *Command {
	if len(args) == 0 {
		args = DefaultCommand
	}
	return &Command{Args: args, Settle: settle, log: log}
}

// Capture runs the screenshot tool for region and decodes its output.
func (c *Command) Capture(ctx context.Context, region models.Region, settle bool) (image.Image, error) {
	if settle {
		if err := pace.Wait(ctx, c.Settle); err != nil {
			return nil, err
		}
	}
	args := expand(c.Args, region)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("capture %s: %w (stderr: %s)", region, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("capture %s: %w", region, ErrEmptyCapture)
	}
	img, err := imaging.Decode(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	c.log.Debug().
		Str("region", region.String()).
		Int("bytes", stdout.Len()).
		Dur("took", time.Since(start)).
		Msg("captured")
	return img, nil
}

func expand(args []string, r models.Region) []string {
	repl := strings.NewReplacer(
		"{x}", strconv.Itoa(r.X),
		"{y}", strconv.Itoa(r.Y),
		"{w}", strconv.Itoa(r.Width),
		"{h}", strconv.Itoa(r.Height),
	)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = repl.Replace(a)
	}
	return out
}

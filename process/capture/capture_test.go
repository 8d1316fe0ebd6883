package capture

import (
	"context"
	"errors"
	"image/color"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reinforcebot/models"
)

func TestExpand(t *testing.T) {
	got := expand(DefaultCommand, models.Region{X: 10, Y: 20, Width: 300, Height: 40})
	assert.Contains(t, got, "300x40+10+20")
	assert.Equal(t, "{w}x{h}+{x}+{y}", DefaultCommand[5], "template left untouched")
}

func TestCommandDecodesStdout(t *testing.T) {
	src := imaging.New(8, 6, color.NRGBA{10, 20, 30, 255})
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, imaging.Save(src, path))

	c := NewCommand([]string{"cat", path}, 0, zerolog.Nop())
	img, err := c.Capture(context.Background(), models.Region{Width: 8, Height: 6}, true)
	if errors.Is(err, exec.ErrNotFound) {
		t.Skip("cat not installed")
	}
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestCommandEmptyOutput(t *testing.T) {
	c := NewCommand([]string{"true"}, 0, zerolog.Nop())
	_, err := c.Capture(context.Background(), models.Region{Width: 8, Height: 8}, false)
	if errors.Is(err, exec.ErrNotFound) {
		t.Skip("true not installed")
	}
	assert.ErrorIs(t, err, ErrEmptyCapture)
}

func TestFileCrops(t *testing.T) {
	src := imaging.New(100, 80, color.NRGBA{255, 255, 255, 255})
	path := filepath.Join(t.TempDir(), "screen.png")
	require.NoError(t, imaging.Save(src, path))

	f := &File{Path: path}
	img, err := f.Capture(context.Background(), models.Region{X: 10, Y: 10, Width: 40, Height: 20}, false)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	img, err = f.Capture(context.Background(), models.Region{X: 90, Y: 10, Width: 40, Height: 20}, false)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx(), "out-of-bounds region returns the full frame")

	_, err = (&File{Path: filepath.Join(t.TempDir(), "missing.png")}).Capture(context.Background(), models.Region{}, false)
	assert.Error(t, err)
}

func TestCaptureHonorsCancelledSettle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&File{Path: "unused", Settle: DefaultSettle}).Capture(ctx, models.Region{}, true)
	assert.ErrorIs(t, err, context.Canceled)
}

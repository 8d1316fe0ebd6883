package capture

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"reinforcebot/models"
	"reinforcebot/process/pace"
)

// File replays a saved screenshot. Regions that lie inside the image are
// cropped out of it; otherwise the whole image is returned.
type File struct {
	Path   string
	Settle time.Duration
}

// Capture loads the file and crops region out of it.
func (f *File) Capture(ctx context.Context, region models.Region, settle bool) (image.Image, error) {
	if settle {
		if err := pace.Wait(ctx, f.Settle); err != nil {
			return nil, err
		}
	}
	img, err := imaging.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	rect := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height)
	if region.Usable() && rect.In(img.Bounds()) {
		return imaging.Crop(img, rect), nil
	}
	return img, nil
}

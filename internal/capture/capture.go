// Package capture turns a raw camera frame into a booth still: the largest
// centered square of the frame with the active visual filter baked in,
// encoded as JPEG.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"github.com/kozaktomas/timebooth/internal/catalog"
)

// Quality is the JPEG quality used for encoded stills (0.8 on the 0-1 scale).
const Quality = 80

// SquareStill crops frame to the largest centered square, applies the filter's
// pixel transform and encodes the result as JPEG. The output side length is
// always min(sourceWidth, sourceHeight). The frame must be a decodable image;
// callers are expected to hold a live frame before invoking this.
func SquareStill(frame []byte, filter catalog.VisualFilter) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	bounds := img.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	origin := image.Pt(
		bounds.Min.X+(bounds.Dx()-side)/2,
		bounds.Min.Y+(bounds.Dy()-side)/2,
	)

	rgba := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Draw(rgba, rgba.Bounds(), img, origin, xdraw.Src)

	applyTransform(rgba, filter.Transform)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode still: %w", err)
	}
	return buf.Bytes(), nil
}

// Downscale re-encodes an image so neither dimension exceeds maxSize, keeping
// the aspect ratio. Used to shrink reference stills before sending them to a
// generation provider. Images already within bounds are re-encoded as JPEG
// unchanged in size.
func Downscale(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxSize || height > maxSize {
		var newWidth, newHeight int
		if width > height {
			newWidth = maxSize
			newHeight = height * maxSize / width
		} else {
			newHeight = maxSize
			newWidth = width * maxSize / height
		}
		scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

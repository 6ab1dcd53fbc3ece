package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// thumbnailQuality is the JPEG quality of exported thumbnails.
const thumbnailQuality = 90

// ImageService provides image processing operations for album covers.
//
// ImageService is used to:
//   - Shrink covers into JPEG thumbnails for exports
//   - Compute a cover's average colour for accents in the browser
//
// WebP, PNG, GIF and JPEG inputs are accepted.
//
// Example usage:
//
//	svc := NewImageService()
//
//	thumb, _ := svc.Thumbnail(ctx, coverData, 600)
//	accent, _ := svc.AverageColor(ctx, coverData)
//	fmt.Println(Hex(accent)) // "#3a2f28"
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Thumbnail decodes data and re-encodes it as a JPEG fitting within a
// maxSize by maxSize square.
//
// The aspect ratio is preserved and images are never enlarged: a cover
// already within bounds is only re-encoded. A maxSize of zero or less
// disables resizing.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 cover becomes 600x400
//	thumb, err := svc.Thumbnail(ctx, data, 600)
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), maxSize)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// FitWithin scales width and height down to fit a maxSize square,
// preserving the aspect ratio. Dimensions never drop below one pixel.
func FitWithin(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}

	if width >= height {
		height = max(1, height*maxSize/width)
		width = maxSize
	} else {
		width = max(1, width*maxSize/height)
		height = maxSize
	}
	return width, height
}

// AverageColor returns the mean colour over every pixel of the image in
// data, each channel rounded to the nearest integer. Alpha is ignored.
func (s *ImageService) AverageColor(ctx context.Context, data []byte) (color.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return color.RGBA{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	count := uint64(bounds.Dx()) * uint64(bounds.Dy())
	if count == 0 {
		return color.RGBA{}, fmt.Errorf("image has no pixels")
	}

	var r, g, b uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r += uint64(c.R)
			g += uint64(c.G)
			b += uint64(c.B)
		}
	}

	round := func(sum uint64) uint8 { return uint8((sum + count/2) / count) }
	return color.RGBA{R: round(r), G: round(g), B: round(b), A: 0xff}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

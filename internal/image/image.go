// Package image provides the normalized RGB image type used throughout the
// trainer, along with loading, saving, and cropping operations.
package image

import (
	"fmt"
	stdimage "image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"

	"vibe-trainer/pkg/colorutil"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a H x W x 3 array of RGB intensities normalized to [0,1],
// stored row-major with interleaved channels.
type Image struct {
	W, H int
	Pix  []float64 // len == W*H*3
}

// New creates a zeroed image of the given dimensions.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]float64, w*h*3)}
}

// At returns the RGB triple at pixel (x, y).
func (im *Image) At(x, y int) (r, g, b float64) {
	i := (y*im.W + x) * 3
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2]
}

// Set stores the RGB triple at pixel (x, y).
func (im *Image) Set(x, y int, r, g, b float64) {
	i := (y*im.W + x) * 3
	im.Pix[i], im.Pix[i+1], im.Pix[i+2] = r, g, b
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := New(im.W, im.H)
	copy(out.Pix, im.Pix)
	return out
}

// Clamp clamps all intensities to [0,1] in place and returns the image.
func (im *Image) Clamp() *Image {
	for i, v := range im.Pix {
		im.Pix[i] = colorutil.Clamp01(v)
	}
	return im
}

// SameSize reports whether two images have identical dimensions.
func (im *Image) SameSize(other *Image) bool {
	return im.W == other.W && im.H == other.H
}

// FromStdImage converts a decoded standard-library image to normalized RGB.
func FromStdImage(src stdimage.Image) *Image {
	bounds := src.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			out.Pix[i] = float64(r>>8) / 255.0
			out.Pix[i+1] = float64(g>>8) / 255.0
			out.Pix[i+2] = float64(b>>8) / 255.0
			i += 3
		}
	}
	return out
}

// Load decodes an image file (JPEG, PNG, TIFF, or WebP) into normalized RGB.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := stdimage.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return FromStdImage(img), nil
}

// ToRGBA converts back to an 8-bit image with half-up rounding.
func (im *Image) ToRGBA() *stdimage.RGBA {
	out := stdimage.NewRGBA(stdimage.Rect(0, 0, im.W, im.H))
	for y := 0; y < im.H; y++ {
		for x := 0; x < im.W; x++ {
			r, g, b := im.At(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: quantize8(r),
				G: quantize8(g),
				B: quantize8(b),
				A: 255,
			})
		}
	}
	return out
}

// quantize8 maps a [0,1] intensity to 0..255 with half-up rounding.
func quantize8(v float64) uint8 {
	q := math.Floor(v*255.0 + 0.5)
	if q < 0 {
		q = 0
	}
	if q > 255 {
		q = 255
	}
	return uint8(q)
}

// Save encodes the image as JPEG at the given quality.
func Save(path string, im *Image, quality int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := jpeg.Encode(file, im.ToRGBA(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// Crop returns a copy of the w x h region whose top-left corner is (x0, y0).
func (im *Image) Crop(x0, y0, w, h int) *Image {
	out := New(w, h)
	for y := 0; y < h; y++ {
		srcOff := ((y0+y)*im.W + x0) * 3
		dstOff := y * w * 3
		copy(out.Pix[dstOff:dstOff+w*3], im.Pix[srcOff:srcOff+w*3])
	}
	return out
}

// CenterCropPair trims both images to their common centered region.
// Images that already share dimensions are returned unchanged.
func CenterCropPair(a, b *Image) (*Image, *Image) {
	if a.SameSize(b) {
		return a, b
	}
	h := min(a.H, b.H)
	w := min(a.W, b.W)
	ac := a.Crop((a.W-w)/2, (a.H-h)/2, w, h)
	bc := b.Crop((b.W-w)/2, (b.H-h)/2, w, h)
	return ac, bc
}

// CropInner returns the centered frac-sized region of the image, used to
// exclude border artifacts. The result is never smaller than 1x1.
func CropInner(im *Image, frac float64) *Image {
	innerH := max(1, int(math.Round(float64(im.H)*frac)))
	innerW := max(1, int(math.Round(float64(im.W)*frac)))
	y0 := max(0, (im.H-innerH)/2)
	x0 := max(0, (im.W-innerW)/2)
	return im.Crop(x0, y0, innerW, innerH)
}

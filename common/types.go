// package common contains common types that are used throughout this module. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmptyBitmap is returned when an image decodes to zero pixels.
	ErrEmptyBitmap = errors.New("bitmap has no pixels")

	// ErrNotImage is returned when the input is recognisably some other kind of file.
	ErrNotImage = errors.New("input is not an image")
)

// sniffLen is the number of leading bytes filetype needs to match every known type.
const sniffLen = 262

// Bitmap holds RGBA pixel data for an image handed to a transition.
// The host borrows a Bitmap and never copies or mutates its Pixels.
type Bitmap struct {
	// Pixels is the pixel data in alpha-premultiplied RGBA order (the image.RGBA layout),
	// 4 bytes per pixel, row-major with no padding.
	Pixels []byte
	// Width is the width of the image in pixels.
	Width uint32
	// Height is the height of the image in pixels.
	Height uint32
}

// Empty reports whether the bitmap holds no pixels.
func (b Bitmap) Empty() bool {
	return b.Width == 0 || b.Height == 0 || len(b.Pixels) < int(b.Width)*int(b.Height)*4
}

// RGBA wraps the bitmap pixels in an *image.RGBA without copying.
//
// Returns:
//   - *image.RGBA: an image view over Pixels
func (b Bitmap) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pixels,
		Stride: int(b.Width) * 4,
		Rect:   image.Rect(0, 0, int(b.Width), int(b.Height)),
	}
}

// BitmapFromImage converts any image.Image into a Bitmap.
// An *image.RGBA anchored at the origin with a tight stride is reused without copying.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - Bitmap: the converted bitmap
func BitmapFromImage(img image.Image) Bitmap {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == bounds.Dx()*4 {
		return Bitmap{Pixels: rgba.Pix, Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	return Bitmap{Pixels: rgba.Pix, Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
}

// DecodeBitmap decodes an encoded image into a Bitmap.
// Supports PNG, JPEG, BMP, TIFF and WebP.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - Bitmap: the decoded pixels
//   - error: ErrNotImage for other known file types, ErrEmptyBitmap, or the decoder error
func DecodeBitmap(r io.Reader) (Bitmap, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	if kind, _ := filetype.Match(head); kind != filetype.Unknown && !filetype.IsImage(head) {
		return Bitmap{}, fmt.Errorf("%w: %s", ErrNotImage, kind.MIME.Value)
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return Bitmap{}, fmt.Errorf("failed to decode image: %w", err)
	}
	b := BitmapFromImage(img)
	if b.Empty() {
		return Bitmap{}, ErrEmptyBitmap
	}
	return b, nil
}

// DecodeBitmapBytes decodes an in-memory encoded image into a Bitmap.
func DecodeBitmapBytes(data []byte) (Bitmap, error) {
	return DecodeBitmap(bytes.NewReader(data))
}

// LoadBitmap opens and decodes the image file at path.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - Bitmap: the decoded pixels
//   - error: error if the file cannot be opened or decoded
func LoadBitmap(path string) (Bitmap, error) {
	file, err := os.Open(path)
	if err != nil {
		return Bitmap{}, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	b, err := DecodeBitmap(file)
	if err != nil {
		return Bitmap{}, fmt.Errorf("failed to load image file %s: %w", path, err)
	}
	return b, nil
}

package main

import (
	"image"
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
)

// testCard draws a diagonal gradient with a translucent ring cut out of it, so both colour
// and alpha variation show up in the particles.
func testCard(width, height int) common.Bitmap {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cx, cy := float64(width)/2, float64(height)/2
	outer := math.Min(cx, cy) * 0.8
	inner := outer * 0.6

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(width-1)
			v := float64(y) / float64(height-1)
			c := color.NRGBA{
				R: uint8(255 * u),
				G: uint8(255 * v),
				B: uint8(255 * (1 - u*v)),
				A: 255,
			}
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			switch {
			case d < inner:
				c.A = 0
			case d < outer:
				c.A = 128
			}
			img.Set(x, y, c)
		}
	}
	return common.BitmapFromImage(img)
}

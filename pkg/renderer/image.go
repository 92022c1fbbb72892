package renderer

import (
	"fmt"
	"image"
	"image/color"
)

// ToImage copies a packed 0x00RRGGBB frame into an opaque RGBA image
func ToImage(buf []uint32, width, height int) *image.RGBA {
	if len(buf) != width*height {
		panic(fmt.Sprintf("renderer: buffer holds %d pixels, %dx%d image needs %d", len(buf), width, height, width*height))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := UnpackRGB(buf[y*width+x])
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

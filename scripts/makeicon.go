//go:build ignore

package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Icon geometry
const (
	size   = 512
	cardX0 = 56
	cardY0 = 128
	cardX1 = 456
	cardY1 = 384
	radius = 32
)

// insideCard reports whether (x, y) lies in the rounded card rectangle
func insideCard(x, y int) bool {
	if x < cardX0 || x >= cardX1 || y < cardY0 || y >= cardY1 {
		return false
	}

	// Corner arcs
	cx, cy := x, y
	switch {
	case x < cardX0+radius:
		cx = cardX0 + radius
	case x >= cardX1-radius:
		cx = cardX1 - radius - 1
	}
	switch {
	case y < cardY0+radius:
		cy = cardY0 + radius
	case y >= cardY1-radius:
		cy = cardY1 - radius - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

func main() {
	out := "Icon.png"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	bgColor := color.RGBA{17, 24, 39, 255}
	cardColor := color.RGBA{26, 31, 113, 255}
	stripeColor := color.RGBA{10, 12, 40, 255}
	chipColor := color.RGBA{234, 179, 8, 255}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := bgColor
			if insideCard(x, y) {
				c = cardColor
				switch {
				case y >= cardY0+48 && y < cardY0+96:
					c = stripeColor
				case x >= cardX0+48 && x < cardX0+120 && y >= cardY0+136 && y < cardY0+192:
					c = chipColor
				}
			}
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

package usecase

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/csmith/lingotutor/domain/entities"
)

const boxStrokeWidth = 3

var boxColor = color.RGBA{R: 0, G: 80, B: 255, A: 255}

// Annotate draws each prediction's bounding box and a label+confidence
// caption onto a working copy of img. The input image is never modified.
func Annotate(img image.Image, predictions []entities.Prediction) image.Image {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	for _, p := range predictions {
		rect := image.Rect(p.Box.XMin, p.Box.YMin, p.Box.XMax, p.Box.YMax).Intersect(bounds)
		if rect.Empty() {
			continue
		}
		strokeRect(canvas, rect, boxColor, boxStrokeWidth)

		caption := fmt.Sprintf("%s: %.2f", titleCase(p.Label), p.Confidence)
		drawCaption(canvas, rect.Min.X, rect.Min.Y-6, caption, boxColor)
	}

	return canvas
}

// strokeRect draws a rectangle outline of the given stroke width.
func strokeRect(canvas *image.RGBA, rect image.Rectangle, col color.Color, width int) {
	for i := 0; i < width; i++ {
		r := rect.Inset(i)
		if r.Empty() {
			return
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			canvas.Set(x, r.Min.Y, col)
			canvas.Set(x, r.Max.Y-1, col)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			canvas.Set(r.Min.X, y, col)
			canvas.Set(r.Max.X-1, y, col)
		}
	}
}

// drawCaption renders text just above a box; when the box touches the top
// edge the caption is drawn inside it instead.
func drawCaption(canvas *image.RGBA, x, y int, text string, col color.Color) {
	if y < basicfont.Face7x13.Height {
		y = basicfont.Face7x13.Height + 2
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// titleCase upper-cases the first rune of the label.
func titleCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

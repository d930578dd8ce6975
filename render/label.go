package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"chainpad/theme"
)

// ButtonPixels is the edge length of one button face.
const ButtonPixels = 96

// baseFontSize is the pixel height of the 7x13 base face. Requested
// font sizes quantize to integer multiples of it.
const baseFontSize = 13

// Spec describes one button face: label text over a filled, rounded
// background, with an optional small overlay in the lower-right
// corner (used for MIDI channel numbers).
type Spec struct {
	Text         string
	FontSize     int
	TextColor    theme.RGB
	Background   theme.RGB
	CornerRadius int
	Overlay      string
	OverlayColor theme.RGB
}

var face = basicfont.Face7x13

// Label rasterizes a spec into a ButtonPixels² RGBA buffer. Output is
// deterministic for identical specs.
func Label(s Spec) (*image.RGBA, error) {
	if s.CornerRadius < 0 || s.CornerRadius > ButtonPixels/2 {
		return nil, fmt.Errorf("render: corner radius %d out of range", s.CornerRadius)
	}

	img := image.NewRGBA(image.Rect(0, 0, ButtonPixels, ButtonPixels))
	fillRounded(img, rgba(s.Background), s.CornerRadius)

	scale := s.FontSize / baseFontSize
	if scale < 1 {
		scale = 1
	}
	drawText(img, s.Text, rgba(s.TextColor), scale)

	if s.Overlay != "" {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(rgba(s.OverlayColor)),
			Face: face,
		}
		w := font.MeasureString(face, s.Overlay).Ceil()
		d.Dot = fixed.P(ButtonPixels-w-6, ButtonPixels-6)
		d.DrawString(s.Overlay)
	}

	return img, nil
}

// drawText renders the wrapped label centered on the face. Scales
// above 1 draw onto a reduced layer first and blit it up in integer
// blocks, keeping output deterministic.
func drawText(img *image.RGBA, text string, c color.RGBA, scale int) {
	size := ButtonPixels / scale
	lines := wrap(text, maxLineChars(size))
	if len(lines) == 0 {
		return
	}

	layer := img
	if scale > 1 {
		layer = image.NewRGBA(image.Rect(0, 0, size, size))
	}

	lineH := face.Metrics().Height.Ceil()
	top := (size - lineH*len(lines)) / 2
	d := font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(c),
		Face: face,
	}
	for i, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		d.Dot = fixed.P((size-w)/2, top+lineH*i+face.Metrics().Ascent.Ceil())
		d.DrawString(line)
	}

	if scale == 1 {
		return
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := layer.RGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, px)
				}
			}
		}
	}
}

// fillRounded fills the face, leaving pixels outside the corner
// circles fully transparent.
func fillRounded(img *image.RGBA, c color.RGBA, radius int) {
	b := img.Bounds()
	draw.Draw(img, b, image.NewUniform(c), image.Point{}, draw.Src)
	if radius == 0 {
		return
	}

	max := b.Max.X - 1
	corners := [4][2]int{
		{radius, radius},
		{max - radius, radius},
		{radius, max - radius},
		{max - radius, max - radius},
	}
	for y := 0; y < b.Max.Y; y++ {
		for x := 0; x < b.Max.X; x++ {
			inCornerBand := (x < radius || x > max-radius) && (y < radius || y > max-radius)
			if !inCornerBand {
				continue
			}
			cx, cy := nearestCorner(corners, x, y)
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > radius*radius {
				img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
}

func nearestCorner(corners [4][2]int, x, y int) (int, int) {
	best := corners[0]
	bestDist := 1 << 30
	for _, c := range corners {
		dx, dy := x-c[0], y-c[1]
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best[0], best[1]
}

// wrap splits text into at most three centered lines, truncating the
// last with an ellipsis when it cannot fit.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
			continue
		}
		lines = append(lines, line)
		line = w
	}
	lines = append(lines, line)

	const maxLines = 3
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, l := range lines {
		if len(l) > width {
			lines[i] = l[:width-1] + "…"
		}
	}
	return lines
}

func maxLineChars(size int) int {
	return (size - 8) / face.Advance
}

func rgba(c theme.RGB) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}

package mandel

import (
	"fmt"
	"image"
	"image/color"
)

// Extent of the plane covered at zoom 1. The ratio is fixed and is not
// adapted to the buffer's aspect ratio.
const (
	planeWidth  = 3.5
	planeHeight = 2.0
)

// escapeRadiusSq is |z|² at which a point is considered escaped.
const escapeRadiusSq = 4

// EscapeIterations iterates z = z² + c from z = 0 and returns how many
// iterations completed while |z|² stayed below 4, or maxIterations if it
// never left. The first iterate is z = c, so a c already outside the escape
// radius returns 0.
func EscapeIterations(cReal, cImag float64, maxIterations int) int {
	zx, zy := cReal, cImag
	iter := 0
	for zx*zx+zy*zy < escapeRadiusSq && iter < maxIterations {
		zx, zy = zx*zx-zy*zy+cReal, 2*zx*zy+cImag
		iter++
	}
	return iter
}

// PixelToComplex maps pixel (px, py) of a width×height image to the plane.
// Pixel (width/2, height/2) maps exactly to the view's center. Rows grow
// downward with the imaginary part.
func PixelToComplex(px, py, width, height int, v View) (cReal, cImag float64) {
	xScale := (planeWidth / v.Zoom) / float64(width)
	yScale := (planeHeight / v.Zoom) / float64(height)

	cReal = float64(px-width/2)*xScale + v.CenterX
	cImag = float64(py-height/2)*yScale + v.CenterY
	return cReal, cImag
}

// ColorFor returns the palette color of an escape count under v.
func ColorFor(iterations int, v View) color.RGBA {
	return palettes[v.Palette].Color(iterations, v.MaxIterations)
}

// Render paints every pixel of buf for v on the calling goroutine. Every
// alpha byte is set to 255.
func Render(buf *image.RGBA, v View) error {
	if err := checkBuffer(buf); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	renderRect(buf, buf.Bounds(), v)
	return nil
}

func checkBuffer(buf *image.RGBA) error {
	if buf == nil {
		return fmt.Errorf("%w: nil", ErrInvalidBuffer)
	}
	b := buf.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: empty bounds %v", ErrInvalidBuffer, b)
	}
	if buf.Stride < 4*b.Dx() {
		return fmt.Errorf("%w: stride %d, need at least %d", ErrInvalidBuffer, buf.Stride, 4*b.Dx())
	}
	if need := buf.PixOffset(b.Max.X-1, b.Max.Y-1) + 4; len(buf.Pix) < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidBuffer, len(buf.Pix), need)
	}
	return nil
}

// renderRect paints the part of buf inside r. Pixel coordinates are taken
// relative to buf's bounds so a buffer need not start at the origin.
func renderRect(buf *image.RGBA, r image.Rectangle, v View) {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	pal := palettes[v.Palette]

	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := buf.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, ci := PixelToComplex(x-b.Min.X, y-b.Min.Y, w, h, v)
			c := pal.Color(EscapeIterations(cr, ci, v.MaxIterations), v.MaxIterations)

			px := buf.Pix[off : off+4 : off+4]
			px[0] = c.R
			px[1] = c.G
			px[2] = c.B
			px[3] = 0xff
			off += 4
		}
	}
}

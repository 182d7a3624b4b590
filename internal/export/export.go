// Package export writes rendered buffers to disk as PNG files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// WritePNG encodes img into path, creating missing parent directories.
func WritePNG(path string, img image.Image) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG %q: %w", path, err)
	}
	return nil
}

// Downsample scales src to w×h with a Catmull-Rom filter. It is used to
// bring a high-DPI render back to its CSS pixel size.
func Downsample(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Path derives the file name of one output image from the base name. With a
// single size and frame the base is returned unchanged; otherwise the size
// and/or zero padded frame number are appended before the extension, e.g.
// "bg_1280x720_007.png".
func Path(base string, size image.Point, frame int, multiSize, multiFrame bool) string {
	if !multiSize && !multiFrame {
		return base
	}

	ext := filepath.Ext(base)
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, ext))
	if multiSize {
		fmt.Fprintf(&b, "_%dx%d", size.X, size.Y)
	}
	if multiFrame {
		fmt.Fprintf(&b, "_%03d", frame)
	}
	b.WriteString(ext)
	return b.String()
}

package mandel

import (
	"fmt"
	"image/color"
	"math"
	"sort"
)

// PaletteID names one of the built-in palettes.
type PaletteID string

const (
	Fire   PaletteID = "fire"
	Ocean  PaletteID = "ocean"
	Cosmic PaletteID = "cosmic"
)

// Palette is an ordered table of color stops. Colors between stops are
// linearly interpolated.
type Palette []color.RGBA

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

var palettes = map[PaletteID]Palette{
	Cosmic: {
		rgb(0, 0, 0),
		rgb(25, 7, 26),
		rgb(9, 1, 47),
		rgb(4, 4, 73),
		rgb(0, 7, 100),
		rgb(12, 44, 138),
		rgb(24, 82, 177),
		rgb(57, 125, 209),
		rgb(134, 181, 229),
		rgb(211, 236, 248),
		rgb(241, 233, 191),
		rgb(248, 201, 95),
		rgb(255, 170, 0),
		rgb(204, 128, 0),
		rgb(153, 87, 0),
		rgb(106, 52, 3),
	},
	Fire: {
		rgb(0, 0, 0),
		rgb(32, 0, 0),
		rgb(64, 0, 0),
		rgb(96, 0, 0),
		rgb(128, 0, 0),
		rgb(160, 32, 0),
		rgb(192, 64, 0),
		rgb(224, 96, 0),
		rgb(255, 128, 0),
		rgb(255, 160, 32),
		rgb(255, 192, 64),
		rgb(255, 224, 96),
		rgb(255, 255, 128),
		rgb(255, 255, 160),
		rgb(255, 255, 192),
		rgb(255, 255, 255),
	},
	Ocean: {
		rgb(0, 0, 0),
		rgb(0, 0, 51),
		rgb(0, 0, 102),
		rgb(0, 25, 153),
		rgb(0, 51, 204),
		rgb(0, 102, 255),
		rgb(51, 153, 255),
		rgb(102, 204, 255),
		rgb(153, 230, 255),
		rgb(204, 242, 255),
		rgb(230, 248, 255),
		rgb(242, 251, 255),
		rgb(248, 253, 255),
		rgb(251, 254, 255),
		rgb(253, 255, 255),
		rgb(255, 255, 255),
	},
}

// ParsePalette validates a palette name.
func ParsePalette(s string) (PaletteID, error) {
	id := PaletteID(s)
	if _, ok := palettes[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPalette, s)
	}
	return id, nil
}

// PaletteIDs lists the built-in palettes in sorted order.
func PaletteIDs() []PaletteID {
	ids := make([]PaletteID, 0, len(palettes))
	for id := range palettes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stops returns a copy of the stop table for id.
func Stops(id PaletteID) (Palette, error) {
	p, ok := palettes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, id)
	}
	return append(Palette(nil), p...), nil
}

// Color maps an escape count to a color. Points that never escaped are
// black; everything else is blended between the two stops surrounding
// iterations/maxIterations of the way through the table.
func (p Palette) Color(iterations, maxIterations int) color.RGBA {
	if iterations == maxIterations || len(p) == 0 {
		return color.RGBA{A: 0xff}
	}

	last := len(p) - 1
	t := float64(iterations) / float64(maxIterations) * float64(last)
	i := int(math.Floor(t))
	if i >= last {
		return p[last]
	}
	if i < 0 {
		return p[0]
	}

	frac := t - float64(i)
	from, to := p[i], p[i+1]
	return color.RGBA{
		R: blend(from.R, to.R, frac),
		G: blend(from.G, to.G, frac),
		B: blend(from.B, to.B, frac),
		A: 0xff,
	}
}

func blend(a, b uint8, frac float64) uint8 {
	return uint8(math.Floor(float64(a) + (float64(b)-float64(a))*frac))
}

package mandel

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidBuffer     = errors.New("invalid pixel buffer")
	ErrInvalidZoom       = errors.New("zoom must be a positive finite number")
	ErrInvalidIterations = errors.New("max iterations must be positive")
	ErrUnknownPalette    = errors.New("unknown palette")
	ErrUnknownFormula    = errors.New("unknown fractal formula")
)

// Formula names the escape-time recurrence. Only the Mandelbrot set is
// implemented; the type exists so configuration can reject anything else.
type Formula string

const FormulaMandelbrot Formula = "mandelbrot"

// ParseFormula validates a formula name.
func ParseFormula(s string) (Formula, error) {
	if Formula(s) != FormulaMandelbrot {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormula, s)
	}
	return FormulaMandelbrot, nil
}

// View fully describes one frame. Views are values: callers replace them
// wholesale rather than mutating a shared instance.
type View struct {
	CenterX       float64   `yaml:"centerX" json:"centerX"`
	CenterY       float64   `yaml:"centerY" json:"centerY"`
	Zoom          float64   `yaml:"zoom" json:"zoom"`
	MaxIterations int       `yaml:"maxIterations" json:"maxIterations"`
	Palette       PaletteID `yaml:"palette" json:"palette"`
}

// DefaultView is the classic full-set framing.
func DefaultView() View {
	return View{
		CenterX:       -0.5,
		CenterY:       0,
		Zoom:          1,
		MaxIterations: 100,
		Palette:       Fire,
	}
}

// NewView builds a validated View.
func NewView(centerX, centerY, zoom float64, maxIterations int, palette PaletteID) (View, error) {
	v := View{
		CenterX:       centerX,
		CenterY:       centerY,
		Zoom:          zoom,
		MaxIterations: maxIterations,
		Palette:       palette,
	}
	if err := v.Validate(); err != nil {
		return View{}, err
	}
	return v, nil
}

// Validate checks the fields a render relies on.
func (v View) Validate() error {
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 1) {
		return fmt.Errorf("%w, got %v", ErrInvalidZoom, v.Zoom)
	}
	if v.MaxIterations <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidIterations, v.MaxIterations)
	}
	if _, ok := palettes[v.Palette]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPalette, v.Palette)
	}
	return nil
}

// ViewOverrides holds optional replacements for View fields. Nil fields
// leave the base value untouched.
type ViewOverrides struct {
	CenterX       *float64
	CenterY       *float64
	Zoom          *float64
	MaxIterations *int
	Palette       *PaletteID
}

// Merge returns a copy of v with every set override applied.
func (v View) Merge(o ViewOverrides) View {
	if o.CenterX != nil {
		v.CenterX = *o.CenterX
	}
	if o.CenterY != nil {
		v.CenterY = *o.CenterY
	}
	if o.Zoom != nil {
		v.Zoom = *o.Zoom
	}
	if o.MaxIterations != nil {
		v.MaxIterations = *o.MaxIterations
	}
	if o.Palette != nil {
		v.Palette = *o.Palette
	}
	return v
}

// BoundaryPoint is a plane coordinate believed to lie near the escape
// boundary of the set.
type BoundaryPoint struct {
	X, Y float64
}

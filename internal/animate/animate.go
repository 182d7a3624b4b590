// Package animate builds frame sequences that glide from one view to another.
package animate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	mandel "github.com/marben/fractalbg"
)

var (
	ErrInvalidFrameCount = errors.New("frame count must be positive")
	ErrUnknownEasing     = errors.New("unknown easing")
)

var easings = map[string]ease.TweenFunc{
	"linear":          ease.Linear,
	"in-out-quad":     ease.InOutQuad,
	"in-out-cubic":    ease.InOutCubic,
	"in-out-sine":     ease.InOutSine,
	"out-expo":        ease.OutExpo,
	"out-in-quad":     ease.OutInQuad,
	"in-out-circular": ease.InOutCirc,
}

// Easing looks up an easing function by name.
func Easing(name string) (ease.TweenFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
	}
	return fn, nil
}

// EasingNames lists the known easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Frames returns n views moving from one view to another. The first frame is
// from and the last is to, exactly. The center moves along a straight line
// in the plane and the zoom moves linearly in log space, so every step feels
// like the same relative zoom. Iteration caps are interpolated; the palette
// switches to the target's at the halfway point.
func Frames(from, to mandel.View, n int, fn ease.TweenFunc) ([]mandel.View, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidFrameCount, n)
	}
	if err := from.Validate(); err != nil {
		return nil, fmt.Errorf("from view: %w", err)
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("to view: %w", err)
	}
	if n == 1 {
		return []mandel.View{to}, nil
	}
	if fn == nil {
		fn = ease.Linear
	}

	c0 := mgl64.Vec2{from.CenterX, from.CenterY}
	c1 := mgl64.Vec2{to.CenterX, to.CenterY}
	z0, z1 := math.Log(from.Zoom), math.Log(to.Zoom)

	progress := gween.New(0, 1, float32(n-1), fn)
	frames := make([]mandel.View, n)
	for i := range n {
		var p float32
		if i == 0 {
			p, _ = progress.Update(0)
		} else {
			p, _ = progress.Update(1)
		}
		frames[i] = between(from, to, c0, c1, z0, z1, float64(p))
	}
	frames[0] = from
	frames[n-1] = to
	return frames, nil
}

func between(from, to mandel.View, c0, c1 mgl64.Vec2, z0, z1, p float64) mandel.View {
	center := c0.Add(c1.Sub(c0).Mul(p))

	v := mandel.View{
		CenterX:       center.X(),
		CenterY:       center.Y(),
		Zoom:          math.Exp(z0 + (z1-z0)*p),
		MaxIterations: int(math.Round(float64(from.MaxIterations) + float64(to.MaxIterations-from.MaxIterations)*p)),
		Palette:       from.Palette,
	}
	if p >= 0.5 {
		v.Palette = to.Palette
	}
	v.MaxIterations = max(v.MaxIterations, 1)
	return v
}

// Package mandel rasterizes the Mandelbrot set into RGBA buffers and picks
// randomized views near the set's boundary for decorative backgrounds.
package mandel

import "sort"

// Region is an axis aligned window of the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// View converts the region into a View centered on the region whose zoom
// makes the region's width fill the horizontal extent of the image.
func (r Region) View(maxIterations int, palette PaletteID) View {
	return View{
		CenterX:       (r.Xmin + r.Xmax) / 2,
		CenterY:       (r.Ymin + r.Ymax) / 2,
		Zoom:          planeWidth / (r.Xmax - r.Xmin),
		MaxIterations: maxIterations,
		Palette:       palette,
	}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating "seahorse" curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: 0.25,
		Xmax: 0.35,
		Ymin: -0.05,
		Ymax: 0.05,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Needle – the antenna along the negative real axis
	Needle = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.05,
		Ymax: 0.05,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var landmarks = map[string]Region{
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"needle":                  Needle,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// Landmark looks up a named region.
func Landmark(name string) (Region, bool) {
	r, ok := landmarks[name]
	return r, ok
}

// LandmarkNames returns the known landmark names in sorted order.
func LandmarkNames() []string {
	names := make([]string, 0, len(landmarks))
	for name := range landmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

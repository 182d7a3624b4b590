package mandel

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-logr/logr"

	"github.com/marben/fractalbg/internal/logging"
)

const (
	// ProbeIterations caps the escape test used to classify candidates.
	ProbeIterations = 100
	// DefaultBoundaryThreshold is the escape count a candidate must exceed.
	DefaultBoundaryThreshold = 10
	// MaxSampleAttempts bounds the rejection loop of FindBoundaryPoint.
	MaxSampleAttempts = 100

	// RandomMaxIterations and RandomPalette are fixed for randomized views.
	RandomMaxIterations = 200
	RandomPalette       = Ocean
)

// fallbackPoints are used when no candidate passes the boundary test.
var fallbackPoints = [...]BoundaryPoint{
	{X: -0.7, Y: 0.0},
	{X: -0.8, Y: 0.156},
	{X: 0.285, Y: 0.01},
	{X: -0.4, Y: 0.6},
}

// FallbackPoints returns the fixed points FindBoundaryPoint falls back to.
func FallbackPoints() []BoundaryPoint {
	return append([]BoundaryPoint(nil), fallbackPoints[:]...)
}

// IsNearBoundary reports whether c escapes within ProbeIterations, but only
// after more than threshold iterations. Points escaping at once are far
// outside; points that never escape look like the interior.
func IsNearBoundary(cReal, cImag float64, threshold int) bool {
	n := EscapeIterations(cReal, cImag, ProbeIterations)
	return n > threshold && n < ProbeIterations
}

// Sampler picks random views near the boundary of the set. All randomness
// comes from the injected generator, so a seeded generator gives repeatable
// views. A Sampler is not safe for concurrent use.
type Sampler struct {
	rng       *rand.Rand
	threshold int
	observer  Observer
	logger    logr.Logger
}

type SamplerOption func(*Sampler)

// WithThreshold overrides DefaultBoundaryThreshold.
func WithThreshold(threshold int) SamplerOption {
	return func(s *Sampler) {
		s.threshold = threshold
	}
}

func WithSamplerObserver(o Observer) SamplerOption {
	return func(s *Sampler) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithSamplerLogger(l logr.Logger) SamplerOption {
	return func(s *Sampler) {
		s.logger = l
	}
}

// NewSampler returns a sampler drawing from rng. A nil rng is replaced by a
// time seeded generator.
func NewSampler(rng *rand.Rand, opts ...SamplerOption) *Sampler {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	s := &Sampler{
		rng:       rng,
		threshold: DefaultBoundaryThreshold,
		observer:  nopObserver{},
		logger:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindBoundaryPoint draws up to MaxSampleAttempts candidates from regions
// around the set and returns the first near the boundary. When all of them
// fail it returns one of FallbackPoints.
func (s *Sampler) FindBoundaryPoint() BoundaryPoint {
	p, attempts, fallback := s.findBoundaryPoint()
	s.observer.ObserveSample(attempts, fallback)
	s.logger.V(logging.DEBUG).Info("boundary point chosen",
		"x", p.X, "y", p.Y,
		"attempts", attempts,
		"fallback", fallback)
	return p
}

func (s *Sampler) findBoundaryPoint() (p BoundaryPoint, attempts int, fallback bool) {
	for attempts = 1; attempts <= MaxSampleAttempts; attempts++ {
		p, _ = s.candidate()
		if IsNearBoundary(p.X, p.Y, s.threshold) {
			return p, attempts, false
		}
	}
	return fallbackPoints[s.rng.IntN(len(fallbackPoints))], MaxSampleAttempts, true
}

// Candidate regions, in the order of their cumulative weights.
const (
	regionBody = iota
	regionEastCusp
	regionSeahorseNeck
	regionTendrils
)

// candidate draws a point from one of four hand tuned regions:
// 40% the main body, 30% around (0.25, 0), 20% around (-0.75, 0) and
// 10% the upper or lower tendrils. The region index is returned as well.
func (s *Sampler) candidate() (BoundaryPoint, int) {
	var x, y float64

	region := s.rng.Float64()
	switch {
	case region < 0.4:
		x = -2 + s.rng.Float64()*2.5
		y = -1 + s.rng.Float64()*2
		return BoundaryPoint{X: x, Y: y}, regionBody
	case region < 0.7:
		x = 0.2 + s.rng.Float64()*0.1
		y = -0.1 + s.rng.Float64()*0.2
		return BoundaryPoint{X: x, Y: y}, regionEastCusp
	case region < 0.9:
		x = -0.8 + s.rng.Float64()*0.1
		y = -0.2 + s.rng.Float64()*0.4
		return BoundaryPoint{X: x, Y: y}, regionSeahorseNeck
	default:
		x = -1.8 + s.rng.Float64()*1.3
		if s.rng.Float64() < 0.5 {
			y = 0.5 + s.rng.Float64()*0.5
		} else {
			y = -0.5 - s.rng.Float64()*0.5
		}
		return BoundaryPoint{X: x, Y: y}, regionTendrils
	}
}

// RandomizeView picks a new view centered near the boundary. Zoom is a
// uniform base in [1, 51) scaled up in detail rich areas, and the center is
// jittered by up to ±0.05/√zoom so the jitter shrinks as zoom grows.
func (s *Sampler) RandomizeView() View {
	bp := s.FindBoundaryPoint()

	baseZoom := 1 + s.rng.Float64()*50
	complexity := EscapeIterations(bp.X, bp.Y, RandomMaxIterations)
	zoom := baseZoom * math.Max(0.5, float64(complexity)/100)

	offset := 0.1 / math.Sqrt(zoom)
	v := View{
		CenterX:       bp.X + (s.rng.Float64()-0.5)*offset,
		CenterY:       bp.Y + (s.rng.Float64()-0.5)*offset,
		Zoom:          zoom,
		MaxIterations: RandomMaxIterations,
		Palette:       RandomPalette,
	}

	s.logger.V(logging.DEBUG).Info("randomized view",
		"view", v,
		"baseZoom", baseZoom,
		"complexity", complexity)
	return v
}

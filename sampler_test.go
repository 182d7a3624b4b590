package mandel_test

import (
	"context"
	"image"
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"

	mandel "github.com/marben/fractalbg"
	"github.com/marben/fractalbg/internal/logging"
	"github.com/marben/fractalbg/internal/metrics"
)

func seeded(seed uint64, opts ...mandel.SamplerOption) *mandel.Sampler {
	return mandel.NewSampler(rand.New(rand.NewPCG(seed, seed>>1)), opts...)
}

// histogramCount returns the number of observations of a histogram on the
// recorder's registry.
func histogramCount(rec *metrics.Recorder, name string) uint64 {
	mfs, err := rec.Registry().Gather()
	Expect(err).NotTo(HaveOccurred())
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func counterValue(rec *metrics.Recorder, name string) float64 {
	mfs, err := rec.Registry().Gather()
	Expect(err).NotTo(HaveOccurred())
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

var _ = Describe("IsNearBoundary", func() {
	It("rejects interior points", func() {
		Expect(mandel.IsNearBoundary(0, 0, mandel.DefaultBoundaryThreshold)).To(BeFalse())
		Expect(mandel.IsNearBoundary(-1, 0, mandel.DefaultBoundaryThreshold)).To(BeFalse())
	})

	It("rejects points that escape quickly", func() {
		Expect(mandel.IsNearBoundary(2, 2, mandel.DefaultBoundaryThreshold)).To(BeFalse())
		Expect(mandel.IsNearBoundary(1, 0, mandel.DefaultBoundaryThreshold)).To(BeFalse())
	})

	It("accepts points in the seahorse neck", func() {
		Expect(mandel.IsNearBoundary(-0.75, 0.1, mandel.DefaultBoundaryThreshold)).To(BeTrue())
	})

	It("accepts nothing once the threshold reaches the probe cap", func() {
		Expect(mandel.IsNearBoundary(-0.75, 0.1, mandel.ProbeIterations-1)).To(BeFalse())
	})
})

var _ = Describe("Sampler", func() {
	Describe("FindBoundaryPoint", func() {
		It("returns a boundary point or a fallback", func() {
			s := seeded(42)
			fallbacks := mandel.FallbackPoints()
			for range 200 {
				p := s.FindBoundaryPoint()
				if !mandel.IsNearBoundary(p.X, p.Y, mandel.DefaultBoundaryThreshold) {
					Expect(fallbacks).To(ContainElement(p))
				}
			}
		})

		It("draws candidates from the plane around the set", func() {
			s := seeded(7)
			for range 200 {
				p := s.FindBoundaryPoint()
				Expect(p.X).To(BeNumerically(">=", -2))
				Expect(p.X).To(BeNumerically("<=", 0.5))
				Expect(p.Y).To(BeNumerically(">=", -1))
				Expect(p.Y).To(BeNumerically("<=", 1))
			}
		})

		It("uses a fallback when no candidate can pass", func() {
			rec := metrics.NewRecorder()
			s := seeded(1, mandel.WithThreshold(mandel.ProbeIterations), mandel.WithSamplerObserver(rec))

			fallbacks := mandel.FallbackPoints()
			for range 20 {
				Expect(fallbacks).To(ContainElement(s.FindBoundaryPoint()))
			}
			Expect(counterValue(rec, "fractalbg_sampler_fallbacks_total")).To(Equal(20.0))
			Expect(histogramCount(rec, "fractalbg_sampler_attempts")).To(Equal(uint64(20)))
		})

		It("reports one sample per search", func() {
			rec := metrics.NewRecorder()
			s := seeded(3, mandel.WithSamplerObserver(rec))
			for range 10 {
				s.FindBoundaryPoint()
			}
			Expect(histogramCount(rec, "fractalbg_sampler_attempts")).To(Equal(uint64(10)))
			Expect(counterValue(rec, "fractalbg_sampler_fallbacks_total")).To(BeNumerically("<=", 10))
		})

		It("is repeatable for a fixed seed", func() {
			a, b := seeded(99), seeded(99)
			for range 50 {
				Expect(a.FindBoundaryPoint()).To(Equal(b.FindBoundaryPoint()))
			}
		})

		It("never returns a fallback copy that aliases the table", func() {
			pts := mandel.FallbackPoints()
			pts[0].X = 42
			Expect(mandel.FallbackPoints()[0].X).To(Equal(-0.7))
		})
	})

	Describe("RandomizeView", func() {
		It("returns valid views with the fixed cap and palette", func() {
			s := seeded(2024)
			for range 100 {
				v := s.RandomizeView()
				Expect(v.Validate()).To(Succeed())
				Expect(v.MaxIterations).To(Equal(mandel.RandomMaxIterations))
				Expect(v.Palette).To(Equal(mandel.Ocean))
				Expect(v.Zoom).To(BeNumerically(">=", 0.5))
				Expect(v.Zoom).To(BeNumerically("<", 102))
			}
		})

		It("keeps the center within the zoom scaled jitter of the boundary point", func() {
			for seed := range uint64(50) {
				// a sampler with the same seed draws the same boundary point first
				bp := seeded(seed + 1).FindBoundaryPoint()
				v := seeded(seed + 1).RandomizeView()

				limit := 0.05/math.Sqrt(v.Zoom) + 1e-12
				Expect(math.Abs(v.CenterX - bp.X)).To(BeNumerically("<=", limit))
				Expect(math.Abs(v.CenterY - bp.Y)).To(BeNumerically("<=", limit))
			}
		})

		It("produces identical renders for identical seeds", func() {
			va := seeded(5).RandomizeView()
			vb := seeded(5).RandomizeView()
			Expect(va).To(Equal(vb))

			r := mandel.NewRenderer(mandel.WithWorkers(4), mandel.WithTileSize(16, 16))
			a := image.NewRGBA(image.Rect(0, 0, 64, 36))
			b := image.NewRGBA(image.Rect(0, 0, 64, 36))
			Expect(r.Render(context.Background(), a, va)).To(Succeed())
			Expect(mandel.Render(b, vb)).To(Succeed())
			Expect(a.Pix).To(Equal(b.Pix))
		})

		It("logs the chosen view", func() {
			buf := gbytes.NewBuffer()
			s := seeded(11, mandel.WithSamplerLogger(logging.NewTestLogger(buf)))
			s.RandomizeView()
			Expect(buf).To(gbytes.Say("boundary point chosen"))
			Expect(buf).To(gbytes.Say("randomized view"))
		})
	})

	It("falls back to a time seed without a generator", func() {
		v := mandel.NewSampler(nil).RandomizeView()
		Expect(v.Validate()).To(Succeed())
	})
})

package mandel

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/marben/fractalbg/internal/logging"
	"github.com/marben/fractalbg/internal/tiles"
)

// Renderer paints views tile by tile on a pool of goroutines. The output is
// byte-identical to Render; only the order in which pixels are written
// differs. A Renderer holds no per-buffer state and may be shared.
type Renderer struct {
	workers  int
	tileW    int
	tileH    int
	observer Observer
	clock    clock.PassiveClock
}

type RendererOption func(*Renderer)

// WithWorkers sets the number of concurrent tile workers. Values below 1
// select GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(r *Renderer) {
		r.workers = n
	}
}

// WithTileSize sets the tile edge in pixels. Values below 1 are ignored.
func WithTileSize(w, h int) RendererOption {
	return func(r *Renderer) {
		if w > 0 && h > 0 {
			r.tileW, r.tileH = w, h
		}
	}
}

func WithObserver(o Observer) RendererOption {
	return func(r *Renderer) {
		if o != nil {
			r.observer = o
		}
	}
}

func WithClock(c clock.PassiveClock) RendererOption {
	return func(r *Renderer) {
		if c != nil {
			r.clock = c
		}
	}
}

func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		tileW:    tiles.DefaultSize,
		tileH:    tiles.DefaultSize,
		observer: nopObserver{},
		clock:    clock.RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// Render paints buf for v. Workers check ctx between tiles; on cancellation
// the context's error is returned and buf is left partially painted.
func (r *Renderer) Render(ctx context.Context, buf *image.RGBA, v View) error {
	if err := checkBuffer(buf); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}

	logger := logr.FromContextOrDiscard(ctx)
	start := r.clock.Now()
	sched := tiles.NewScheduler(buf.Bounds(), r.tileW, r.tileH)
	workers := min(r.workers, sched.Len())

	logger.V(logging.DEBUG).Info("render started",
		"bounds", buf.Bounds().String(),
		"tiles", sched.Len(),
		"workers", workers,
		"view", v)

	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				tile, found := sched.Pop()
				if !found {
					return nil
				}
				renderRect(buf, tile, v)
				sched.Done(tile)
				logger.V(logging.TRACE).Info("tile rendered",
					"tile", tile.String(),
					"progress", sched.Progress())
			}
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("render %v: %w", buf.Bounds(), err)
	}

	elapsed := r.clock.Since(start)
	pixels := buf.Bounds().Dx() * buf.Bounds().Dy()
	r.observer.ObserveRender(pixels, elapsed)
	logger.V(logging.DEBUG).Info("render finished", "pixels", pixels, "elapsed", elapsed)
	return nil
}

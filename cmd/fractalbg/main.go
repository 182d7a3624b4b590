// fractalbg renders decorative Mandelbrot backgrounds to PNG files.
// It plays the host role: it owns the pixel buffers, picks a view (defaults,
// a landmark, a saved view file or a randomized one near the set boundary),
// and re-renders that view for every requested size and animation frame.

package main

import (
	"context"
	"errors"
	"image"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	mandel "github.com/marben/fractalbg"
	"github.com/marben/fractalbg/internal/animate"
	"github.com/marben/fractalbg/internal/config"
	"github.com/marben/fractalbg/internal/export"
	"github.com/marben/fractalbg/internal/logging"
	"github.com/marben/fractalbg/internal/metrics"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(logr.NewContext(context.Background(), logger), os.Interrupt)
	defer stop()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info("starting", "seed", seed, "sizes", cfg.Sizes, "frames", cfg.Frames)

	recorder := metrics.NewRecorder()
	sampler := mandel.NewSampler(
		rand.New(rand.NewPCG(seed, seed>>1)),
		mandel.WithSamplerObserver(recorder),
		mandel.WithSamplerLogger(logger),
	)
	renderer := mandel.NewRenderer(
		mandel.WithWorkers(cfg.Workers),
		mandel.WithTileSize(cfg.TileSize, cfg.TileSize),
		mandel.WithObserver(recorder),
	)

	views, err := planViews(cfg, sampler)
	if err != nil {
		return err
	}

	if cfg.SaveView != "" {
		if err := config.WriteViewFile(cfg.SaveView, views[len(views)-1]); err != nil {
			return err
		}
		logger.Info("view saved", "path", cfg.SaveView)
	}

	if err := renderAll(ctx, cfg, renderer, views); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		logger.V(logging.DEBUG).Info("metrics written", "path", cfg.MetricsFile)
	}
	return nil
}

// planViews picks the base view, applies overrides, and expands it into the
// animation frames. With a single frame the result is just the base view.
func planViews(cfg *config.Config, sampler *mandel.Sampler) ([]mandel.View, error) {
	base := mandel.DefaultView()
	switch {
	case cfg.ViewFile != "":
		v, err := config.ReadViewFile(cfg.ViewFile)
		if err != nil {
			return nil, err
		}
		base = v
	case cfg.Landmark != "":
		r, _ := mandel.Landmark(cfg.Landmark)
		base = r.View(mandel.RandomMaxIterations, mandel.RandomPalette)
	case cfg.Randomize:
		base = sampler.RandomizeView()
	}

	start := base.Merge(cfg.Overrides)
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if cfg.Frames == 1 {
		return []mandel.View{start}, nil
	}

	fn, err := animate.Easing(cfg.Ease)
	if err != nil {
		return nil, err
	}
	return animate.Frames(start, sampler.RandomizeView(), cfg.Frames, fn)
}

// renderAll renders every view at every size. Sizes are independent: the
// core keeps nothing per dimension, so each one is a plain re-render.
func renderAll(ctx context.Context, cfg *config.Config, r mandel.Rasterizer, views []mandel.View) error {
	logger := logr.FromContextOrDiscard(ctx)
	multiSize := len(cfg.Sizes) > 1
	multiFrame := len(views) > 1

	for _, size := range cfg.Sizes {
		bufSize := cfg.RenderSize(size)
		buf := image.NewRGBA(image.Rectangle{Max: bufSize})

		for i, v := range views {
			if err := r.Render(ctx, buf, v); err != nil {
				return err
			}

			var out image.Image = buf
			if cfg.Downsample && bufSize != size {
				out = export.Downsample(buf, size.X, size.Y)
			}

			path := export.Path(cfg.Out, size, i, multiSize, multiFrame)
			if err := export.WritePNG(path, out); err != nil {
				return err
			}
			logger.Info("image saved", "path", path, "size", out.Bounds().Size(), "view", v)
		}
	}
	return nil
}

package mandel

import (
	"context"
	"image"
	"time"
)

// Rasterizer paints a View into a caller owned buffer.
type Rasterizer interface {
	Render(ctx context.Context, buf *image.RGBA, v View) error
}

// Observer receives statistics from renders and boundary sampling.
// Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveRender is called once per completed render.
	ObserveRender(pixels int, elapsed time.Duration)
	// ObserveSample is called once per boundary search with the number of
	// candidates probed and whether the fallback list was used.
	ObserveSample(attempts int, fallback bool)
}

type nopObserver struct{}

func (nopObserver) ObserveRender(int, time.Duration) {}
func (nopObserver) ObserveSample(int, bool)          {}

var _ Rasterizer = (*Renderer)(nil)

package animate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"

	mandel "github.com/marben/fractalbg"
)

var (
	start  = mandel.View{CenterX: 0, CenterY: 0, Zoom: 1, MaxIterations: 100, Palette: mandel.Fire}
	finish = mandel.View{CenterX: 1, CenterY: 2, Zoom: 100, MaxIterations: 200, Palette: mandel.Ocean}
)

func TestFramesEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		fn, err := Easing(name)
		require.NoError(t, err)

		for _, n := range []int{2, 3, 10, 31} {
			frames, err := Frames(start, finish, n, fn)
			require.NoError(t, err, name)
			require.Len(t, frames, n)
			assert.Equal(t, start, frames[0], "%s n=%d", name, n)
			assert.Equal(t, finish, frames[n-1], "%s n=%d", name, n)
			for i, f := range frames {
				assert.NoError(t, f.Validate(), "%s frame %d", name, i)
			}
		}
	}
}

func TestFramesLinearMidpoint(t *testing.T) {
	frames, err := Frames(start, finish, 5, ease.Linear)
	require.NoError(t, err)

	mid := frames[2]
	assert.InDelta(t, 0.5, mid.CenterX, 1e-9)
	assert.InDelta(t, 1.0, mid.CenterY, 1e-9)
	assert.InDelta(t, 10.0, mid.Zoom, 1e-6, "zoom is interpolated in log space")
	assert.Equal(t, 150, mid.MaxIterations)
	assert.Equal(t, mandel.Ocean, mid.Palette, "palette switches at the halfway point")
	assert.Equal(t, mandel.Fire, frames[1].Palette)
}

func TestFramesZoomMonotone(t *testing.T) {
	frames, err := Frames(start, finish, 24, ease.Linear)
	require.NoError(t, err)

	for i := 1; i < len(frames); i++ {
		assert.Greater(t, frames[i].Zoom, frames[i-1].Zoom, "frame %d", i)
	}

	// equal log steps mean a constant zoom ratio between frames
	ratio := frames[1].Zoom / frames[0].Zoom
	for i := 2; i < len(frames); i++ {
		assert.InDelta(t, ratio, frames[i].Zoom/frames[i-1].Zoom, 1e-4, "frame %d", i)
	}
}

func TestFramesNilEasing(t *testing.T) {
	linear, err := Frames(start, finish, 7, ease.Linear)
	require.NoError(t, err)
	def, err := Frames(start, finish, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, linear, def)
}

func TestFramesSingle(t *testing.T) {
	frames, err := Frames(start, finish, 1, ease.InOutSine)
	require.NoError(t, err)
	assert.Equal(t, []mandel.View{finish}, frames)
}

func TestFramesErrors(t *testing.T) {
	_, err := Frames(start, finish, 0, ease.Linear)
	assert.ErrorIs(t, err, ErrInvalidFrameCount)

	bad := start
	bad.Zoom = math.NaN()
	_, err = Frames(bad, finish, 3, ease.Linear)
	assert.ErrorIs(t, err, mandel.ErrInvalidZoom)

	bad = finish
	bad.MaxIterations = 0
	_, err = Frames(start, bad, 3, ease.Linear)
	assert.ErrorIs(t, err, mandel.ErrInvalidIterations)
}

func TestEasing(t *testing.T) {
	names := EasingNames()
	assert.Contains(t, names, "linear")
	assert.Contains(t, names, "in-out-sine")
	assert.IsIncreasing(t, names)

	_, err := Easing("bounce-twice")
	assert.ErrorIs(t, err, ErrUnknownEasing)
}

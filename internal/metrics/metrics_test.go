package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRender(t *testing.T) {
	r := NewRecorder()
	r.ObserveRender(100, 20*time.Millisecond)
	r.ObserveRender(50, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.renders))
	assert.Equal(t, 150.0, testutil.ToFloat64(r.pixels))
	assert.Equal(t, 1, testutil.CollectAndCount(r.renderDuration))
}

func TestRecorderSample(t *testing.T) {
	r := NewRecorder()
	r.ObserveSample(3, false)
	r.ObserveSample(100, true)
	r.ObserveSample(1, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.sampleFallbacks))

	expected := `
# HELP fractalbg_sampler_attempts Candidates probed per boundary search.
# TYPE fractalbg_sampler_attempts histogram
fractalbg_sampler_attempts_bucket{le="1"} 1
fractalbg_sampler_attempts_bucket{le="2"} 1
fractalbg_sampler_attempts_bucket{le="5"} 2
fractalbg_sampler_attempts_bucket{le="10"} 2
fractalbg_sampler_attempts_bucket{le="25"} 2
fractalbg_sampler_attempts_bucket{le="50"} 2
fractalbg_sampler_attempts_bucket{le="100"} 3
fractalbg_sampler_attempts_bucket{le="+Inf"} 3
fractalbg_sampler_attempts_sum 104
fractalbg_sampler_attempts_count 3
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "fractalbg_sampler_attempts"))
}

func TestRecorderRegistryIsPrivate(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveRender(10, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.renders))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.renders))
	n, err := testutil.GatherAndCount(a.Registry())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveRender(640*360, 50*time.Millisecond)
	r.ObserveSample(7, false)

	path := filepath.Join(t.TempDir(), "fractalbg.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, name := range []string{
		"fractalbg_renders_total 1",
		"fractalbg_pixels_rendered_total 230400",
		"fractalbg_render_duration_seconds_count 1",
		"fractalbg_sampler_attempts_count 1",
		"fractalbg_sampler_fallbacks_total 0",
	} {
		assert.Contains(t, string(data), name)
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := NewRecorder().WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	assert.Error(t, err)
}

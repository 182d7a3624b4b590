// Package config loads fractalbg settings.
//
// Sources, highest priority first:
//
//  1. Command-line flags
//  2. Environment variables prefixed FRACTALBG_ (dashes become underscores,
//     e.g. FRACTALBG_CENTER_X)
//  3. The YAML file named by --config
//  4. Flag defaults
//
// View fields (center, zoom, iterations, palette) are only applied on top of
// the base view when they were set explicitly by one of the first three
// sources.
package config

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/utils/ptr"

	mandel "github.com/marben/fractalbg"
	"github.com/marben/fractalbg/internal/animate"
	"github.com/marben/fractalbg/internal/logging"
	"github.com/marben/fractalbg/internal/tiles"
)

const envPrefix = "FRACTALBG"

// Limits on the buffers a run may allocate.
const (
	MaxDPR = 16
	// MaxRenderPixels caps width×height×dpr² of every output, 1GiB of RGBA.
	MaxRenderPixels = 1 << 28
)

// Config holds every setting of one fractalbg run.
type Config struct {
	// Width and Height are the output size in CSS pixels.
	Width  int
	Height int
	// DPR is the device pixel ratio; buffers are rendered at size × DPR.
	DPR float64
	// Downsample scales high-DPI renders back to CSS size before encoding.
	Downsample bool
	// Sizes lists every output size. Defaults to Width×Height.
	Sizes []image.Point

	Out         string
	MetricsFile string
	LogLevel    string

	// Seed of the sampler's generator; 0 picks a time based seed.
	Seed      uint64
	Randomize bool
	Landmark  string
	ViewFile  string
	SaveView  string
	Fractal   mandel.Formula
	Overrides mandel.ViewOverrides

	Workers  int
	TileSize int
	Frames   int
	Ease     string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("fractalbg", pflag.ContinueOnError)
	fs.String("config", "", "YAML config file")

	fs.Int("width", 1280, "output width in CSS pixels")
	fs.Int("height", 720, "output height in CSS pixels")
	fs.Float64("dpr", 1, "device pixel ratio")
	fs.Bool("downsample", false, "scale high-DPI renders back to CSS size")
	fs.StringSlice("sizes", nil, "comma separated output sizes, e.g. 1920x1080,1280x720")
	fs.String("out", "fractal.png", "output PNG path")
	fs.String("metrics-file", "", "write Prometheus metrics to this textfile")
	fs.String("log-level", "info", "log level: info, debug or trace")

	fs.Uint64("seed", 0, "sampler seed, 0 for time based")
	fs.Bool("randomize", false, "pick a random view near the set boundary")
	fs.String("landmark", "", "start from a named landmark: "+strings.Join(mandel.LandmarkNames(), ", "))
	fs.String("view-file", "", "load the base view from a YAML file")
	fs.String("save-view", "", "write the final view to a YAML file")
	fs.String("fractal", string(mandel.FormulaMandelbrot), "fractal formula")

	fs.Float64("center-x", 0, "override the view center, real part")
	fs.Float64("center-y", 0, "override the view center, imaginary part")
	fs.Float64("zoom", 1, "override the view zoom")
	fs.Int("iterations", 100, "override the iteration cap")
	fs.String("palette", "", "override the palette")

	fs.Int("workers", 0, "render workers, 0 for GOMAXPROCS")
	fs.Int("tile-size", tiles.DefaultSize, "tile edge in pixels")
	fs.Int("frames", 1, "animation frames towards a randomized view")
	fs.String("ease", "in-out-sine", "animation easing: "+strings.Join(animate.EasingNames(), ", "))
	return fs
}

// Load parses args and merges environment and config file values.
// pflag.ErrHelp is returned unwrapped when -h or --help was requested.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Width:       v.GetInt("width"),
		Height:      v.GetInt("height"),
		DPR:         v.GetFloat64("dpr"),
		Downsample:  v.GetBool("downsample"),
		Out:         v.GetString("out"),
		MetricsFile: v.GetString("metrics-file"),
		LogLevel:    v.GetString("log-level"),
		Seed:        v.GetUint64("seed"),
		Randomize:   v.GetBool("randomize"),
		Landmark:    v.GetString("landmark"),
		ViewFile:    v.GetString("view-file"),
		SaveView:    v.GetString("save-view"),
		Fractal:     mandel.Formula(v.GetString("fractal")),
		Workers:     v.GetInt("workers"),
		TileSize:    v.GetInt("tile-size"),
		Frames:      v.GetInt("frames"),
		Ease:        v.GetString("ease"),
	}

	sizes, err := ParseSizes(v.GetStringSlice("sizes"))
	if err != nil {
		return nil, err
	}
	if len(sizes) == 0 {
		sizes = []image.Point{{X: cfg.Width, Y: cfg.Height}}
	}
	cfg.Sizes = sizes

	if v.IsSet("center-x") {
		cfg.Overrides.CenterX = ptr.To(v.GetFloat64("center-x"))
	}
	if v.IsSet("center-y") {
		cfg.Overrides.CenterY = ptr.To(v.GetFloat64("center-y"))
	}
	if v.IsSet("zoom") {
		cfg.Overrides.Zoom = ptr.To(v.GetFloat64("zoom"))
	}
	if v.IsSet("iterations") {
		cfg.Overrides.MaxIterations = ptr.To(v.GetInt("iterations"))
	}
	if name := v.GetString("palette"); name != "" {
		id, err := mandel.ParsePalette(name)
		if err != nil {
			return nil, err
		}
		cfg.Overrides.Palette = ptr.To(id)
	}
	return cfg, nil
}

// ParseSizes parses entries of the form WxH. Entries may themselves hold
// several sizes separated by commas or spaces.
func ParseSizes(entries []string) ([]image.Point, error) {
	var sizes []image.Point
	for _, entry := range entries {
		fields := strings.FieldsFunc(entry, func(r rune) bool { return r == ',' || r == ' ' })
		for _, f := range fields {
			w, h, ok := strings.Cut(strings.ToLower(f), "x")
			if !ok {
				return nil, fmt.Errorf("size %q: want WIDTHxHEIGHT", f)
			}
			width, err := strconv.Atoi(w)
			if err != nil {
				return nil, fmt.Errorf("size %q: width: %w", f, err)
			}
			height, err := strconv.Atoi(h)
			if err != nil {
				return nil, fmt.Errorf("size %q: height: %w", f, err)
			}
			sizes = append(sizes, image.Point{X: width, Y: height})
		}
	}
	return sizes, nil
}

// Validate checks ranges, enumerations and conflicting view sources.
func (c *Config) Validate() error {
	for _, s := range c.Sizes {
		if s.X <= 0 || s.Y <= 0 {
			return fmt.Errorf("output size must be positive, got %dx%d", s.X, s.Y)
		}
	}
	if !(c.DPR > 0) || c.DPR > MaxDPR {
		return fmt.Errorf("dpr must be in (0, %d], got %v", MaxDPR, c.DPR)
	}
	for _, s := range c.Sizes {
		w, h := float64(s.X)*c.DPR, float64(s.Y)*c.DPR
		if w*h > MaxRenderPixels {
			return fmt.Errorf("render size %.0fx%.0f for %dx%d at dpr %v exceeds %d pixels",
				w, h, s.X, s.Y, c.DPR, MaxRenderPixels)
		}
	}
	if c.Out == "" {
		return errors.New("out must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := mandel.ParseFormula(string(c.Fractal)); err != nil {
		return err
	}
	if c.Landmark != "" {
		if _, ok := mandel.Landmark(c.Landmark); !ok {
			return fmt.Errorf("unknown landmark %q, known: %s", c.Landmark, strings.Join(mandel.LandmarkNames(), ", "))
		}
	}

	sources := 0
	for _, set := range []bool{c.Randomize, c.Landmark != "", c.ViewFile != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("randomize, landmark and view-file are mutually exclusive")
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile-size must be > 0, got %d", c.TileSize)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be >= 1, got %d", c.Frames)
	}
	if _, err := animate.Easing(c.Ease); err != nil {
		return err
	}
	return nil
}

// RenderSize is the buffer size for an output size after applying DPR.
func (c *Config) RenderSize(size image.Point) image.Point {
	return image.Point{
		X: max(1, int(float64(size.X)*c.DPR)),
		Y: max(1, int(float64(size.Y)*c.DPR)),
	}
}

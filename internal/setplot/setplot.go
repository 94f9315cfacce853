package setplot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath   = "setplot.yaml"
	DefaultWidth  = 800
	DefaultHeight = 400

	KindLine   = "line"
	KindPcolor = "pcolor"
)

var (
	ErrUnsupportedScript = errors.New("setplot: unsupported plot configuration format")
	ErrNoFigures         = errors.New("setplot: no figures configured")
	ErrInvalidFigure     = errors.New("setplot: invalid figure")
)

// Figure describes one rendering surface. Title may contain %t (frame time)
// and %f (frame number).
type Figure struct {
	Name      string    `yaml:"name" toml:"name"`
	Kind      string    `yaml:"kind" toml:"kind"`
	Component int       `yaml:"component" toml:"component"`
	Title     string    `yaml:"title" toml:"title"`
	YLim      []float64 `yaml:"ylim,omitempty" toml:"ylim,omitempty"`
	Width     int       `yaml:"width,omitempty" toml:"width,omitempty"`
	Height    int       `yaml:"height,omitempty" toml:"height,omitempty"`
}

type PlotConfig struct {
	Figures []Figure `yaml:"figures" toml:"figures"`
}

func Default() *PlotConfig {
	return &PlotConfig{Figures: []Figure{{
		Name:   "q",
		Kind:   KindLine,
		Title:  "q[0] at t = %t",
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}}}
}

// Load reads a plot configuration, choosing the decoder by file extension.
// A missing file at DefaultPath yields Default().
func Load(path string) (*PlotConfig, error) {
	if path == "" {
		path = DefaultPath
	}
	ext := strings.ToLower(filepath.Ext(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return Default(), nil
		}
		return nil, err
	}

	cfg := &PlotConfig{}
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".lua":
		cfg, err = runScript(path, string(data))
	default:
		return nil, fmt.Errorf("%w: %q (use .yaml, .toml or .lua)", ErrUnsupportedScript, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PlotConfig) applyDefaults() {
	for i := range c.Figures {
		f := &c.Figures[i]
		if f.Kind == "" {
			f.Kind = KindLine
		}
		if f.Name == "" {
			f.Name = fmt.Sprintf("figure %d", i)
		}
		if f.Width <= 0 {
			f.Width = DefaultWidth
		}
		if f.Height <= 0 {
			f.Height = DefaultHeight
		}
	}
}

func (c *PlotConfig) Validate() error {
	if len(c.Figures) == 0 {
		return ErrNoFigures
	}
	for i, f := range c.Figures {
		switch {
		case f.Kind != KindLine && f.Kind != KindPcolor:
			return fmt.Errorf("%w %d: unknown kind %q", ErrInvalidFigure, i, f.Kind)
		case f.Component < 0:
			return fmt.Errorf("%w %d: negative component", ErrInvalidFigure, i)
		case len(f.YLim) != 0 && (len(f.YLim) != 2 || f.YLim[0] >= f.YLim[1]):
			return fmt.Errorf("%w %d: ylim must be [min, max]", ErrInvalidFigure, i)
		}
	}
	return nil
}

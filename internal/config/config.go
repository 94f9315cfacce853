package config

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/iplot/internal/export"
	"github.com/san-kum/iplot/internal/frames"
	"github.com/san-kum/iplot/internal/nav"
	"github.com/san-kum/iplot/internal/setplot"
)

const (
	DefaultOutdir        = "_output"
	DefaultPlotdir       = "_plots"
	DefaultTitle         = "Use ←/→ or input a frame index and press enter."
	DefaultLogFile       = "iplot.log"
	DefaultTheme         = "minimal"
	DefaultAnimationFPS  = 2.0
	DefaultAnimationFile = "movie.gif"
	DefaultFile          = ".iplot.yaml"
	OutdirHint           = ".outdir"
)

type Config struct {
	Outdir    string          `yaml:"outdir"`
	Setplot   string          `yaml:"setplot"`
	Plotdir   string          `yaml:"plotdir"`
	Format    string          `yaml:"format"`
	Title     string          `yaml:"title"`
	Theme     string          `yaml:"theme"`
	LogFile   string          `yaml:"log_file"`
	CacheSize int             `yaml:"cache_size"`
	Bindings  map[string]int  `yaml:"bindings"`
	Keys      KeysConfig      `yaml:"keys"`
	Animation AnimationConfig `yaml:"animation"`
}

type KeysConfig struct {
	Commit  string `yaml:"commit"`
	SaveAll string `yaml:"save_all"`
	Export  string `yaml:"export"`
}

type AnimationConfig struct {
	FPS  float64 `yaml:"fps"`
	File string  `yaml:"file"`
}

func DefaultConfig() *Config {
	keys := nav.DefaultKeys()
	return &Config{
		Outdir:    DefaultOutdir,
		Setplot:   setplot.DefaultPath,
		Plotdir:   DefaultPlotdir,
		Format:    string(export.FormatPNG),
		Title:     DefaultTitle,
		Theme:     DefaultTheme,
		LogFile:   DefaultLogFile,
		CacheSize: frames.DefaultCacheSize,
		Bindings:  nav.DefaultBindings(),
		Keys:      KeysConfig{Commit: keys.Commit, SaveAll: keys.SaveAll, Export: keys.Export},
		Animation: AnimationConfig{FPS: DefaultAnimationFPS, File: DefaultAnimationFile},
	}
}

// Load reads a yaml config over the defaults. A bindings section replaces
// the default bindings rather than merging with them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bindings = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Bindings == nil {
		cfg.Bindings = nav.DefaultBindings()
	}
	return cfg, nil
}

// LoadDefault loads path when given. Otherwise it loads DefaultFile if
// present and falls back to DefaultConfig.
func LoadDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(DefaultFile)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var keyFields = []string{"keys.commit", "keys.save_all", "keys.export"}

// Validate checks the whole record before any session state exists.
func (c *Config) Validate() error {
	if err := nav.Bindings(c.Bindings).Validate(); err != nil {
		return &ConfigurationError{Field: "bindings", Err: err}
	}
	for key := range c.Bindings {
		if isReserved(key) {
			return &ConfigurationError{Field: "bindings", Err: fmt.Errorf("%w: %q is reserved", nav.ErrKeyConflict, key)}
		}
	}
	seen := map[string]string{}
	for i, key := range []string{c.Keys.Commit, c.Keys.SaveAll, c.Keys.Export} {
		field := keyFields[i]
		if key == "" {
			return &ConfigurationError{Field: field, Err: ErrEmptyValue}
		}
		if isReserved(key) {
			return &ConfigurationError{Field: field, Err: fmt.Errorf("%w: %q is reserved", nav.ErrKeyConflict, key)}
		}
		if _, ok := c.Bindings[key]; ok {
			return &ConfigurationError{Field: field, Err: fmt.Errorf("%w: %q is a navigation key", nav.ErrKeyConflict, key)}
		}
		if other, ok := seen[key]; ok {
			return &ConfigurationError{Field: field, Err: fmt.Errorf("%w: %q is also %s", nav.ErrKeyConflict, key, other)}
		}
		seen[key] = field
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return &ConfigurationError{Field: "format", Err: err}
	}
	if !validFPS(c.Animation.FPS) {
		return &ConfigurationError{Field: "animation.fps", Err: ErrNonPositiveFPS}
	}
	if err := checkAnimationFile(c.Animation.File); err != nil {
		return &ConfigurationError{Field: "animation.file", Err: err}
	}
	if c.CacheSize < 0 {
		return &ConfigurationError{Field: "cache_size", Err: ErrNegative}
	}
	return nil
}

// ValidateExportFlags requires the export file and frame rate together.
func ValidateExportFlags(file string, fpsSet bool, fps float64) error {
	switch {
	case file != "" && !fpsSet:
		return &ConfigurationError{Field: "frames-per-second", Err: ErrExportPair}
	case file == "" && fpsSet:
		return &ConfigurationError{Field: "export-file", Err: ErrExportPair}
	case file == "":
		return nil
	case !validFPS(fps):
		return &ConfigurationError{Field: "frames-per-second", Err: ErrNonPositiveFPS}
	}
	if err := checkAnimationFile(file); err != nil {
		return &ConfigurationError{Field: "export-file", Err: err}
	}
	return nil
}

// ReservedKeys are handled by the interactive host before the router sees
// them, so they cannot be bound.
var ReservedKeys = []string{"q", "ctrl+c", "?", "esc"}

func isReserved(key string) bool {
	return slices.Contains(ReservedKeys, key)
}

func validFPS(fps float64) bool {
	return fps > 0 && !math.IsInf(fps, 0)
}

func checkAnimationFile(file string) error {
	if file == "" {
		return ErrEmptyValue
	}
	if ext := strings.ToLower(filepath.Ext(file)); ext != ".gif" {
		return fmt.Errorf("%w: got %q", ErrAnimationFormat, ext)
	}
	return nil
}

// ResolveOutdir picks explicit, then the first line of the .outdir hint in
// dir, then DefaultOutdir.
func ResolveOutdir(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	fh, err := os.Open(filepath.Join(dir, OutdirHint))
	if err != nil {
		return DefaultOutdir
	}
	defer fh.Close()
	sc := bufio.NewScanner(fh)
	if sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return DefaultOutdir
}

func (c *Config) RouterConfig() nav.RouterConfig {
	return nav.RouterConfig{
		Keys:          nav.Keys{Commit: c.Keys.Commit, SaveAll: c.Keys.SaveAll, Export: c.Keys.Export},
		PlotDir:       c.Plotdir,
		AnimationFPS:  c.Animation.FPS,
		AnimationFile: c.Animation.File,
	}
}

// Package config loads raymesh settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/raymesh/pkg/arena"
	"github.com/chazu/raymesh/pkg/mesh"
)

// Kernel names accepted in the kernel field.
const (
	KernelSdfx = "sdfx"
	KernelPoly = "poly"
)

// DefaultMeshCells is the sdfx marching-cubes resolution.
const DefaultMeshCells = 200

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Duration is a time.Duration written as a string such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds the settings for one raymesh run.
type Config struct {
	VertexCapacity   int      `toml:"vertex_capacity"`
	EdgeCapacity     int      `toml:"edge_capacity"`
	TriangleCapacity int      `toml:"triangle_capacity"`
	MaxItems         int      `toml:"max_items"` // 0 = unbounded
	MeshCells        int      `toml:"mesh_cells"`
	Kernel           string   `toml:"kernel"`
	EvalTimeout      Duration `toml:"eval_timeout"`
	Debug            bool     `toml:"debug"`
	Workers          int      `toml:"workers"` // 0 = one per cell
	LogLevel         string   `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		VertexCapacity:   arena.DefaultChunk,
		EdgeCapacity:     arena.DefaultChunk,
		TriangleCapacity: arena.DefaultChunk,
		MeshCells:        DefaultMeshCells,
		Kernel:           KernelPoly,
		EvalTimeout:      Duration{5 * time.Second},
		LogLevel:         "info",
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.VertexCapacity >= 0, "vertex_capacity %d is negative", c.VertexCapacity)
	check(c.EdgeCapacity >= 0, "edge_capacity %d is negative", c.EdgeCapacity)
	check(c.TriangleCapacity >= 0, "triangle_capacity %d is negative", c.TriangleCapacity)
	check(c.MaxItems >= 0, "max_items %d is negative", c.MaxItems)
	check(c.MeshCells > 0, "mesh_cells %d must be positive", c.MeshCells)
	check(c.Kernel == KernelSdfx || c.Kernel == KernelPoly, "kernel %q is not %s or %s", c.Kernel, KernelSdfx, KernelPoly)
	check(c.EvalTimeout.Duration > 0, "eval_timeout %s must be positive", c.EvalTimeout)
	check(c.Workers >= 0, "workers %d is negative", c.Workers)
	_, err := ParseLevel(c.LogLevel)
	check(err == nil, "log_level %q is unknown", c.LogLevel)

	return errors.Join(errs...)
}

// MeshOptions converts the arena settings into context options.
func (c Config) MeshOptions() mesh.Options {
	return mesh.Options{
		VertexChunk:   c.VertexCapacity,
		EdgeChunk:     c.EdgeCapacity,
		TriangleChunk: c.TriangleCapacity,
		MaxItems:      c.MaxItems,
		Debug:         c.Debug,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, err
	}
	return l, nil
}

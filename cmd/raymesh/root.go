package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chazu/raymesh/pkg/app"
	"github.com/chazu/raymesh/pkg/config"
	"github.com/chazu/raymesh/pkg/engine"
	"github.com/chazu/raymesh/pkg/geom"
	"github.com/chazu/raymesh/pkg/mesh"
)

// cli holds the state shared by all subcommands.
type cli struct {
	cfgPath string
	level   string
	cfg     config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "raymesh",
		Short:         "Split, filter and partition triangle meshes built from scene scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "raymesh.toml", "config file (missing file means defaults)")
	root.PersistentFlags().StringVar(&c.level, "log-level", "", "override log_level: debug, info, warn or error")

	root.AddCommand(
		c.statsCmd(),
		c.splitCmd(),
		c.filterCmd(),
		c.partitionCmd(),
		c.sliceCmd(),
		c.dumpCmd(),
		c.configCmd(),
	)
	return root
}

// setup loads the config and installs the logger.
func (c *cli) setup(stderr io.Writer) error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return err
	}
	if c.level != "" {
		cfg.LogLevel = c.level
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	c.cfg = cfg
	c.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// load evaluates the script at path into a mesh context.
func (c *cli) load(path string) (*app.Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := app.New(c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	r := a.Evaluate(string(source))
	if !r.OK() {
		errs := lo.Map(r.Errors, func(e engine.EvalError, _ int) error { return e })
		return nil, fmt.Errorf("%s: %w", path, errors.Join(errs...))
	}
	return r, nil
}

// parsePlane reads "a,b,c,d" as the plane a*x + b*y + c*z + d = 0.
func parsePlane(s string) (geom.Plane, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return geom.Plane{}, fmt.Errorf("plane %q: %w", s, err)
	}
	return geom.Plane{X: v[0], Y: v[1], Z: v[2], W: v[3]}, nil
}

// parsePoint reads "x,y,z".
func parsePoint(s string) (geom.Point, error) {
	v, err := parseFloats(s, 3)
	if err != nil {
		return geom.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geom.Pt(v[0], v[1], v[2]), nil
}

func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated numbers, got %d", n, len(parts))
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func printStats(w io.Writer, label string, st mesh.Stats) {
	fmt.Fprintf(w, "%-8s vertices=%d edges=%d triangles=%d\n", label, st.Vertices, st.Edges, st.Triangles)
}

// Package slicer cuts a mesh context into cells by a sequence of planes.
// Every cell produced by one plane is cut again by the next, so n planes
// yield up to 2^n cells. Independent halves are processed concurrently.
package slicer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/raymesh/pkg/geom"
	"github.com/chazu/raymesh/pkg/mesh"
)

// Options configures Slice.
type Options struct {
	// Workers limits concurrent splits. Zero or less means one per cell.
	Workers int
	// KeepEmpty keeps cells without triangles in the result.
	KeepEmpty bool
	// Logger receives one debug record per split. Nil uses slog.Default.
	Logger *slog.Logger
	// Collector, when set, is attached to the root and shared by every
	// cell; each triangle of a kept cell is recorded with Match.
	Collector *mesh.Collector
}

// Cell is one leaf of the slicing tree. Path records the side taken at
// each plane: '0' for below (in), '1' for above (out).
type Cell struct {
	Path    string
	Context *mesh.Context
	Stats   mesh.Stats
}

// Result holds the cells ordered by path.
type Result struct {
	Cells  []Cell
	Splits int
}

// Triangles returns the total triangle count over all cells.
func (r *Result) Triangles() int {
	return lo.SumBy(r.Cells, func(c Cell) int { return c.Stats.Triangles })
}

// Cell returns the cell at path, or nil.
func (r *Result) Cell(path string) *Cell {
	for i := range r.Cells {
		if r.Cells[i].Path == path {
			return &r.Cells[i]
		}
	}
	return nil
}

type slicer struct {
	planes []geom.Plane
	opts   Options
	log    *slog.Logger
	g      *errgroup.Group
	ctx    context.Context

	mu     sync.Mutex
	cells  []Cell
	splits int
}

// Slice splits root by planes[0], then each half by planes[1] and so on.
// Root is consumed: its crossing edges are split in place. Cancellation is
// checked before every split; a split in progress always completes.
func Slice(ctx context.Context, root *mesh.Context, planes []geom.Plane, opts Options) (*Result, error) {
	if root == nil {
		return nil, fmt.Errorf("slicer: nil root: %w", mesh.ErrBadState)
	}
	if opts.Collector != nil {
		root.SetCollector(opts.Collector)
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	s := &slicer{
		planes: planes,
		opts:   opts,
		log:    lo.Ternary(opts.Logger != nil, opts.Logger, slog.Default()),
		g:      g,
		ctx:    gctx,
	}

	err := s.spawn(root, "")
	if werr := g.Wait(); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}

	slices.SortFunc(s.cells, func(a, b Cell) int {
		return strings.Compare(a.Path, b.Path)
	})
	return &Result{Cells: s.cells, Splits: s.splits}, nil
}

// spawn schedules c for processing. When every worker is busy the caller
// processes c itself, so a worker waiting on a full group cannot deadlock.
func (s *slicer) spawn(c *mesh.Context, path string) error {
	run := func() error { return s.process(c, path) }
	if s.g.TryGo(run) {
		return nil
	}
	return run()
}

func (s *slicer) process(c *mesh.Context, path string) error {
	depth := len(path)
	if depth == len(s.planes) {
		return s.leaf(c, path)
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}

	out, in := c.Sibling(), c.Sibling()
	if err := c.Split(out, in, s.planes[depth]); err != nil {
		return fmt.Errorf("slicer: cell %q plane %d: %w", path, depth, err)
	}
	s.log.Debug("split cell",
		"path", path,
		"plane", depth,
		"in", in.NumTriangles(),
		"out", out.NumTriangles())

	s.mu.Lock()
	s.splits++
	s.mu.Unlock()

	c.Clear()
	if err := s.spawn(in, path+"0"); err != nil {
		return err
	}
	return s.spawn(out, path+"1")
}

func (s *slicer) leaf(c *mesh.Context, path string) error {
	st := c.Stats()
	if st.Triangles == 0 && !s.opts.KeepEmpty {
		return nil
	}
	if s.opts.Collector != nil {
		for i := range st.Triangles {
			if err := c.Match(mesh.TriangleID(i)); err != nil {
				return fmt.Errorf("slicer: cell %q: %w", path, err)
			}
		}
	}
	s.mu.Lock()
	s.cells = append(s.cells, Cell{Path: path, Context: c, Stats: st})
	s.mu.Unlock()
	return nil
}

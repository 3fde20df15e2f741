package mesh

import (
	"fmt"
	"slices"
	"sync"

	"github.com/chazu/raymesh/pkg/geom"
)

// Collector gathers triangles that sibling contexts set aside while a
// scene is traversed. It is the only object contexts share and is safe
// for concurrent use.
type Collector struct {
	mu      sync.Mutex
	ignored []geom.Triangle
	matched []geom.Triangle
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Ignored returns a copy of the ignored triangles.
func (k *Collector) Ignored() []geom.Triangle {
	k.mu.Lock()
	defer k.mu.Unlock()
	return slices.Clone(k.ignored)
}

// Matched returns a copy of the matched triangles.
func (k *Collector) Matched() []geom.Triangle {
	k.mu.Lock()
	defer k.mu.Unlock()
	return slices.Clone(k.matched)
}

// Reset drops everything collected so far.
func (k *Collector) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ignored = k.ignored[:0]
	k.matched = k.matched[:0]
}

func (k *Collector) add(dst *[]geom.Triangle, t geom.Triangle) {
	k.mu.Lock()
	defer k.mu.Unlock()
	*dst = append(*dst, t)
}

// SetCollector attaches k to c. Siblings created afterwards share it.
func (c *Context) SetCollector(k *Collector) {
	c.opts.Collector = k
}

// Ignore records triangle id in the collector's ignored list.
func (c *Context) Ignore(id TriangleID) error {
	return c.collect(id, false)
}

// Match records triangle id in the collector's matched list.
func (c *Context) Match(id TriangleID) error {
	return c.collect(id, true)
}

func (c *Context) collect(id TriangleID, match bool) error {
	k := c.opts.Collector
	if k == nil {
		return fmt.Errorf("collect triangle %d: no collector: %w", id, ErrBadState)
	}
	t := c.Triangle(id)
	if t == nil {
		return fmt.Errorf("collect triangle %d: %w", id, ErrBadState)
	}
	g := c.geomTriangle(t)
	if match {
		k.add(&k.matched, g)
	} else {
		k.add(&k.ignored, g)
	}
	return nil
}

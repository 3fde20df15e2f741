package mesh

import (
	"context"
	"log/slog"
)

// Observer receives trace events from mutating operations. A nil
// Options.Observer disables tracing.
type Observer interface {
	// OnEdgeSplit is called once edge e has been cut at vertex sp; tail
	// is the new edge from sp to e's former second endpoint.
	OnEdgeSplit(c *Context, e, tail EdgeID, sp VertexID)
	// OnTriangleSplit is called for every triangle t cut in two; nt is
	// the new half.
	OnTriangleSplit(c *Context, t, nt TriangleID)
	// OnClassified is called after op assigned every triangle a side.
	OnClassified(c *Context, op string, in, out int)
}

func (c *Context) observeEdgeSplit(e, tail EdgeID, sp VertexID) {
	if c.opts.Observer != nil {
		c.opts.Observer.OnEdgeSplit(c, e, tail, sp)
	}
}

func (c *Context) observeTriangleSplit(t, nt TriangleID) {
	if c.opts.Observer != nil {
		c.opts.Observer.OnTriangleSplit(c, t, nt)
	}
}

func (c *Context) observeClassified(op string, in, out int) {
	if c.opts.Observer != nil {
		c.opts.Observer.OnClassified(c, op, in, out)
	}
}

// LogObserver writes observer events to a structured logger. Splits are
// logged at debug level, classifications at info.
type LogObserver struct {
	Logger *slog.Logger
}

// NewLogObserver returns an observer logging to l, or to slog.Default()
// when l is nil.
func NewLogObserver(l *slog.Logger) *LogObserver {
	if l == nil {
		l = slog.Default()
	}
	return &LogObserver{Logger: l}
}

func (o *LogObserver) OnEdgeSplit(c *Context, e, tail EdgeID, sp VertexID) {
	if !o.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	v := c.Vertex(sp)
	o.Logger.Debug("edge split",
		"edge", e,
		"tail", tail,
		"vertex", sp,
		"at", v.Point.String(),
	)
}

func (o *LogObserver) OnTriangleSplit(c *Context, t, nt TriangleID) {
	o.Logger.Debug("triangle split", "triangle", t, "new", nt)
}

func (o *LogObserver) OnClassified(c *Context, op string, in, out int) {
	st := c.Stats()
	o.Logger.Info("classified",
		"op", op,
		"in", in,
		"out", out,
		"vertices", st.Vertices,
		"edges", st.Edges,
		"triangles", st.Triangles,
	)
}

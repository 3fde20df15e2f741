// Package app wires the scene pipeline together: script evaluation,
// tessellation and import into a mesh context.
package app

import (
	"fmt"
	"log/slog"

	"github.com/chazu/raymesh/pkg/config"
	"github.com/chazu/raymesh/pkg/engine"
	"github.com/chazu/raymesh/pkg/graph"
	"github.com/chazu/raymesh/pkg/kernel"
	"github.com/chazu/raymesh/pkg/kernel/poly"
	"github.com/chazu/raymesh/pkg/kernel/sdfx"
	"github.com/chazu/raymesh/pkg/mesh"
	"github.com/chazu/raymesh/pkg/scene"
	"github.com/chazu/raymesh/pkg/tessellate"
)

// App evaluates scene scripts into mesh contexts.
type App struct {
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger
}

// Result is the output of one evaluation. Errors holds script, validation
// and pipeline failures; when it is non-empty Context is nil.
type Result struct {
	Graph    *graph.SceneGraph
	Scene    *scene.Scene
	Context  *mesh.Context
	Errors   []engine.EvalError
	Warnings []engine.EvalWarning
}

// OK reports whether the evaluation produced a context.
func (r *Result) OK() bool {
	return r.Context != nil && len(r.Errors) == 0
}

// NewKernel returns the kernel cfg names.
func NewKernel(cfg config.Config) (kernel.Kernel, error) {
	switch cfg.Kernel {
	case config.KernelPoly:
		return poly.New(), nil
	case config.KernelSdfx:
		return sdfx.New(cfg.MeshCells), nil
	default:
		return nil, fmt.Errorf("app: unknown kernel %q", cfg.Kernel)
	}
}

// New creates an App from cfg. A nil logger uses slog.Default.
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	k, err := NewKernel(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &App{
		cfg:    cfg,
		engine: engine.NewEngine(engine.WithTimeout(cfg.EvalTimeout.Duration)),
		kernel: k,
		log:    log,
	}, nil
}

// NewContext returns an empty context configured from the App settings.
// Debug mode also attaches a logging observer.
func (a *App) NewContext() *mesh.Context {
	opts := a.cfg.MeshOptions()
	if a.cfg.Debug {
		opts.Observer = mesh.NewLogObserver(a.log)
	}
	return mesh.New(opts)
}

func (a *App) fail(res *Result, stage string, err error) *Result {
	a.log.Error("evaluation failed", "stage", stage, "err", err)
	res.Errors = append(res.Errors, engine.EvalError{Message: stage + " failed: " + err.Error()})
	res.Context = nil
	return res
}

// Evaluate runs source through the whole pipeline.
func (a *App) Evaluate(source string) *Result {
	res := &Result{}

	// Step 1: evaluate and validate the script.
	er, err := a.engine.Run(source)
	if err != nil {
		return a.fail(res, "evaluation", err)
	}
	res.Graph, res.Errors, res.Warnings = er.Graph, er.Errors, er.Warnings
	for _, w := range res.Warnings {
		a.log.Warn("scene warning", "node", w.NodeID.Short(), "msg", w.Message)
	}
	if !er.OK() {
		return res
	}

	// Step 2: tessellate the graph into placed objects.
	s, err := tessellate.Tessellate(res.Graph, a.kernel)
	if err != nil {
		return a.fail(res, "tessellation", err)
	}
	res.Scene = s

	// Step 3: import the objects into a mesh context.
	c := a.NewContext()
	if err := c.AddScene(s); err != nil {
		return a.fail(res, "import", err)
	}
	res.Context = c

	st := c.Stats()
	a.log.Info("scene loaded",
		"objects", len(s.Objects),
		"vertices", st.Vertices,
		"edges", st.Edges,
		"triangles", st.Triangles)
	return res
}

package modelo

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/modelo/internal/compiler"
	"github.com/aretw0/modelo/internal/logging"
	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/history"
	"github.com/aretw0/modelo/pkg/model"
	"github.com/aretw0/modelo/pkg/observability"
	"github.com/aretw0/modelo/pkg/registry"
)

// Version is the library version.
//
//go:embed VERSION
var Version string

// ErrUnknownClass is returned when a class name was never compiled.
var ErrUnknownClass = errors.New("unknown class")

// Runtime is the high-level entry point of the library.
// It bundles a model graph with a shared history, the function registry
// declaration files resolve against, and the compiler that loads them.
type Runtime struct {
	graph    *model.Graph
	history  *history.History
	registry *registry.Registry
	compiler *compiler.Compiler
	metrics  *observability.Metrics

	historySize int
	registerer  prometheus.Registerer
	classes     []*attribute.Class
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithRegistry uses reg to resolve delegate and factory names.
func WithRegistry(reg *registry.Registry) Option {
	return func(r *Runtime) {
		r.registry = reg
	}
}

// WithHistorySize bounds the shared history. See history.WithSize.
func WithHistorySize(size int) Option {
	return func(r *Runtime) {
		r.historySize = size
	}
}

// WithMetrics registers dispatch and history collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Runtime) {
		r.registerer = reg
	}
}

// WithClasses makes classes built in code available to Load and NewObject.
func WithClasses(classes ...*attribute.Class) Option {
	return func(r *Runtime) {
		r.classes = append(r.classes, classes...)
	}
}

// New creates a Runtime.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		historySize: history.Unbounded,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = registry.NewRegistry()
	}

	var graphHooks model.Hooks
	var historyHooks history.Hooks
	if r.registerer != nil {
		m, err := observability.NewMetrics(r.registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		r.metrics = m
		graphHooks, historyHooks = m.GraphHooks(), m.HistoryHooks()
	}

	r.graph = model.NewGraph(model.WithLogger(r.logger), model.WithHooks(graphHooks))
	r.history = history.New(
		history.WithSize(r.historySize),
		history.WithLogger(r.logger),
		history.WithHooks(historyHooks),
	)
	r.compiler = compiler.New(r.registry,
		compiler.WithLogger(r.logger),
		compiler.WithClasses(r.classes...),
	)
	return r, nil
}

// Graph returns the graph every model of the runtime lives in.
func (r *Runtime) Graph() *model.Graph { return r.graph }

// History returns the history models created by the runtime record into.
func (r *Runtime) History() *history.History { return r.history }

// Registry returns the function registry.
func (r *Runtime) Registry() *registry.Registry { return r.registry }

// Metrics returns the collectors, or nil when WithMetrics was not given.
func (r *Runtime) Metrics() *observability.Metrics { return r.metrics }

// Load compiles a YAML or JSON declaration file.
func (r *Runtime) Load(path string) ([]*attribute.Class, error) {
	return r.compiler.CompileFile(path)
}

// LoadBytes compiles YAML (or JSON) declarations held in memory.
func (r *Runtime) LoadBytes(data []byte) ([]*attribute.Class, error) {
	return r.compiler.CompileBytes(data)
}

// Class returns a compiled class by name.
func (r *Runtime) Class(name string) (*attribute.Class, bool) {
	return r.compiler.Class(name)
}

// Classes returns the names of every known class, sorted.
func (r *Runtime) Classes() []string {
	return r.compiler.Names()
}

// NewObject instantiates the named class and attaches the runtime history.
// Initial values are not recorded.
func (r *Runtime) NewObject(class string, reqs ...attribute.Request) (*model.Object, error) {
	cls, ok := r.compiler.Class(class)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	obj, err := r.graph.NewObject(cls, reqs...)
	if err != nil {
		return nil, err
	}
	obj.SetHistory(r.history)
	return obj, nil
}

// NewList creates a list that records into the runtime history.
func (r *Runtime) NewList(opts ...model.ListOption) *model.List {
	l := r.graph.NewList(opts...)
	l.SetHistory(r.history)
	return l
}

// Batch groups every change made by fn into one undoable step.
func (r *Runtime) Batch(name string, fn func() error) error {
	return r.history.Batch(name, fn)
}

// Undo reverts the last recorded change.
func (r *Runtime) Undo() error { return r.history.Undo() }

// Redo reapplies the last undone change.
func (r *Runtime) Redo() error { return r.history.Redo() }

// Package enginetest provides an in-memory engine driver for tests.
package enginetest

import (
	"sync"

	"mxbridge/internal/engine"
	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

// Workspace is the fake engine's variable table as seen by an EvalFunc.
type Workspace map[string]*mxarray.Array

// Get returns the stored array for name, or nil.
func (w Workspace) Get(name string) *mxarray.Array {
	return w[name]
}

// Set stores a copy of value under name, replacing any previous binding.
func (w Workspace) Set(name string, value *mxarray.Array) {
	if old, ok := w[name]; ok {
		old.Destroy()
		delete(w, name)
	}
	if c, err := clone(value, nil, name); err == nil {
		w[name] = c
	}
}

// EvalFunc scripts the engine's reaction to an expression. It returns the engine status code.
type EvalFunc func(expr string, ws Workspace) int

// Engine is a scripted fake implementing engine.Driver.
type Engine struct {
	mu sync.Mutex

	// Unavailable makes Open fail.
	Unavailable bool
	// VisibleCode, PutCode and CloseCode are returned by the corresponding handle calls.
	VisibleCode int
	PutCode     int
	CloseCode   int
	// Eval handles EvalString; nil means every expression succeeds and changes nothing.
	Eval        EvalFunc

	ws          Workspace
	expressions []string
	opens       int
	closes      int
	visible     bool
}

func New() *Engine {
	return &Engine{ws: make(Workspace)}
}

func (e *Engine) Open(startCmd string) engine.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Unavailable {
		return nil
	}
	e.opens++
	return &handle{engine: e}
}

// Expressions returns every expression evaluated so far, in order.
func (e *Engine) Expressions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.expressions))
	copy(out, e.expressions)
	return out
}

// Variable returns the engine-side array bound to name, or nil.
func (e *Engine) Variable(name string) *mxarray.Array {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ws.Get(name)
}

// SetVariable binds a copy of value to name as if the engine had computed it.
func (e *Engine) SetVariable(name string, value *mxarray.Array) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ws.Set(name, value)
}

func (e *Engine) Opens() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opens
}

func (e *Engine) Closes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closes
}

func (e *Engine) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

type handle struct {
	engine *Engine
}

func (h *handle) SetVisible(visible bool) int {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if h.engine.VisibleCode == 0 {
		h.engine.visible = visible
	}
	return h.engine.VisibleCode
}

func (h *handle) PutVariable(name string, value *mxarray.Array) int {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if h.engine.PutCode != 0 {
		return h.engine.PutCode
	}
	h.engine.ws.Set(name, value)
	return 0
}

func (h *handle) GetVariable(name string, alloc mxarray.Allocator) (*mxarray.Array, error) {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	value := h.engine.ws.Get(name)
	if value == nil {
		return nil, status.ErrVariableNotFound
	}
	return clone(value, alloc, name)
}

func (h *handle) EvalString(expr string) int {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	h.engine.expressions = append(h.engine.expressions, expr)
	if h.engine.Eval == nil {
		return 0
	}
	return h.engine.Eval(expr, h.engine.ws)
}

func (h *handle) Close() int {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	h.engine.closes++
	return h.engine.CloseCode
}

func clone(value *mxarray.Array, alloc mxarray.Allocator, tag string) (*mxarray.Array, error) {
	out, err := mxarray.New(value.Class(), value.Dimensions(), alloc, tag)
	if err != nil {
		return nil, err
	}
	copy(out.Data(), value.Data())
	return out, nil
}

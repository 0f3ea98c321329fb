package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mxbridge/internal/logger"
	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

const component = "EngineSession"

// Session owns the lifecycle of a single engine connection. The underlying handle is not
// reentrant; every round trip is serialised through the session mutex.
type Session struct {
	mu       sync.Mutex
	driver   Driver
	handle   Handle
	id       string
	startCmd string
	alloc    mxarray.Allocator
	logger   logger.Logger
	// log carries the session id while a connection is open.
	log      logger.Logger
}

type Option func(*Session)

// WithStartCommand sets the command used to launch the engine.
func WithStartCommand(cmd string) Option {
	return func(s *Session) { s.startCmd = cmd }
}

// WithAllocator sets the allocator for arrays fetched from the engine.
func WithAllocator(alloc mxarray.Allocator) Option {
	return func(s *Session) { s.alloc = alloc }
}

func WithLogger(log logger.Logger) Option {
	return func(s *Session) { s.logger = log }
}

func NewSession(driver Driver, opts ...Option) *Session {
	s := &Session{
		driver: driver,
		alloc:  mxarray.DefaultAllocator(),
		logger: logger.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.logger
	return s
}

// Start launches the engine and applies the UI visibility directive. Starting an already
// started session is a no-op.
func (s *Session) Start(showUI bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return nil
	}
	if s.driver == nil {
		return status.Wrap("start engine", status.ErrEngineUnavailable)
	}

	started := time.Now()
	handle := s.driver.Open(s.startCmd)
	if handle == nil {
		s.logger.Error(component, status.ErrEngineUnavailable, map[string]interface{}{
			"start_command": s.startCmd,
		})
		return status.Wrap("start engine", status.ErrEngineUnavailable)
	}

	if code := handle.SetVisible(showUI); code != 0 {
		handle.Close()
		err := status.Wrap("start engine", fmt.Errorf("set visible=%t returned %d: %w", showUI, code, status.ErrEngineConfigFailed))
		s.logger.Error(component, err, nil)
		return err
	}

	s.handle = handle
	s.id = uuid.NewString()
	s.log = s.logger.With(map[string]interface{}{"session_id": s.id})

	s.log.Info(component, "engine started", map[string]interface{}{
		"visible":  showUI,
		"duration": time.Since(started).String(),
	})

	return nil
}

// Shutdown closes the engine connection. Safe on a never-started or already closed session.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return
	}

	if code := s.handle.Close(); code != 0 {
		s.log.Warning(component, "engine close reported failure", map[string]interface{}{
			"code": code,
		})
	}
	s.log.Info(component, "engine shut down", nil)

	s.handle = nil
	s.id = ""
	s.log = s.logger
}

// Ready reports whether the session holds a live handle.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// ID identifies the current connection in logs; empty when not started.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Allocator returns the allocator used for fetched arrays.
func (s *Session) Allocator() mxarray.Allocator {
	return s.alloc
}

// PutVariable binds value to name inside the engine.
func (s *Session) PutVariable(name string, value *mxarray.Array) error {
	if name == "" || value == nil {
		return status.Wrap("put variable", status.ErrNullArgument)
	}
	if !value.HasData() && !value.IsEmpty() {
		return status.Wrap("put variable "+name, fmt.Errorf("%s owns no buffer: %w", value, status.ErrNullArgument))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return status.Wrap("put variable", status.ErrSessionNotReady)
	}

	code := s.handle.PutVariable(name, value)
	s.log.Debug(component, "put variable", map[string]interface{}{
		"name":  name,
		"array": value.String(),
		"code":  code,
	})
	return status.FromRetCode("put variable "+name, code)
}

// GetVariable fetches a copy of the named variable. The caller owns the returned array.
func (s *Session) GetVariable(name string) (*mxarray.Array, error) {
	if name == "" {
		return nil, status.Wrap("get variable", status.ErrNullArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return nil, status.Wrap("get variable", status.ErrSessionNotReady)
	}

	value, err := s.handle.GetVariable(name, s.alloc)
	if err != nil {
		return nil, status.Wrap("get variable "+name, err)
	}
	if value == nil {
		return nil, status.Wrap("get variable "+name, status.ErrVariableNotFound)
	}

	s.log.Debug(component, "got variable", map[string]interface{}{
		"name":  name,
		"array": value.String(),
	})
	return value, nil
}

// Evaluate runs expr inside the engine. It blocks until the engine returns.
func (s *Session) Evaluate(expr string) error {
	if expr == "" {
		return status.Wrap("evaluate", status.ErrNullArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return status.Wrap("evaluate", status.ErrSessionNotReady)
	}

	started := time.Now()
	code := s.handle.EvalString(expr)
	s.log.Debug(component, "evaluated expression", map[string]interface{}{
		"code":     code,
		"duration": time.Since(started).String(),
	})
	return status.FromRetCode("evaluate", code)
}

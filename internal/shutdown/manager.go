package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mxbridge/internal/logger"
)

const component = "ShutdownManager"

// DefaultTimeout bounds how long a single component may take to shut down.
const DefaultTimeout = 10 * time.Second

type Shutdownable interface {
	Shutdown()
}

type entry struct {
	name   string
	target Shutdownable
}

// Manager shuts registered components down in reverse registration order, once.
type Manager struct {
	components []entry
	logger     logger.Logger
	timeout    time.Duration
	mu         sync.Mutex
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewManager(log logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		logger:  log,
		timeout: DefaultTimeout,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetTimeout changes the per-component shutdown timeout.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

func (m *Manager) Register(name string, target Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, entry{name: name, target: target})
}

// Listen shuts everything down on SIGINT or SIGTERM.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info(component, "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
		signal.Stop(sigChan)
	}()
}

func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}

	m.logger.Info(component, "shutdown sequence initiated", map[string]interface{}{
		"components": len(m.components),
	})

	m.cancel()

	for i := len(m.components) - 1; i >= 0; i-- {
		c := m.components[i]

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			c.target.Shutdown()
		}()

		select {
		case <-finished:
			m.logger.Debug(component, "component shut down", map[string]interface{}{
				"component": c.name,
			})
		case <-time.After(m.timeout):
			m.logger.Warning(component, "component shutdown timeout", map[string]interface{}{
				"component": c.name,
				"timeout":   m.timeout.String(),
			})
		}
	}

	m.logger.Info(component, "shutdown sequence completed", nil)
}

// Context is cancelled when shutdown starts.
func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}

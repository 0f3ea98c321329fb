package shutdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mxbridge/internal/engine"
	"mxbridge/internal/engine/enginetest"
	"mxbridge/internal/logger"
)

type recorder struct {
	mu    sync.Mutex
	order *[]string
	name  string
	block chan struct{}
}

func (r *recorder) Shutdown() {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.order = append(*r.order, r.name)
}

func TestShutdownReverseOrderOnce(t *testing.T) {
	var order []string
	m := NewManager(logger.NoOpLogger{})
	m.Register("first", &recorder{order: &order, name: "first"})
	m.Register("second", &recorder{order: &order, name: "second"})

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownTimeout(t *testing.T) {
	var order []string
	block := make(chan struct{})
	defer close(block)

	m := NewManager(logger.NoOpLogger{})
	m.SetTimeout(10 * time.Millisecond)
	m.Register("stuck", &recorder{order: &order, name: "stuck", block: block})
	m.Register("quick", &recorder{order: &order, name: "quick"})

	m.Shutdown()
	assert.Equal(t, []string{"quick"}, order)
}

func TestShutdownClosesEngineSession(t *testing.T) {
	fake := enginetest.New()
	session := engine.NewSession(fake)
	require.NoError(t, session.Start(false))

	m := NewManager(logger.NoOpLogger{})
	m.Register("engine", session)
	m.Shutdown()

	assert.False(t, session.Ready())
	assert.Equal(t, 1, fake.Closes())
}

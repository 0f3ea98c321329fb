package filter

import (
	"sync"
	"time"

	"mxbridge/internal/engine"
	"mxbridge/internal/imaging"
	"mxbridge/internal/logger"
	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

const component = "FilterPipeline"

// Pipeline applies the selected filters through an engine session. Colour and depth
// selections are independent; both start as None. Only colour filters have an algorithm.
type Pipeline struct {
	mu          sync.Mutex
	session     *engine.Session
	colorFilter ID
	depthFilter ID
	params      Params
	logger      logger.Logger
}

type Option func(*Pipeline)

func WithParams(p Params) Option {
	return func(pl *Pipeline) { pl.params = p }
}

func WithLogger(log logger.Logger) Option {
	return func(pl *Pipeline) { pl.logger = log }
}

func NewPipeline(session *engine.Session, opts ...Option) *Pipeline {
	p := &Pipeline{
		session:     session,
		colorFilter: None,
		depthFilter: None,
		params:      DefaultParams(),
		logger:      logger.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) SetColorFilter(id ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.colorFilter = id
}

func (p *Pipeline) SetDepthFilter(id ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.depthFilter = id
}

// Filters returns the current colour and depth selections.
func (p *Pipeline) Filters() (color, depth ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.colorFilter, p.depthFilter
}

// ApplyColorFilter runs the selected colour filter on img, replacing its pixels in place.
// Centroids are returned only by the object-centroid filter. Unknown selections and None
// leave img untouched and succeed.
func (p *Pipeline) ApplyColorFilter(img *mxarray.Array) (Centroids, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil || !p.session.Ready() {
		return nil, status.Wrap("apply color filter", status.ErrSessionNotReady)
	}

	if err := imaging.ValidateRGBImage(img); err != nil {
		return nil, err
	}

	f, ok := colorFilters[p.colorFilter]
	if !ok {
		return nil, nil
	}

	log := p.logger.With(map[string]interface{}{
		"session_id": p.session.ID(),
		"filter":     f.Name(),
	})

	started := time.Now()
	centroids, err := f.Apply(p.session, img, p.params, log)
	if err != nil {
		log.Error(component, err, nil)
		return nil, err
	}

	log.Info(component, "color filter applied", map[string]interface{}{
		"image":     img.String(),
		"centroids": len(centroids),
		"duration":  time.Since(started).String(),
	})

	return centroids, nil
}

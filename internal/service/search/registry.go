package search

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"zerde-web/internal/metrics"
)

// Registry keeps one controller per browser session. Idle sessions expire
// and have their pending searches cancelled.
type Registry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Controller]
	factory  func() *Controller
	metrics  *metrics.Metrics
}

func NewRegistry(size int, ttl time.Duration, factory func() *Controller, m *metrics.Metrics) *Registry {
	onEvict := func(_ string, c *Controller) { c.Cancel() }
	return &Registry{
		sessions: expirable.NewLRU[string, *Controller](size, onEvict, ttl),
		factory:  factory,
		metrics:  m,
	}
}

// Get returns the session's controller, creating it on first use.
func (r *Registry) Get(session string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.sessions.Get(session); ok {
		return c
	}
	c := r.factory()
	r.sessions.Add(session, c)
	r.metrics.SetSearchSessions(r.sessions.Len())
	return c
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

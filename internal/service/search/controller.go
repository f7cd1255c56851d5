// Package search implements the search overlay: open/close state, debounced
// queries and supersession of stale responses by request ticket.
package search

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"zerde-web/internal/domain"
	"zerde-web/internal/metrics"
	"zerde-web/internal/port"
	"zerde-web/internal/service/view"
)

const DefaultDelay = 300 * time.Millisecond

// ErrSuperseded is returned by Await when a newer query replaced the ticket.
var ErrSuperseded = errors.New("search: superseded by a newer query")

type State struct {
	Open    bool
	Query   string
	Results []domain.Item
	Loading bool
	Err     error
	Ticket  uint64
}

// Navigation is where a selected result leads, with the item to hand off.
type Navigation struct {
	Path string
	Item domain.Item
}

type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

type Controller struct {
	searcher port.Searcher
	delay    time.Duration
	log      logrus.FieldLogger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	state   State
	seq     uint64 // newest issued ticket
	applied uint64 // newest ticket whose outcome is in state
	timer   *time.Timer
	changed chan struct{}
}

func NewController(searcher port.Searcher, opts ...Option) *Controller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Controller{
		searcher: searcher,
		delay:    DefaultDelay,
		log:      discard,
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current overlay state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Open = true
	c.broadcast()
}

// Close hides the overlay and keeps the query.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Open = false
	c.broadcast()
}

// ClickOutside behaves like Close.
func (c *Controller) ClickOutside() {
	c.Close()
}

// Cancel is the Escape key: close, clear the query and results, and drop
// any pending or in-flight search.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Type records a keystroke and returns its ticket. A non-empty query is
// searched after the debounce delay unless a newer keystroke arrives first.
func (c *Controller) Type(q string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	ticket := c.seq
	c.stopTimer()
	c.state.Query = q
	c.state.Loading = false

	if strings.TrimSpace(q) == "" {
		c.state.Results = nil
		c.state.Err = nil
		c.applied = ticket
		c.metrics.Search("skipped")
		c.broadcast()
		return ticket
	}

	c.timer = time.AfterFunc(c.delay, func() { c.fire(ticket, q) })
	c.broadcast()
	return ticket
}

// Await blocks until the ticket's outcome is applied, a newer ticket
// replaces it, or ctx is done.
func (c *Controller) Await(ctx context.Context, ticket uint64) (State, error) {
	for {
		c.mu.Lock()
		if ticket < c.seq {
			s := c.snapshot()
			c.mu.Unlock()
			return s, ErrSuperseded
		}
		if c.applied >= ticket {
			s := c.snapshot()
			c.mu.Unlock()
			return s, nil
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return State{}, ctx.Err()
		}
	}
}

// Select closes the overlay, clears it, and returns where the chosen result
// lives. The boolean is false when id is not among the current results.
func (c *Controller) Select(id string) (Navigation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.state.Results {
		if item.ID != id {
			continue
		}
		domain.Annotate(&item)
		nav := Navigation{Path: view.RouteFor(&item), Item: item}
		c.reset()
		return nav, true
	}
	return Navigation{}, false
}

func (c *Controller) fire(ticket uint64, q string) {
	c.mu.Lock()
	if ticket != c.seq {
		c.mu.Unlock()
		return
	}
	c.state.Loading = true
	c.broadcast()
	c.mu.Unlock()

	list, err := c.searcher.SearchItems(context.Background(), q, "")

	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket != c.seq {
		c.metrics.Search("superseded")
		c.log.WithFields(logrus.Fields{"query": q, "ticket": ticket}).Debug("丢弃过期的搜索结果")
		return
	}

	c.state.Loading = false
	if err != nil {
		c.state.Results = nil
		c.state.Err = err
		c.metrics.Search("failed")
		c.log.WithField("query", q).WithError(err).Warn("搜索失败")
	} else {
		c.state.Results = nil
		if list != nil {
			c.state.Results = list.Items
		}
		c.state.Err = nil
		c.metrics.Search("applied")
	}
	c.applied = ticket
	c.broadcast()
}

// reset must be called with mu held.
func (c *Controller) reset() {
	c.seq++
	c.applied = c.seq
	c.stopTimer()
	c.state = State{}
	c.broadcast()
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) broadcast() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) snapshot() State {
	s := c.state
	s.Results = append([]domain.Item(nil), c.state.Results...)
	s.Ticket = c.seq
	return s
}

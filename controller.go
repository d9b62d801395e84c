package omnibox

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/remiges/omnibox/internal/logger"
	"github.com/remiges/omnibox/providers"
)

// UpdateFunc receives each new merged result set. continuous is true
// while providers are still pending and false on the final update of a
// cycle. It is invoked with the controller's internal lock held, so it
// must not call back into the controller or the engine.
type UpdateFunc func(matches []providers.Match, continuous bool)

type controllerState int

const (
	stateIdle controllerState = iota
	stateQuerying
	stateSettled
)

// Controller coordinates one query cycle at a time: it fans input out to
// every provider, merges and ranks the incoming batches, tracks the
// default match and delivers progressive updates. A new Start
// unconditionally cancels the prior cycle; deliveries for a cancelled
// cycle are dropped at the point of delivery.
type Controller struct {
	mu       sync.Mutex
	provs    []providers.Provider
	priority map[string]int
	maxShown int
	onUpdate UpdateFunc
	log      *log.Logger

	state controllerState
	cycle *queryCycle
}

type queryCycle struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	input   providers.Input
	byKey   map[string]providers.Match
	pending map[string]struct{}
	results []providers.Match
}

// NewController creates a controller over the given providers. priority
// maps provider names to tie-break ranks (lower wins); maxShown caps the
// emitted result set, 0 meaning unlimited.
func NewController(provs []providers.Provider, priority []string, maxShown int, onUpdate UpdateFunc) *Controller {
	ranks := make(map[string]int, len(priority))
	for i, name := range priority {
		ranks[name] = i
	}
	return &Controller{
		provs:    provs,
		priority: ranks,
		maxShown: maxShown,
		onUpdate: onUpdate,
		log:      logger.New("controller"),
	}
}

// Start begins a new query cycle, implicitly stopping any in-flight one.
// Synchronous providers deliver before Start returns, so the first update
// already carries their matches.
func (c *Controller) Start(input providers.Input) {
	c.mu.Lock()
	c.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	cy := &queryCycle{
		id:      uuid.NewString()[:8],
		ctx:     ctx,
		cancel:  cancel,
		input:   input,
		byKey:   make(map[string]providers.Match),
		pending: make(map[string]struct{}, len(c.provs)),
	}
	for _, p := range c.provs {
		cy.pending[p.Name()] = struct{}{}
	}
	c.cycle = cy
	c.state = stateQuerying
	c.mu.Unlock()

	c.log.Debug("cycle start", "cycle", cy.id, "text", input.Text, "type", input.Type)
	for _, p := range c.provs {
		p.Start(cy.ctx, input, c.deliverFunc(cy, p.Name()))
	}
}

// Stop cancels the current cycle, stops every provider and discards the
// accumulated result set. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.state = stateIdle
}

func (c *Controller) stopLocked() {
	if c.cycle == nil {
		return
	}
	c.log.Debug("cycle stop", "cycle", c.cycle.id)
	c.cycle.cancel()
	c.cycle = nil
	for _, p := range c.provs {
		p.Stop()
	}
}

// Active reports whether a cycle is currently in flight or settled but
// not yet stopped.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle != nil
}

// Settled reports whether the current cycle has heard back from every
// provider. It is false while providers are pending and after Stop.
func (c *Controller) Settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateSettled
}

// Results returns the current cycle's merged, ranked matches.
func (c *Controller) Results() []providers.Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cycle == nil {
		return nil
	}
	out := make([]providers.Match, len(c.cycle.results))
	copy(out, c.cycle.results)
	return out
}

// DefaultMatch returns the highest-relevance match that is allowed to be
// the default, used for inline completion and Enter-key navigation.
func (c *Controller) DefaultMatch() (providers.Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cycle == nil {
		return providers.Match{}, false
	}
	for _, m := range c.cycle.results {
		if m.AllowedToBeDefault {
			return m, true
		}
	}
	return providers.Match{}, false
}

// deliverFunc binds a provider's emissions to one cycle. Deliveries for a
// superseded or cancelled cycle are no-ops.
func (c *Controller) deliverFunc(cy *queryCycle, name string) providers.EmitFunc {
	return func(matches []providers.Match, done bool) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.cycle != cy || cy.ctx.Err() != nil {
			return
		}
		c.mergeLocked(cy, matches)
		if done {
			delete(cy.pending, name)
		}
		settled := len(cy.pending) == 0
		if settled {
			c.state = stateSettled
		}
		cy.results = c.rankedLocked(cy)
		if c.onUpdate != nil {
			c.onUpdate(cy.results, !settled)
		}
	}
}

// mergeLocked folds a batch into the accumulated set keyed by DedupKey.
// The first writer owns the non-relevance fields; relevance, inline
// completion and default eligibility come from whichever candidate scored
// higher.
func (c *Controller) mergeLocked(cy *queryCycle, matches []providers.Match) {
	for _, m := range matches {
		key := m.DedupKey
		if key == "" {
			key = m.DestinationURL
		}
		existing, ok := cy.byKey[key]
		if !ok {
			cy.byKey[key] = m
			continue
		}
		if m.Relevance > existing.Relevance {
			existing.Relevance = m.Relevance
			existing.InlineCompletion = m.InlineCompletion
			existing.AllowedToBeDefault = m.AllowedToBeDefault
			cy.byKey[key] = existing
		}
	}
}

func (c *Controller) rankedLocked(cy *queryCycle) []providers.Match {
	out := make([]providers.Match, 0, len(cy.byKey))
	for _, m := range cy.byKey {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		ri, rj := c.rank(out[i].Provider), c.rank(out[j].Provider)
		if ri != rj {
			return ri < rj
		}
		return out[i].DedupKey < out[j].DedupKey
	})
	if c.maxShown > 0 && len(out) > c.maxShown {
		out = out[:c.maxShown]
	}
	return out
}

func (c *Controller) rank(provider string) int {
	if r, ok := c.priority[provider]; ok {
		return r
	}
	return len(c.priority)
}

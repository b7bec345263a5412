package permission

import (
	"sync"

	"github.com/pkordes/mealmate/internal/domain"
)

// Gate tracks which capabilities the client has granted and keeps one
// Pending action per capability that is still waiting. Safe for concurrent use.
type Gate struct {
	mu      sync.Mutex
	granted map[domain.Capability]bool
	pending map[domain.Capability]*Pending
}

// NewGate returns a Gate with the given capabilities already granted.
func NewGate(granted ...domain.Capability) *Gate {
	g := &Gate{
		granted: make(map[domain.Capability]bool),
		pending: make(map[domain.Capability]*Pending),
	}
	for _, c := range granted {
		g.granted[c] = true
	}
	return g
}

// Granted reports whether c has been granted.
func (g *Gate) Granted(c domain.Capability) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted[c]
}

// Run calls fn right away when c is granted and reports true. Otherwise it
// parks fn until Resolve is called for c, replacing any action already parked
// for c, and reports false.
func (g *Gate) Run(c domain.Capability, fn func()) bool {
	g.mu.Lock()
	if g.granted[c] {
		g.mu.Unlock()
		fn()
		return true
	}
	p, ok := g.pending[c]
	if !ok {
		p = &Pending{}
		g.pending[c] = p
	}
	p.Request(fn)
	g.mu.Unlock()
	return false
}

// Resolve records the client's answer for c. A grant is remembered for later
// Run calls and resumes the parked action, if any; a denial abandons it.
// It returns the state of c's pending action after the answer, Idle when
// nothing was ever parked.
func (g *Gate) Resolve(c domain.Capability, granted bool) State {
	g.mu.Lock()
	if granted {
		g.granted[c] = true
	} else {
		delete(g.granted, c)
	}
	p, ok := g.pending[c]
	if !ok {
		g.mu.Unlock()
		return Idle
	}
	fn := p.Resolve(granted)
	state := p.State()
	g.mu.Unlock()

	// Run outside the lock so the resumed action may use the Gate.
	if fn != nil {
		fn()
	}
	return state
}

// Awaiting lists the capabilities that have an action waiting for an answer.
func (g *Gate) Awaiting() []domain.Capability {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []domain.Capability
	for _, c := range []domain.Capability{domain.CapabilityLocation, domain.CapabilitySendMessage} {
		if p, ok := g.pending[c]; ok && p.State() == AwaitingGrant {
			out = append(out, c)
		}
	}
	return out
}

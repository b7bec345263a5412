// Package permission parks actions that need a capability the client has not
// granted yet, and resumes or abandons them once the client answers.
package permission

// State is the lifecycle of a Pending action.
type State int

const (
	Idle State = iota
	AwaitingGrant
	Resumed
	Abandoned
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingGrant:
		return "awaiting_grant"
	case Resumed:
		return "resumed"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Pending holds at most one parked action.
//
// The resume closure carries its own argument snapshot. A Request made while
// another is awaiting replaces it: the last request wins. Pending is not safe
// for concurrent use; Gate wraps it with a lock.
type Pending struct {
	state  State
	resume func()
}

// State returns the current lifecycle state.
func (p *Pending) State() State {
	return p.state
}

// Request parks resume and moves to AwaitingGrant.
func (p *Pending) Request(resume func()) {
	p.resume = resume
	p.state = AwaitingGrant
}

// Resolve answers the outstanding request. When granted, the parked closure is
// returned for the caller to run and the state becomes Resumed; when denied,
// the closure is dropped and the state becomes Abandoned.
//
// Resolving when nothing is awaiting returns nil and changes nothing, so a
// repeated answer is harmless.
func (p *Pending) Resolve(granted bool) func() {
	if p.state != AwaitingGrant {
		return nil
	}
	fn := p.resume
	p.resume = nil
	if !granted {
		p.state = Abandoned
		return nil
	}
	p.state = Resumed
	return fn
}

package fallback

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// State names which target answers persistence calls.
type State int

const (
	// StateRemote routes calls to the remote database.
	StateRemote State = iota
	// StateFallback routes calls to the local snapshot store. Terminal for
	// the session: there is no promotion back to StateRemote before restart,
	// even if the database becomes reachable again. Known limitation.
	StateFallback
)

func (s State) String() string {
	if s == StateRemote {
		return "remote"
	}
	return "fallback"
}

// policy is the one-way downgrade state machine. Demotion is triggered by an
// unreachable/unconfigured remote at startup, a failed startup probe, or any
// remote operation failing mid-session.
type policy struct {
	mu     sync.Mutex
	state  State
	logger *log.Entry
}

func newPolicy(initial State, logger *log.Entry) *policy {
	return &policy{state: initial, logger: logger}
}

func (p *policy) current() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// demote moves to StateFallback. The transition is logged once; repeated
// calls after the switch are no-ops.
func (p *policy) demote(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateFallback {
		return
	}
	p.state = StateFallback
	p.logger.WithError(err).WithField("op", op).
		Warn("remote target failed, switching to local target for the rest of the session")
}

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/scriptedit/bridge/src/bridge/entity"
	"github.com/scriptedit/bridge/src/bridge/internal/clock"
	"github.com/scriptedit/bridge/src/bridge/mapper"
	"github.com/scriptedit/bridge/src/bridge/model"
	"github.com/uber-go/tally"
)

// Repository stores the callback session of the most recent successful handshake.
// Only one session is kept; a new handshake replaces the previous one.
type Repository interface {
	Record(ctx context.Context, s entity.Session) error
	Current(ctx context.Context) (*entity.Session, bool)
}

type repository struct {
	mu      sync.Mutex
	current *model.Session
	clock   clock.Clock
	stats   tally.Scope
}

// New returns a repository holding at most one Session.
func New(stats tally.Scope, clk clock.Clock) Repository {
	return &repository{
		clock: clk,
		stats: stats,
	}
}

// Record replaces the stored session.
func (r *repository) Record(ctx context.Context, s entity.Session) error {
	if s.PeerAddress == "" {
		return fmt.Errorf("can't record session without peer address")
	}
	if s.CallbackPort < 1 || s.CallbackPort > 65535 {
		return fmt.Errorf("can't record session with callback port %d", s.CallbackPort)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = mapper.SessionToModel(&s, r.clock.Now())
	r.stats.Counter("sessions.recorded").Inc(1)
	return nil
}

// Current returns the last recorded session, if any.
func (r *repository) Current(ctx context.Context) (*entity.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return nil, false
	}
	return mapper.ModelToSession(r.current), true
}

// Package guard gates a page view behind an authenticated session and keeps it
// in step with sign-out, expiry and refresh notifications from the auth service.
package guard

import (
	"context"
	"sync"

	"finlit-platform/auth"
	"finlit-platform/logging"
	"finlit-platform/models"

	"go.uber.org/zap"
)

// State is where a page view stands with respect to its session.
type State int

const (
	Initializing State = iota
	Ready
	// Redirecting is terminal for the page view.
	Redirecting
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Redirecting:
		return "redirecting"
	}
	return "unknown"
}

// Options configure the callbacks a page view reacts with. Callbacks are
// serialized and must not call Close.
type Options struct {
	// OnAuthenticated runs on every transition to, or identity update in, Ready.
	OnAuthenticated func(models.Session)
	// OnUnauthenticated runs at most once, when the guard starts redirecting.
	OnUnauthenticated func()
	Logger            *zap.Logger
}

// Guard gates one page view. Create it with New, then Start it.
type Guard struct {
	client auth.Client
	opts   Options
	logger *zap.Logger

	// emitMu serializes event handling and callbacks.
	emitMu sync.Mutex

	mu       sync.Mutex
	state    State
	session  *models.Session
	notified bool
	started  bool
	closed   bool
	sub      auth.Subscription
	cancel   context.CancelFunc

	settled     chan struct{}
	settledOnce sync.Once
	fetchDone   chan struct{}
}

// New returns an Initializing guard; nothing happens until Start.
func New(client auth.Client, opts Options) *Guard {
	return &Guard{
		client:    client,
		opts:      opts,
		logger:    logging.OrNop(opts.Logger),
		settled:   make(chan struct{}),
		fetchDone: make(chan struct{}),
	}
}

// Start subscribes to session changes and begins fetching the current session.
// It returns immediately; the guard stays Initializing until the first decision.
func (g *Guard) Start(ctx context.Context) {
	g.mu.Lock()
	if g.started || g.closed {
		g.mu.Unlock()
		return
	}
	g.started = true
	ctx, g.cancel = context.WithCancel(ctx)
	g.mu.Unlock()

	sub := g.client.SubscribeToSessionChanges(g.onChange)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		sub.Unsubscribe()
		close(g.fetchDone)
		return
	}
	if g.state == Redirecting {
		// A notification redirected before we could store the subscription.
		g.mu.Unlock()
		sub.Unsubscribe()
		close(g.fetchDone)
		return
	}
	g.sub = sub
	g.mu.Unlock()

	go func() {
		defer close(g.fetchDone)
		sess, err := g.client.GetCurrentSession(ctx)
		g.onFetch(ctx, sess, err)
	}()
}

func (g *Guard) onFetch(ctx context.Context, sess *models.Session, err error) {
	g.emitMu.Lock()
	defer g.emitMu.Unlock()

	g.mu.Lock()
	if g.closed || g.notified || g.state != Initializing || ctx.Err() != nil {
		// A notification already decided, or the view is gone.
		g.mu.Unlock()
		return
	}
	if err != nil || !sess.IsAuthenticated() {
		if err != nil {
			g.logger.Debug("session fetch failed, redirecting", zap.Error(err))
		}
		g.redirectLocked()
		return
	}
	g.readyLocked(sess)
}

func (g *Guard) onChange(sess *models.Session) {
	g.emitMu.Lock()
	defer g.emitMu.Unlock()

	g.mu.Lock()
	if g.closed || g.state == Redirecting {
		g.mu.Unlock()
		return
	}
	g.notified = true
	if !sess.IsAuthenticated() {
		g.redirectLocked()
		return
	}
	g.readyLocked(sess)
}

// readyLocked is called with mu held and releases it before running the callback.
func (g *Guard) readyLocked(sess *models.Session) {
	c := *sess
	g.session = &c
	g.state = Ready
	g.mu.Unlock()

	g.settle()
	if g.opts.OnAuthenticated != nil {
		g.opts.OnAuthenticated(c)
	}
}

// redirectLocked is called with mu held and releases it before running the callback.
func (g *Guard) redirectLocked() {
	g.session = nil
	g.state = Redirecting
	sub := g.sub
	g.sub = nil
	g.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	g.settle()
	if g.opts.OnUnauthenticated != nil {
		g.opts.OnUnauthenticated()
	}
}

func (g *Guard) settle() {
	g.settledOnce.Do(func() { close(g.settled) })
}

// Close tears the guard down. After it returns no callback runs and the
// state no longer changes. Safe to call more than once and before Start.
func (g *Guard) Close() {
	g.emitMu.Lock()
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.emitMu.Unlock()
		return
	}
	g.closed = true
	sub, cancel, started := g.sub, g.cancel, g.started
	g.sub = nil
	g.mu.Unlock()
	g.emitMu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	if !started {
		close(g.fetchDone)
	}
	g.settle()
}

// SignOut asks the auth service to end the session. The redirect arrives through
// the change notification, the same path an external expiry takes.
func (g *Guard) SignOut(ctx context.Context) error {
	return g.client.SignOut(ctx)
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the identity of a Ready guard.
func (g *Guard) Session() (models.Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Ready || g.session == nil {
		return models.Session{}, false
	}
	return *g.session, true
}

// Settled is closed once the guard leaves Initializing or is closed.
func (g *Guard) Settled() <-chan struct{} { return g.settled }

// Wait blocks until the guard settles. A guard closed while Initializing
// reports Initializing.
func (g *Guard) Wait(ctx context.Context) (State, error) {
	select {
	case <-g.settled:
		return g.State(), nil
	case <-ctx.Done():
		return g.State(), ctx.Err()
	}
}

// Done is closed once the initial fetch goroutine has exited.
func (g *Guard) Done() <-chan struct{} { return g.fetchDone }

package guard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"finlit-platform/auth"
	"finlit-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fetchResult struct {
	sess *models.Session
	err  error
}

type fakeClient struct {
	fetch chan fetchResult

	mu           sync.Mutex
	subs         map[int]func(*models.Session)
	next         int
	unsubscribed int
	signOuts     int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		fetch: make(chan fetchResult, 1),
		subs:  make(map[int]func(*models.Session)),
	}
}

func (f *fakeClient) GetCurrentSession(ctx context.Context) (*models.Session, error) {
	select {
	case r := <-f.fetch:
		return r.sess, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeSub struct {
	f    *fakeClient
	id   int
	once sync.Once
}

func (s *fakeSub) Unsubscribe() {
	s.once.Do(func() {
		s.f.mu.Lock()
		delete(s.f.subs, s.id)
		s.f.unsubscribed++
		s.f.mu.Unlock()
	})
}

func (f *fakeClient) SubscribeToSessionChanges(fn func(*models.Session)) auth.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.subs[f.next] = fn
	return &fakeSub{f: f, id: f.next}
}

func (f *fakeClient) notify(sess *models.Session) {
	f.mu.Lock()
	fns := make([]func(*models.Session), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}

func (f *fakeClient) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeClient) SignInWithPassword(context.Context, string, string) (*models.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) SignUp(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (f *fakeClient) SignOut(context.Context) error {
	f.mu.Lock()
	f.signOuts++
	f.mu.Unlock()
	return nil
}

type recorder struct {
	mu        sync.Mutex
	ready     []models.Session
	redirects int
}

func (r *recorder) options() Options {
	return Options{
		OnAuthenticated: func(s models.Session) {
			r.mu.Lock()
			r.ready = append(r.ready, s)
			r.mu.Unlock()
		},
		OnUnauthenticated: func() {
			r.mu.Lock()
			r.redirects++
			r.mu.Unlock()
		},
	}
}

func (r *recorder) counts() (ready, redirects int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ready), r.redirects
}

func ann() *models.Session {
	return &models.Session{ID: "s1", SubjectID: "u1", Email: "ann@example.com"}
}

func waitDone(t *testing.T, g *Guard) {
	t.Helper()
	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the session fetch")
	}
}

func TestGuard_NoSessionRedirectsOnce(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())
	defer g.Close()

	g.Start(context.Background())
	assert.Equal(t, Initializing, g.State())
	_, ok := g.Session()
	assert.False(t, ok)

	c.fetch <- fetchResult{}
	waitDone(t, g)

	state, err := g.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Redirecting, state)
	ready, redirects := rec.counts()
	assert.Zero(t, ready)
	assert.Equal(t, 1, redirects)
	assert.Zero(t, c.active(), "redirect releases the subscription")
}

func TestGuard_FetchErrorRedirects(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())
	defer g.Close()

	g.Start(context.Background())
	c.fetch <- fetchResult{err: auth.ErrAuthFetchFailed}
	waitDone(t, g)

	assert.Equal(t, Redirecting, g.State())
	_, redirects := rec.counts()
	assert.Equal(t, 1, redirects)
}

func TestGuard_SessionBecomesReady(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())
	defer g.Close()

	g.Start(context.Background())
	c.fetch <- fetchResult{sess: ann()}
	waitDone(t, g)

	assert.Equal(t, Ready, g.State())
	s, ok := g.Session()
	require.True(t, ok)
	assert.Equal(t, "u1", s.SubjectID)
	assert.Equal(t, "ann@example.com", s.Email)
	ready, redirects := rec.counts()
	assert.Equal(t, 1, ready)
	assert.Zero(t, redirects)
}

func TestGuard_LaterSignOutRedirectsExactlyOnce(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())
	defer g.Close()

	g.Start(context.Background())
	c.fetch <- fetchResult{sess: ann()}
	waitDone(t, g)

	c.notify(ann())
	c.notify(&models.Session{ID: "s1", SubjectID: "u1", Email: "ann@new.example.com"})
	s, _ := g.Session()
	assert.Equal(t, "ann@new.example.com", s.Email, "last notification wins on identity")

	c.notify(nil)
	c.notify(nil)
	c.notify(ann())

	assert.Equal(t, Redirecting, g.State())
	ready, redirects := rec.counts()
	assert.Equal(t, 3, ready)
	assert.Equal(t, 1, redirects)
}

func TestGuard_NotificationBeforeFetchWins(t *testing.T) {
	t.Run("signed out first", func(t *testing.T) {
		c := newFakeClient()
		rec := &recorder{}
		g := New(c, rec.options())
		defer g.Close()

		g.Start(context.Background())
		c.notify(nil)
		c.fetch <- fetchResult{sess: ann()}
		waitDone(t, g)

		assert.Equal(t, Redirecting, g.State())
		ready, redirects := rec.counts()
		assert.Zero(t, ready)
		assert.Equal(t, 1, redirects)
	})

	t.Run("session first", func(t *testing.T) {
		c := newFakeClient()
		rec := &recorder{}
		g := New(c, rec.options())
		defer g.Close()

		g.Start(context.Background())
		c.notify(ann())
		c.fetch <- fetchResult{}
		waitDone(t, g)

		assert.Equal(t, Ready, g.State())
		ready, redirects := rec.counts()
		assert.Equal(t, 1, ready)
		assert.Zero(t, redirects)
	})
}

func TestGuard_CloseBeforeFetchSuppressesEverything(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())

	g.Start(context.Background())
	g.Close()
	assert.Zero(t, c.active())

	c.notify(nil)
	c.fetch <- fetchResult{}
	waitDone(t, g)

	assert.Equal(t, Initializing, g.State())
	ready, redirects := rec.counts()
	assert.Zero(t, ready)
	assert.Zero(t, redirects)

	state, err := g.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Initializing, state)
}

func TestGuard_CloseAfterReady(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())

	g.Start(context.Background())
	c.fetch <- fetchResult{sess: ann()}
	waitDone(t, g)

	g.Close()
	g.Close()
	c.notify(nil)

	assert.Equal(t, Ready, g.State())
	assert.Zero(t, c.active())
	assert.Equal(t, 1, c.unsubscribed)
	_, redirects := rec.counts()
	assert.Zero(t, redirects)
}

func TestGuard_CloseWithoutStart(t *testing.T) {
	c := newFakeClient()
	g := New(c, Options{})
	g.Close()
	g.Start(context.Background())

	waitDone(t, g)
	assert.Zero(t, c.active())
}

func TestGuard_CancelledContextDiscardsFetch(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	g.Start(ctx)
	cancel()
	waitDone(t, g)

	assert.Equal(t, Initializing, g.State())
	_, redirects := rec.counts()
	assert.Zero(t, redirects)
}

func TestGuard_WaitHonoursContext(t *testing.T) {
	c := newFakeClient()
	g := New(c, Options{})
	defer g.Close()
	g.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	state, err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Initializing, state)
}

func TestGuard_SignOutDoesNotRedirectByItself(t *testing.T) {
	c := newFakeClient()
	rec := &recorder{}
	g := New(c, rec.options())
	defer g.Close()

	g.Start(context.Background())
	c.fetch <- fetchResult{sess: ann()}
	waitDone(t, g)

	require.NoError(t, g.SignOut(context.Background()))
	assert.Equal(t, 1, c.signOuts)
	assert.Equal(t, Ready, g.State())

	c.notify(nil)
	assert.Equal(t, Redirecting, g.State())
}

func TestGuard_WithAuthService(t *testing.T) {
	svc := auth.NewService(auth.NewMemoryStore(), auth.Options{
		Secret:     []byte(strings.Repeat("k", 32)),
		BcryptCost: bcrypt.MinCost,
	})
	ctx := context.Background()
	_, err := svc.SignUp(ctx, "ann@example.com", "password123")
	require.NoError(t, err)
	sess, err := svc.SignIn(ctx, "ann@example.com", "password123", auth.ClientMeta{})
	require.NoError(t, err)

	rec := &recorder{}
	g := New(auth.NewClient(svc, sess.AccessToken, auth.ClientMeta{}), rec.options())
	defer g.Close()
	g.Start(ctx)

	state, err := g.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, Ready, state)
	assert.Equal(t, 1, svc.Broker().Subscribers(sess.ID))

	require.NoError(t, g.SignOut(ctx))
	assert.Equal(t, Redirecting, g.State())
	_, redirects := rec.counts()
	assert.Equal(t, 1, redirects)
	assert.Zero(t, svc.Broker().Subscribers(sess.ID))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "initializing", Initializing.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "redirecting", Redirecting.String())
	assert.Equal(t, "unknown", State(9).String())
}

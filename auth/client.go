package auth

import (
	"context"
	"sync"

	"finlit-platform/models"
)

// Subscription is released with Unsubscribe; releasing twice is a no-op.
type Subscription interface {
	Unsubscribe()
}

// Client is the auth collaborator as seen by one page view. Every method may fail.
type Client interface {
	// GetCurrentSession returns nil, nil when nobody is signed in.
	GetCurrentSession(ctx context.Context) (*models.Session, error)
	// SubscribeToSessionChanges invokes fn with the new session, or nil on
	// sign-out and expiry.
	SubscribeToSessionChanges(fn func(*models.Session)) Subscription
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

// ServiceClient binds a Service to the access token carried by one viewer.
type ServiceClient struct {
	svc  *Service
	meta ClientMeta

	mu    sync.Mutex
	token string
}

// ClientMeta describes the device a session was created from.
type ClientMeta struct {
	Device string
	IP     string
}

func NewClient(svc *Service, token string, meta ClientMeta) *ServiceClient {
	return &ServiceClient{svc: svc, token: token, meta: meta}
}

// Token returns the current access token, which changes after a sign-in.
func (c *ServiceClient) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *ServiceClient) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *ServiceClient) GetCurrentSession(ctx context.Context) (*models.Session, error) {
	return c.svc.Session(ctx, c.Token())
}

func (c *ServiceClient) SubscribeToSessionChanges(fn func(*models.Session)) Subscription {
	claims, err := c.svc.tokens.Parse(c.Token())
	if err != nil {
		// Nothing to watch; the initial fetch will report no session.
		return noopSubscription{}
	}
	return c.svc.Subscribe(claims.SessionID, fn)
}

func (c *ServiceClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	sess, err := c.svc.SignIn(ctx, email, password, c.meta)
	if err != nil {
		return nil, err
	}
	c.setToken(sess.AccessToken)
	return sess, nil
}

func (c *ServiceClient) SignUp(ctx context.Context, email, password string) error {
	_, err := c.svc.SignUp(ctx, email, password)
	return err
}

func (c *ServiceClient) SignOut(ctx context.Context) error {
	if err := c.svc.SignOut(ctx, c.Token()); err != nil {
		return err
	}
	c.setToken("")
	return nil
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

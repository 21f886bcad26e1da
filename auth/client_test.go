package auth

import (
	"context"
	"testing"

	"finlit-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceClient_Lifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := NewClient(svc, "", ClientMeta{Device: "browser"})

	got, err := c.GetCurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.SignUp(ctx, "ann@example.com", "password123"))
	sess, err := c.SignInWithPassword(ctx, "ann@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, sess.AccessToken, c.Token())

	got, err = c.GetCurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ann@example.com", got.Email)

	var events []*models.Session
	sub := c.SubscribeToSessionChanges(func(s *models.Session) { events = append(events, s) })
	defer sub.Unsubscribe()

	require.NoError(t, c.SignOut(ctx))
	assert.Empty(t, c.Token())
	require.Len(t, events, 1)
	assert.Nil(t, events[0])
}

func TestServiceClient_SubscribeWithoutToken(t *testing.T) {
	svc, _ := newTestService(t)
	c := NewClient(svc, "garbage", ClientMeta{})
	sub := c.SubscribeToSessionChanges(func(*models.Session) {})
	assert.NotPanics(t, sub.Unsubscribe)
}

func TestServiceClient_BadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	c := NewClient(svc, "", ClientMeta{})
	_, err := c.SignInWithPassword(context.Background(), "ann@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthActionFailed)
	assert.Empty(t, c.Token())
}

func TestMessage_Fallback(t *testing.T) {
	assert.Equal(t, "Something went wrong, please try again.", Message(assert.AnError))
}

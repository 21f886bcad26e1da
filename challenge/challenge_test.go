package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitApplied(t *testing.T, a *Attempt) {
	t.Helper()
	select {
	case <-a.Applied():
	case <-time.After(time.Second):
		t.Fatal("points were never applied")
	}
}

func finalPoints(t *testing.T, choice string) int {
	t.Helper()
	a := NewAttempt(DefaultCard(), 100, time.Millisecond)
	_, err := a.Answer(choice)
	require.NoError(t, err)
	waitApplied(t, a)
	return a.Points()
}

func TestAttempt_CorrectBeatsIncorrect(t *testing.T) {
	correct := finalPoints(t, "Drop")
	assert.Equal(t, 150, correct)
	for _, wrong := range []string{"Nothing", "Rise"} {
		got := finalPoints(t, wrong)
		assert.Equal(t, 95, got)
		assert.Greater(t, correct, got)
	}
}

func TestAttempt_DelayBeforePoints(t *testing.T) {
	a := NewAttempt(DefaultCard(), 100, 50*time.Millisecond)
	res, err := a.Answer("Drop")
	require.NoError(t, err)

	assert.True(t, res.IsCorrect)
	assert.Equal(t, 50, res.AwardedPoints)
	assert.True(t, a.Revealed(), "reveal is immediate")
	assert.Equal(t, 100, a.Points(), "points wait for the reveal")

	waitApplied(t, a)
	assert.Equal(t, 150, a.Points())
	assert.Contains(t, a.Explanation(), "right choice")
}

func TestAttempt_CannotBeRescored(t *testing.T) {
	a := NewAttempt(DefaultCard(), 100, 0)
	_, err := a.Answer("Rise")
	require.NoError(t, err)
	assert.Equal(t, 95, a.Points())

	prev, err := a.Answer("Drop")
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, "Rise", prev.ChosenAnswer)
	assert.Equal(t, 95, a.Points())

	res, ok := a.Result()
	require.True(t, ok)
	assert.False(t, res.IsCorrect)
}

func TestAttempt_UnknownChoiceKeepsAttemptOpen(t *testing.T) {
	a := NewAttempt(DefaultCard(), 100, 0)
	_, err := a.Answer("Sideways")
	assert.ErrorIs(t, err, ErrUnknownChoice)
	assert.False(t, a.Revealed())
	assert.Empty(t, a.Explanation())

	_, err = a.Answer("Drop")
	assert.NoError(t, err)
}

func TestAttempt_StopCancelsPendingPoints(t *testing.T) {
	a := NewAttempt(DefaultCard(), 100, 20*time.Millisecond)
	_, err := a.Answer("Drop")
	require.NoError(t, err)
	a.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 100, a.Points())
	select {
	case <-a.Applied():
		t.Fatal("stopped attempt applied points")
	default:
	}
}

func TestAttempt_PointsNeverNegative(t *testing.T) {
	a := NewAttempt(DefaultCard(), 2, 0)
	_, err := a.Answer("Nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Points())
}

func TestRegistry_OpenGetClose(t *testing.T) {
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour, func() time.Time { return now })

	a := NewAttempt(DefaultCard(), 100, 0)
	id := r.Open("u1", a)

	got, ok := r.Get(id, "u1")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Get(id, "u2")
	assert.False(t, ok, "attempts are private to their viewer")

	r.Close(id)
	_, ok = r.Get(id, "u1")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	now := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Minute, func() time.Time { return now })

	id := r.Open("u1", NewAttempt(DefaultCard(), 100, 0))
	r.Open("u1", NewAttempt(DefaultCard(), 100, 0))
	assert.Zero(t, r.Sweep())

	now = now.Add(2 * time.Minute)
	_, ok := r.Get(id, "u1")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Sweep())
	assert.Zero(t, r.Len())
}

func TestCard_Validate(t *testing.T) {
	require.NoError(t, DefaultCard().Validate())

	penaltyOnly := DefaultCard()
	penaltyOnly.Reward = 0
	assert.NoError(t, penaltyOnly.Validate(), "a wrong answer still scores lower")

	missing := DefaultCard()
	missing.Correct = "Crash"
	assert.ErrorIs(t, missing.Validate(), ErrInvalidCard)

	empty := DefaultCard()
	empty.Choices = nil
	assert.ErrorIs(t, empty.Validate(), ErrInvalidCard)

	flat := DefaultCard()
	flat.Reward, flat.Penalty = 0, 0
	assert.ErrorIs(t, flat.Validate(), ErrInvalidCard)
}

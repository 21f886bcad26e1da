// Package challenge scores the daily challenge card: one answer per page visit,
// with the point change applied after a short reveal delay.
package challenge

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"finlit-platform/models"
)

var (
	ErrAlreadyAnswered = errors.New("challenge already answered")
	ErrUnknownChoice   = errors.New("unknown answer")
	ErrInvalidCard     = errors.New("invalid challenge card")
)

type Card struct {
	ID           string            `json:"id" yaml:"id"`
	Prompt       string            `json:"prompt" yaml:"prompt"`
	Choices      []string          `json:"choices" yaml:"choices"`
	Correct      string            `json:"-" yaml:"correct"`
	Reward       int               `json:"reward" yaml:"reward"`
	Penalty      int               `json:"penalty" yaml:"penalty"`
	Explanations map[string]string `json:"-" yaml:"explanations"`
}

// Validate checks that the correct answer is one of the choices and that it
// scores strictly higher than a wrong one.
func (c Card) Validate() error {
	switch {
	case len(c.Choices) == 0:
		return fmt.Errorf("%w: no choices", ErrInvalidCard)
	case !slices.Contains(c.Choices, c.Correct):
		return fmt.Errorf("%w: correct answer %q is not a choice", ErrInvalidCard, c.Correct)
	case c.Reward < 0 || c.Penalty < 0:
		return fmt.Errorf("%w: reward and penalty must not be negative", ErrInvalidCard)
	case c.Reward == 0 && c.Penalty == 0:
		return fmt.Errorf("%w: reward or penalty must be positive", ErrInvalidCard)
	}
	return nil
}

// MaxPoints is the top of the daily progress bar.
const MaxPoints = 200

// StartingPoints is the balance a visit starts from.
const StartingPoints = 100

// Attempt is the Unanswered -> Answered state machine of one page visit.
type Attempt struct {
	card  Card
	delay time.Duration

	mu      sync.Mutex
	points  int
	answer  *models.ChallengeAttempt
	timer   *time.Timer
	applied chan struct{}
	stopped bool
}

func NewAttempt(card Card, startPoints int, delay time.Duration) *Attempt {
	return &Attempt{
		card:    card,
		delay:   delay,
		points:  startPoints,
		applied: make(chan struct{}),
	}
}

func (a *Attempt) Card() Card { return a.card }

// Answer records the choice and reveals the result. The point change lands
// after the reveal delay. Unknown choices leave the attempt unanswered.
func (a *Attempt) Answer(choice string) (models.ChallengeAttempt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.answer != nil {
		return *a.answer, ErrAlreadyAnswered
	}
	if !slices.Contains(a.card.Choices, choice) {
		return models.ChallengeAttempt{}, ErrUnknownChoice
	}

	res := models.ChallengeAttempt{ChosenAnswer: choice, IsCorrect: choice == a.card.Correct}
	if res.IsCorrect {
		res.AwardedPoints = a.card.Reward
	} else {
		res.AwardedPoints = -a.card.Penalty
	}
	a.answer = &res

	if a.stopped {
		return res, nil
	}
	if a.delay <= 0 {
		a.applyLocked()
	} else {
		a.timer = time.AfterFunc(a.delay, a.apply)
	}
	return res, nil
}

func (a *Attempt) apply() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.stopped {
		a.applyLocked()
	}
}

func (a *Attempt) applyLocked() {
	a.points += a.answer.AwardedPoints
	if a.points < 0 {
		a.points = 0
	}
	close(a.applied)
}

// Result returns the recorded answer, if any.
func (a *Attempt) Result() (models.ChallengeAttempt, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.answer == nil {
		return models.ChallengeAttempt{}, false
	}
	return *a.answer, true
}

// Revealed reports whether the card has been flipped.
func (a *Attempt) Revealed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.answer != nil
}

func (a *Attempt) Points() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.points
}

// Explanation is the text shown on the back of the card.
func (a *Attempt) Explanation() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.answer == nil {
		return ""
	}
	return a.card.Explanations[a.answer.ChosenAnswer]
}

// Applied is closed once the point change has landed.
func (a *Attempt) Applied() <-chan struct{} { return a.applied }

// Stop cancels a pending point change.
func (a *Attempt) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
	}
}

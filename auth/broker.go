package auth

import (
	"sync"

	"finlit-platform/models"
)

// Broker fans session-change notifications out to the page views watching a session.
// Callbacks run on the publisher's goroutine and must not publish.
type Broker struct {
	pubMu sync.Mutex // keeps notifications for a subscriber in publish order

	mu     sync.Mutex
	nextID uint64
	topics map[string]map[uint64]func(*models.Session)
}

func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[uint64]func(*models.Session))}
}

func (b *Broker) Subscribe(sessionID string, fn func(*models.Session)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	subs := b.topics[sessionID]
	if subs == nil {
		subs = make(map[uint64]func(*models.Session))
		b.topics[sessionID] = subs
	}
	subs[id] = fn
	return &subscription{broker: b, topic: sessionID, id: id}
}

// Publish delivers sess (nil for "signed out") to every subscriber of sessionID.
func (b *Broker) Publish(sessionID string, sess *models.Session) {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.mu.Lock()
	fns := make([]func(*models.Session), 0, len(b.topics[sessionID]))
	for _, fn := range b.topics[sessionID] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		var copied *models.Session
		if sess != nil {
			c := *sess
			c.AccessToken = ""
			copied = &c
		}
		fn(copied)
	}
}

// Subscribers reports how many callbacks are registered for sessionID.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[sessionID])
}

func (b *Broker) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[topic]
	delete(subs, id)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
}

type subscription struct {
	broker *Broker
	topic  string
	id     uint64
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.broker.remove(s.topic, s.id) })
}

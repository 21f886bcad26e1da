package prefs

import (
	"sync"
	"testing"

	"finlit-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DefaultsAndToggles(t *testing.T) {
	s := NewStore(models.Preferences{SidebarCollapsed: true})

	assert.Equal(t, models.Preferences{SidebarCollapsed: true}, s.Get("u1"))

	p := s.ToggleDarkMode("u1")
	assert.True(t, p.DarkMode)
	assert.True(t, p.SidebarCollapsed)

	p = s.ToggleSidebar("u1")
	assert.False(t, p.SidebarCollapsed)
	assert.Equal(t, p, s.Get("u1"))

	assert.Equal(t, models.Preferences{SidebarCollapsed: true}, s.Get("u2"), "viewers are independent")
}

func TestStore_SubscribersSeeChanges(t *testing.T) {
	s := NewStore(models.Preferences{})

	var got []models.Preferences
	cancel := s.Subscribe(func(subject string, p models.Preferences) {
		assert.Equal(t, "u1", subject)
		got = append(got, p)
	})

	s.ToggleDarkMode("u1")
	s.Update("u1", func(p *models.Preferences) {}) // no change, no event
	s.ToggleDarkMode("u1")
	require.Len(t, got, 2)
	assert.True(t, got[0].DarkMode)
	assert.False(t, got[1].DarkMode)

	cancel()
	cancel()
	s.ToggleDarkMode("u1")
	assert.Len(t, got, 2)
}

func TestStore_InitAndReset(t *testing.T) {
	s := NewStore(models.Preferences{})
	s.ToggleDarkMode("u1")

	calls := 0
	s.Subscribe(func(string, models.Preferences) { calls++ })

	s.Init(models.Preferences{DarkMode: true})
	assert.True(t, s.Get("u1").DarkMode)
	s.ToggleSidebar("u1")
	assert.Equal(t, 1, calls, "Init keeps subscribers")

	s.Reset()
	assert.Equal(t, models.Preferences{DarkMode: true}, s.Get("u1"))
	s.ToggleSidebar("u1")
	assert.Equal(t, 1, calls, "Reset drops subscribers")
}

func TestStore_UnsubscribeFromListener(t *testing.T) {
	s := NewStore(models.Preferences{})
	var cancel func()
	calls := 0
	cancel = s.Subscribe(func(string, models.Preferences) {
		calls++
		cancel()
	})
	s.ToggleDarkMode("u1")
	s.ToggleDarkMode("u1")
	assert.Equal(t, 1, calls)
}

func TestStore_ConcurrentToggles(t *testing.T) {
	s := NewStore(models.Preferences{})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleDarkMode("u1")
		}()
	}
	wg.Wait()
	assert.False(t, s.Get("u1").DarkMode, "an even number of toggles ends where it started")
}

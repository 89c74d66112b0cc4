package progression

import (
	"fmt"
	"sync"
)

// LevelProvider reports the player's current mining progression level.
// Slots unlock as this level rises.
type LevelProvider interface {
	CurrentLevel() int
}

// Tracker is a settable LevelProvider for hosts that keep the level in memory.
type Tracker struct {
	mu    sync.RWMutex
	level int
}

// NewTracker creates a tracker at the given starting level
func NewTracker(level int) (*Tracker, error) {
	if level < 0 {
		return nil, fmt.Errorf("progression level cannot be negative")
	}
	return &Tracker{level: level}, nil
}

// CurrentLevel returns the current level
func (t *Tracker) CurrentLevel() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.level
}

// SetLevel changes the level (building upgrades, debug tooling)
func (t *Tracker) SetLevel(level int) error {
	if level < 0 {
		return fmt.Errorf("progression level cannot be negative")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.level = level
	return nil
}

// FixedLevel is a LevelProvider that never changes
type FixedLevel int

func (l FixedLevel) CurrentLevel() int { return int(l) }

package fleet

import "fmt"

// CollectPolicy decides what happens to cargo that does not fit into the store
type CollectPolicy string

const (
	// CollectTruncate delivers what fits and discards the rest. The unit always returns to Idle.
	CollectTruncate CollectPolicy = "truncate"

	// CollectRetain delivers what fits and keeps the remainder on board.
	// The unit stays Ready until a later collection empties it.
	CollectRetain CollectPolicy = "retain"
)

// ParseCollectPolicy converts a config string to a policy
func ParseCollectPolicy(s string) (CollectPolicy, error) {
	switch CollectPolicy(s) {
	case CollectTruncate, "":
		return CollectTruncate, nil
	case CollectRetain:
		return CollectRetain, nil
	default:
		return "", fmt.Errorf("unknown collect policy %q (expected truncate or retain)", s)
	}
}

// Config holds the tunable fleet parameters
type Config struct {
	Size               int
	UnitCapacity       float64
	LoadRate           float64
	TravelTimePerDepth int
	Policy             CollectPolicy
}

// DefaultConfig returns the baseline tuning
func DefaultConfig() Config {
	return Config{
		Size:               3,
		UnitCapacity:       100,
		LoadRate:           40,
		TravelTimePerDepth: 10,
		Policy:             CollectTruncate,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("fleet size must be at least 1")
	}
	if c.UnitCapacity <= 0 {
		return fmt.Errorf("unit capacity must be positive")
	}
	if c.LoadRate <= 0 {
		return fmt.Errorf("load rate must be positive")
	}
	if c.TravelTimePerDepth < 0 {
		return fmt.Errorf("travel time per depth cannot be negative")
	}
	if _, err := ParseCollectPolicy(string(c.Policy)); err != nil {
		return err
	}
	return nil
}

// TravelTime returns the one-way travel time to a field at the given depth
func (c Config) TravelTime(depthIndex int) int {
	return (depthIndex + 1) * c.TravelTimePerDepth
}

package storage

import "fmt"

// ErrCapacityExceeded indicates a deposit larger than the current headroom
type ErrCapacityExceeded struct {
	ResourceID string
	Requested  float64
	Headroom   float64
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("deposit of %.2f %s exceeds headroom %.2f", e.Requested, e.ResourceID, e.Headroom)
}

// ErrInsufficientStock indicates a withdrawal larger than current stock
type ErrInsufficientStock struct {
	ResourceID string
	Requested  float64
	Available  float64
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient %s: need %.2f, have %.2f", e.ResourceID, e.Requested, e.Available)
}

// ErrInvalidAmount indicates a negative or non-finite quantity
type ErrInvalidAmount struct {
	ResourceID string
	Amount     float64
}

func (e *ErrInvalidAmount) Error() string {
	return fmt.Sprintf("invalid amount %v for %s", e.Amount, e.ResourceID)
}

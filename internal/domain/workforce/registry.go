package workforce

import (
	"fmt"
	"sync"
)

// ErrWorkerNotFound indicates a worker id is not in the registry
type ErrWorkerNotFound struct {
	WorkerID string
}

func (e *ErrWorkerNotFound) Error() string {
	return fmt.Sprintf("worker not found: %s", e.WorkerID)
}

// Registry is the single authority over worker records.
// Other subsystems look workers up by id and change them only through
// the explicit mutation methods below.
//
// Thread-Safety:
// All access is protected by a mutex so the host's worker subsystem and the
// production core can share one registry.
type Registry struct {
	mu      sync.RWMutex
	workers map[string]*Worker
	order   []string
}

// NewRegistry creates a registry seeded with workers
func NewRegistry(workers ...Worker) (*Registry, error) {
	r := &Registry{workers: make(map[string]*Worker)}
	for _, w := range workers {
		if err := r.Add(w); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a new worker
func (r *Registry) Add(w Worker) error {
	if w.ID == "" {
		return fmt.Errorf("worker id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workers[w.ID]; exists {
		return fmt.Errorf("worker already registered: %s", w.ID)
	}

	copied := w
	r.workers[w.ID] = &copied
	r.order = append(r.order, w.ID)
	return nil
}

// Remove drops a worker from the registry. Slots still pointing at the
// worker are cleaned up by the next production tick.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workers[id]; !exists {
		return false
	}
	delete(r.workers, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the worker record
func (r *Registry) Get(id string) (Worker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[id]
	if !ok {
		return Worker{}, false
	}
	return *w, true
}

// All returns copies of every worker in registration order
func (r *Registry) All() []Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Worker, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.workers[id])
	}
	return result
}

// SetAssignment records the job a worker is doing
func (r *Registry) SetAssignment(id, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return &ErrWorkerNotFound{WorkerID: id}
	}
	w.AssignmentTag = tag
	return nil
}

// ClearAssignment removes the worker's job tag.
// Returns true only if a tag was actually cleared.
func (r *Registry) ClearAssignment(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok || w.AssignmentTag == "" {
		return false
	}
	w.AssignmentTag = ""
	return true
}

// SetStrikeDays is the hook the labor subsystem uses to report owed strike days
func (r *Registry) SetStrikeDays(id string, days int) error {
	if days < 0 {
		return fmt.Errorf("strike days cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return &ErrWorkerNotFound{WorkerID: id}
	}
	w.StrikeDaysOwed = days
	return nil
}

// SetInjured is the hook the hospital subsystem uses to report injuries
func (r *Registry) SetInjured(id string, injured bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return &ErrWorkerNotFound{WorkerID: id}
	}
	w.Injured = injured
	return nil
}

// Replace swaps the whole roster, keeping the first record of a duplicated id.
// It returns the number of records dropped.
func (r *Registry) Replace(workers []Worker) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	r.workers = make(map[string]*Worker, len(workers))
	r.order = make([]string, 0, len(workers))
	for _, w := range workers {
		if _, exists := r.workers[w.ID]; exists || w.ID == "" {
			dropped++
			continue
		}
		copied := w
		r.workers[w.ID] = &copied
		r.order = append(r.order, w.ID)
	}
	return dropped
}

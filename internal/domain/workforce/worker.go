package workforce

import "fmt"

// Worker is a recruited worker as seen by the production core.
// Hiring, salaries, strikes and injuries are decided by other subsystems;
// the core reads eligibility and efficiency and owns only the assignment tag.
type Worker struct {
	ID                string
	Name              string
	JobClassification string
	Efficiency        float64
	StrikeDaysOwed    int
	Injured           bool
	AssignmentTag     string
}

// NewWorker creates a worker with validation
func NewWorker(id, name, job string, efficiency float64) (Worker, error) {
	if id == "" {
		return Worker{}, fmt.Errorf("worker id cannot be empty")
	}
	if job == "" {
		return Worker{}, fmt.Errorf("job classification cannot be empty")
	}
	if efficiency < 0 {
		return Worker{}, fmt.Errorf("efficiency cannot be negative")
	}
	return Worker{
		ID:                id,
		Name:              name,
		JobClassification: job,
		Efficiency:        efficiency,
	}, nil
}

// Eligible reports whether the worker may produce.
// Workers owing strike days or recovering from an injury may not.
func (w Worker) Eligible() bool {
	return w.StrikeDaysOwed <= 0 && !w.Injured
}

// IsAssigned returns true if the worker currently holds a job tag
func (w Worker) IsAssigned() bool {
	return w.AssignmentTag != ""
}

func (w Worker) String() string {
	return fmt.Sprintf("Worker[%s, job=%s, eff=%.1f, strike=%d, injured=%t, tag=%q]",
		w.ID, w.JobClassification, w.Efficiency, w.StrikeDaysOwed, w.Injured, w.AssignmentTag)
}

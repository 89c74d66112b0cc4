package mining

import "github.com/andrescamacho/mythic-mines/internal/domain/workforce"

// AssignmentPrefix marks worker assignment tags owned by the mining core
const AssignmentPrefix = "mining:"

// AssignmentTag returns the tag a worker carries while working a field
func AssignmentTag(fieldID string) string {
	return AssignmentPrefix + fieldID
}

// WorkerDirectory is the view of the worker registry a field needs during production:
// id lookup plus the one mutation the core is allowed to make on eviction.
type WorkerDirectory interface {
	Get(id string) (workforce.Worker, bool)
	ClearAssignment(id string) bool
}

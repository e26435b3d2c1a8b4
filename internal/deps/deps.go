package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external tool and the command cleaver expects to
// reach it with.
type Requirement struct {
	Name    string
	Command string
	Purpose string
}

// Status is the outcome of resolving one requirement on this system.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Check resolves every requirement and reports availability. Absolute
// commands are checked in place; bare names go through the PATH.
func Check(requirements []Requirement) []Status {
	statuses := make([]Status, len(requirements))
	for i, req := range requirements {
		statuses[i] = resolve(req)
	}
	return statuses
}

func resolve(req Requirement) Status {
	status := Status{Requirement: req}
	status.Command = strings.TrimSpace(req.Command)

	if status.Command == "" {
		status.Detail = "no command configured"
		return status
	}
	if _, err := exec.LookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("%q not found", status.Command)
		return status
	}
	status.Available = true
	return status
}

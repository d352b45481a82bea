package gitexec

import (
	"fmt"
	"strings"
)

// CommandError represents a failed git invocation. Output carries the
// combined stdout/stderr with any registered secrets redacted.
type CommandError struct {
	Args    []string
	Output  string
	Message string
	Cause   error
}

func (e *CommandError) Error() string {
	cmd := "git " + strings.Join(e.Args, " ")
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", cmd, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", cmd, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

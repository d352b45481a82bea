package provision

import "fmt"

// ProviderError represents an unrecoverable failure against the hosting
// provider during provisioning: repository creation, materialization, or the
// push. It is fatal to the job; there is no compensating rollback of
// resources created before the failure.
type ProviderError struct {
	TaskID  string
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provisioning failed for %s: %s: %v", e.TaskID, e.Message, e.Cause)
	}
	return fmt.Sprintf("provisioning failed for %s: %s", e.TaskID, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

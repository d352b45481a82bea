package types

import "time"

// JobState identifies where a job currently is in its linear lifecycle.
type JobState string

// Job lifecycle states. Transitions are strictly forward; Done is reached
// whenever provisioning and publishing complete, regardless of the
// best-effort polling and reporting outcomes.
const (
	StateReceived     JobState = "received"
	StateGenerating   JobState = "generating"
	StateProvisioning JobState = "provisioning"
	StatePublishing   JobState = "publishing"
	StatePolling      JobState = "polling"
	StateReporting    JobState = "reporting"
	StateDone         JobState = "done"
	StateFailed       JobState = "failed"
)

// Terminal reports whether the state ends the job lifecycle.
func (s JobState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// JobStatus is the registry record for one job. It is written only by the
// job's own goroutine and read by the status endpoint.
type JobStatus struct {
	JobID             string    `json:"job_id"`
	TaskID            string    `json:"task"`
	State             JobState  `json:"state"`
	RepoURL           string    `json:"repo_url,omitempty"`
	PagesURL          string    `json:"pages_url,omitempty"`
	CommitSHA         string    `json:"commit_sha,omitempty"`
	ArtifactFiles     int       `json:"artifact_files,omitempty"`
	FallbackArtifact  bool      `json:"fallback_artifact,omitempty"`
	PagesLive         bool      `json:"pages_live,omitempty"`
	CallbackDelivered bool      `json:"callback_delivered,omitempty"`
	Error             string    `json:"error,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

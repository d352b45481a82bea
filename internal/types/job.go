// Package types provides type definitions for the data that flows through the deploy-agent pipeline.
package types

// JobRequest is the validated job descriptor handed to the pipeline by the
// front door. Identity fields (Email, Round, Nonce) are opaque to the
// pipeline and forwarded verbatim in the ResultRecord.
type JobRequest struct {
	Email       string `json:"email"`
	TaskID      string `json:"task"`
	Round       int    `json:"round"`
	Nonce       string `json:"nonce"`
	Brief       string `json:"brief"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// HasCallback reports whether the caller supplied a callback endpoint.
// Absence suppresses result reporting.
func (j *JobRequest) HasCallback() bool {
	return j.CallbackURL != ""
}

// ResultRecord is the terminal artifact of a job, delivered to the callback
// endpoint. It echoes the caller-identity fields from the request and adds
// the pipeline outputs. Immutable once constructed.
type ResultRecord struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// NewResultRecord builds the result record for a completed job from the
// request identity and the provisioning/publication outputs.
func NewResultRecord(job *JobRequest, repo *ProvisionedRepo, target *PublicationTarget) *ResultRecord {
	return &ResultRecord{
		Email:     job.Email,
		Task:      job.TaskID,
		Round:     job.Round,
		Nonce:     job.Nonce,
		RepoURL:   repo.HTMLURL,
		CommitSHA: repo.CommitSHA,
		PagesURL:  target.PagesURL,
	}
}

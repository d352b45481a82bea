package types

// ProvisionedRepo is the outcome of repository provisioning: the created
// remote repository and the commit that was pushed to it. Created once per
// job and never mutated after the push completes.
type ProvisionedRepo struct {
	Name       string `json:"name"`
	HTMLURL    string `json:"html_url"`
	CommitSHA  string `json:"commit_sha"`
	RemoteName string `json:"remote_name"`
}

// PublicationTarget describes where the published artifact is expected to be
// reachable. PagesURL is derived deterministically from the account and
// repository name before any publication call is made, so it is available
// even when enablement cannot be confirmed. Confirmed records whether the
// provider acknowledged enablement on any path.
type PublicationTarget struct {
	PagesURL  string `json:"pages_url"`
	Confirmed bool   `json:"confirmed"`
}

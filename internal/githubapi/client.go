// Package githubapi provides a minimal client for the GitHub REST API
// covering the calls the deployment pipeline needs: repository lookup,
// deletion, creation, Pages enablement, and the settings fallback.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultTimeout is the per-call HTTP timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the agent to the API.
const DefaultUserAgent = "deploy-agent/1.0"

// maxResponseBytes bounds how much of an API response body is read.
const maxResponseBytes = 1 << 20

// Repo is the subset of the repository object the pipeline uses.
type Repo struct {
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Options configures the client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults for talking to github.com.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client calls the GitHub REST API on behalf of one account.
type Client struct {
	baseURL   string
	account   string
	token     string
	userAgent string
	http      *http.Client
}

// NewClient creates a client authenticated as the given account.
func NewClient(account, token string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:   baseURL,
		account:   account,
		token:     token,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Account returns the account name the client acts as.
func (c *Client) Account() string {
	return c.account
}

// RemoteURL returns the authenticated push URL for a repository, with the
// token embedded as userinfo. Never log this value.
func (c *Client) RemoteURL(repo string) string {
	return fmt.Sprintf("https://%s@github.com/%s/%s.git", c.token, c.account, repo)
}

// RepoExists reports whether the account already has a repository with the
// given name.
func (c *Client) RepoExists(ctx context.Context, repo string) (bool, error) {
	path := fmt.Sprintf("/repos/%s/%s", c.account, repo)
	status, _, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &APIError{Method: http.MethodGet, Path: path, StatusCode: status, Message: "unexpected status"}
	}
}

// DeleteRepo removes a repository. A missing repository is not an error, so
// the call is safe to make without a prior existence check.
func (c *Client) DeleteRepo(ctx context.Context, repo string) error {
	path := fmt.Sprintf("/repos/%s/%s", c.account, repo)
	status, body, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNoContent || status == http.StatusNotFound {
		return nil
	}
	return &APIError{Method: http.MethodDelete, Path: path, StatusCode: status, Body: body, Message: "failed to delete repository"}
}

// createRepoRequest is the creation payload: always public, never
// auto-initialized so the first push owns the full history.
type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

// CreateRepo creates a fresh public, non-auto-initialized repository.
func (c *Client) CreateRepo(ctx context.Context, repo, description string) (*Repo, error) {
	path := "/user/repos"
	payload := createRepoRequest{
		Name:        repo,
		Description: description,
		Private:     false,
		AutoInit:    false,
	}

	status, body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, &APIError{Method: http.MethodPost, Path: path, StatusCode: status, Body: body, Message: "failed to create repository"}
	}

	var created Repo
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		return nil, &APIError{Method: http.MethodPost, Path: path, StatusCode: status, Message: "failed to decode created repository", Cause: err}
	}
	if created.HTMLURL == "" {
		created.HTMLURL = fmt.Sprintf("https://github.com/%s/%s", c.account, repo)
	}
	return &created, nil
}

// enablePagesRequest selects which branch and path Pages serves from.
type enablePagesRequest struct {
	Source struct {
		Branch string `json:"branch"`
		Path   string `json:"path"`
	} `json:"source"`
}

// EnablePages turns on static publishing for the given branch, serving from
// the repository root. 201 (created) and 409 (already enabled) both count as
// success.
func (c *Client) EnablePages(ctx context.Context, repo, branch string) error {
	path := fmt.Sprintf("/repos/%s/%s/pages", c.account, repo)
	var payload enablePagesRequest
	payload.Source.Branch = branch
	payload.Source.Path = "/"

	status, body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if status == http.StatusCreated || status == http.StatusConflict {
		return nil
	}
	return &APIError{Method: http.MethodPost, Path: path, StatusCode: status, Body: body, Message: "failed to enable pages"}
}

// SetHasPages flips the has_pages repository setting, the fallback path when
// the Pages endpoint refuses.
func (c *Client) SetHasPages(ctx context.Context, repo string) error {
	path := fmt.Sprintf("/repos/%s/%s", c.account, repo)
	payload := map[string]bool{"has_pages": true}

	status, body, err := c.do(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	return &APIError{Method: http.MethodPatch, Path: path, StatusCode: status, Body: body, Message: "failed to update repository settings"}
}

// do issues one API request and returns the status code and a bounded read
// of the body. Transport failures are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, string, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, "", &APIError{Method: method, Path: path, Message: "failed to encode request body", Cause: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, "", &APIError{Method: method, Path: path, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", &APIError{Method: method, Path: path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, "", &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	return resp.StatusCode, string(body), nil
}

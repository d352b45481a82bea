// Package provision creates the remote repository for a job, materializes
// the generated artifact into a local working tree, and pushes the initial
// commit. Provisioning is the one pipeline stage whose failure fails the
// whole job.
package provision

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/deploy-agent/internal/gitexec"
	"github.com/jonathan/deploy-agent/internal/githubapi"
	"github.com/jonathan/deploy-agent/internal/types"
)

const (
	// DefaultBranch is the branch the artifact is pushed to and Pages
	// serves from.
	DefaultBranch = "main"

	// CommitMessage is the fixed message for the initial commit.
	CommitMessage = "Initial commit: LLM-generated application"

	// RemoteName is the name the push remote is registered under.
	RemoteName = "origin"

	// deleteSettleDelay is how long to wait after deleting an existing
	// repository before recreating it under the same name. Provider-side
	// deletion is eventually consistent and cannot be confirmed, so this
	// fixed pause is a documented limitation, not a guarantee.
	deleteSettleDelay = 2 * time.Second

	// maxDescriptionLen bounds the repository description.
	maxDescriptionLen = 100

	// fallbackDescription is used when the brief is empty.
	fallbackDescription = "LLM-generated app"
)

// RepoAPI is the provider surface the provisioner needs.
type RepoAPI interface {
	RepoExists(ctx context.Context, repo string) (bool, error)
	DeleteRepo(ctx context.Context, repo string) error
	CreateRepo(ctx context.Context, repo, description string) (*githubapi.Repo, error)
	RemoteURL(repo string) string
}

// gitClient is the working-tree surface the provisioner needs; satisfied by
// *gitexec.Runner.
type gitClient interface {
	Init(ctx context.Context) error
	ConfigureIdentity(ctx context.Context, name, email string) error
	CheckoutBranch(ctx context.Context, branch string) error
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	HeadSHA(ctx context.Context) (string, error)
	AddRemote(ctx context.Context, name, url string) error
	Push(ctx context.Context, remote, branch string) error
}

// Provisioner creates and populates one repository per job.
type Provisioner struct {
	github  RepoAPI
	account string
	branch  string

	// newGit and sleep are swapped out in tests.
	newGit func(dir string) (gitClient, error)
	sleep  func(time.Duration)
}

// NewProvisioner creates a provisioner acting as the given account. The
// token is registered with the git runner so it never appears in command
// errors or logs.
func NewProvisioner(github RepoAPI, account, token string) *Provisioner {
	return &Provisioner{
		github:  github,
		account: account,
		branch:  DefaultBranch,
		newGit: func(dir string) (gitClient, error) {
			return gitexec.NewRunner(dir, token)
		},
		sleep: time.Sleep,
	}
}

// Provision replaces any existing repository named after the task, writes
// the artifact plus license and readme into workDir, and pushes the initial
// commit. Unrecoverable remote failures return *ProviderError; the caller
// owns workDir and its cleanup.
func (p *Provisioner) Provision(ctx context.Context, job *types.JobRequest, artifact *types.Artifact, workDir string) (*types.ProvisionedRepo, error) {
	repo, err := p.replaceRepo(ctx, job)
	if err != nil {
		return nil, err
	}

	if err := p.materialize(workDir, job, artifact); err != nil {
		return nil, &ProviderError{TaskID: job.TaskID, Message: "failed to materialize working tree", Cause: err}
	}

	sha, err := p.commitAndPush(ctx, job.TaskID, workDir)
	if err != nil {
		// The created repository is left in place; no rollback.
		return nil, err
	}

	log.Printf("[%s] Pushed commit %s to %s", job.TaskID, sha, repo.HTMLURL)

	return &types.ProvisionedRepo{
		Name:       repo.Name,
		HTMLURL:    repo.HTMLURL,
		CommitSHA:  sha,
		RemoteName: RemoteName,
	}, nil
}

// replaceRepo deletes any existing repository with the task's name, waits
// for the deletion to settle, and creates a fresh one.
func (p *Provisioner) replaceRepo(ctx context.Context, job *types.JobRequest) (*githubapi.Repo, error) {
	exists, err := p.github.RepoExists(ctx, job.TaskID)
	if err != nil {
		return nil, &ProviderError{TaskID: job.TaskID, Message: "failed to look up repository", Cause: err}
	}

	if exists {
		log.Printf("[%s] Repository already exists, deleting...", job.TaskID)
		if err := p.github.DeleteRepo(ctx, job.TaskID); err != nil {
			return nil, &ProviderError{TaskID: job.TaskID, Message: "failed to delete existing repository", Cause: err}
		}
		p.sleep(deleteSettleDelay)
	}

	repo, err := p.github.CreateRepo(ctx, job.TaskID, describeRepo(job.Brief))
	if err != nil {
		return nil, &ProviderError{TaskID: job.TaskID, Message: "failed to create repository", Cause: err}
	}

	log.Printf("[%s] Created repository: %s", job.TaskID, repo.HTMLURL)
	return repo, nil
}

// commitAndPush initializes the working tree, commits everything under a
// deterministic identity, and pushes over the authenticated remote.
func (p *Provisioner) commitAndPush(ctx context.Context, taskID, workDir string) (string, error) {
	git, err := p.newGit(workDir)
	if err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "git unavailable", Cause: err}
	}

	if err := git.Init(ctx); err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to initialize repository", Cause: err}
	}
	if err := git.ConfigureIdentity(ctx, p.account, p.account+"@users.noreply.github.com"); err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to configure committer identity", Cause: err}
	}
	if err := git.CheckoutBranch(ctx, p.branch); err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to create branch", Cause: err}
	}
	if err := git.AddAll(ctx); err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to stage files", Cause: err}
	}
	if err := git.Commit(ctx, CommitMessage); err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to commit", Cause: err}
	}

	sha, err := git.HeadSHA(ctx)
	if err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to resolve commit identifier", Cause: err}
	}

	if err := git.AddRemote(ctx, RemoteName, p.github.RemoteURL(taskID)); err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to add remote", Cause: err}
	}
	if err := git.Push(ctx, RemoteName, p.branch); err != nil {
		return "", &ProviderError{TaskID: taskID, Message: "failed to push", Cause: err}
	}

	return sha, nil
}

// describeRepo derives the repository description from the brief, truncated
// to the provider's sensible display length.
func describeRepo(brief string) string {
	if brief == "" {
		return fallbackDescription
	}
	runes := []rune(brief)
	if len(runes) > maxDescriptionLen {
		return string(runes[:maxDescriptionLen])
	}
	return brief
}

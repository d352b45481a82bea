// Package pipeline provides the high-level orchestration for one deployment
// job: generate the artifact, provision and push the repository, enable
// publication, wait for the site, and report the result. Stages run strictly
// in order; the two best-effort stages (polling, reporting) can degrade but
// never fail the job.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonathan/deploy-agent/internal/jobstore"
	"github.com/jonathan/deploy-agent/internal/types"
)

// Producer generates the deployable artifact for a job. Production never
// fails: degraded generation yields the fallback artifact.
type Producer interface {
	Produce(ctx context.Context, job *types.JobRequest) *types.Artifact
}

// Provisioner creates the remote repository and pushes the artifact.
type Provisioner interface {
	Provision(ctx context.Context, job *types.JobRequest, artifact *types.Artifact, workDir string) (*types.ProvisionedRepo, error)
}

// Publisher enables static publishing, best-effort.
type Publisher interface {
	Publish(ctx context.Context, repo string) *types.PublicationTarget
}

// Poller waits for the published site to respond, best-effort.
type Poller interface {
	AwaitReady(ctx context.Context, url string, maxWait time.Duration) bool
}

// Reporter delivers the result record to the callback, best-effort.
type Reporter interface {
	Report(ctx context.Context, callbackURL string, record *types.ResultRecord) bool
}

// ProgressEvent describes one stage transition. The artifact is attached
// once generation completes and nil before that.
type ProgressEvent struct {
	Stage    types.JobState
	Artifact *types.Artifact
}

// ProgressCallback is called as the job advances, for CLI progress output.
type ProgressCallback func(event ProgressEvent)

// Options holds orchestrator settings.
type Options struct {
	// MaxPagesWait bounds the readiness poll. Zero uses the poller default.
	MaxPagesWait time.Duration
	// WorkRoot is where per-job working directories are created. Empty
	// means the system temp directory.
	WorkRoot string
	// OnProgress, when set, receives each stage transition.
	OnProgress ProgressCallback
}

// Pipeline sequences the deployment stages for one job at a time. It holds
// no per-job state, so a pipeline instance is shared safely by concurrently
// running jobs.
type Pipeline struct {
	producer    Producer
	provisioner Provisioner
	publisher   Publisher
	poller      Poller
	reporter    Reporter
	store       *jobstore.Store
	opts        Options
}

// New wires a pipeline from its stage implementations.
func New(producer Producer, provisioner Provisioner, publisher Publisher, poller Poller, reporter Reporter, store *jobstore.Store, opts Options) *Pipeline {
	return &Pipeline{
		producer:    producer,
		provisioner: provisioner,
		publisher:   publisher,
		poller:      poller,
		reporter:    reporter,
		store:       store,
		opts:        opts,
	}
}

// setState mirrors a stage transition into the registry and the progress
// callback.
func (p *Pipeline) setState(taskID string, state types.JobState, artifact *types.Artifact) {
	p.store.SetState(taskID, state)
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(ProgressEvent{Stage: state, Artifact: artifact})
	}
}

// Run executes the full pipeline for one job. The returned error reports
// the job's own outcome to the direct caller (the CLI, or a log line for
// detached jobs); it never carries a panic and every stage failure has
// already been logged and recorded in the registry by the time Run returns.
func (p *Pipeline) Run(ctx context.Context, job *types.JobRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
			log.Printf("[%s] Error: %v", job.TaskID, err)
			p.store.SetError(job.TaskID, err.Error())
		}
	}()

	log.Printf("[%s] Starting deployment", job.TaskID)

	workDir, err := os.MkdirTemp(p.opts.WorkRoot, "deploy-"+job.TaskID+"-*")
	if err != nil {
		err = fmt.Errorf("failed to create working directory: %w", err)
		p.store.SetError(job.TaskID, err.Error())
		return err
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Printf("[%s] Warning: failed to remove working directory: %v", job.TaskID, rmErr)
		}
	}()

	// Generate. Never fails; a degraded producer hands back the fallback.
	p.setState(job.TaskID, types.StateGenerating, nil)
	artifact := p.producer.Produce(ctx, job)
	p.store.Update(job.TaskID, func(s *types.JobStatus) {
		s.ArtifactFiles = artifact.Len()
		s.FallbackArtifact = artifact.Fallback
	})
	if artifact.Fallback {
		log.Printf("[%s] Warning: using fallback artifact", job.TaskID)
	}

	// Provision. The only stage whose failure fails the job.
	p.setState(job.TaskID, types.StateProvisioning, artifact)
	repo, err := p.provisioner.Provision(ctx, job, artifact, workDir)
	if err != nil {
		log.Printf("[%s] Error: %v", job.TaskID, err)
		p.store.SetError(job.TaskID, err.Error())
		return err
	}
	p.store.Update(job.TaskID, func(s *types.JobStatus) {
		s.RepoURL = repo.HTMLURL
		s.CommitSHA = repo.CommitSHA
	})

	// Publish. Best-effort; the deterministic URL comes back regardless.
	p.setState(job.TaskID, types.StatePublishing, artifact)
	target := p.publisher.Publish(ctx, job.TaskID)
	p.store.Update(job.TaskID, func(s *types.JobStatus) {
		s.PagesURL = target.PagesURL
	})
	if !target.Confirmed {
		log.Printf("[%s] Warning: publication unconfirmed, continuing with %s", job.TaskID, target.PagesURL)
	}

	// Poll. Informational only.
	p.setState(job.TaskID, types.StatePolling, artifact)
	live := p.poller.AwaitReady(ctx, target.PagesURL, p.opts.MaxPagesWait)
	p.store.Update(job.TaskID, func(s *types.JobStatus) {
		s.PagesLive = live
	})

	// Report. Best-effort; absence of a callback suppresses it.
	if job.HasCallback() {
		p.setState(job.TaskID, types.StateReporting, artifact)
		record := types.NewResultRecord(job, repo, target)
		delivered := p.reporter.Report(ctx, job.CallbackURL, record)
		p.store.Update(job.TaskID, func(s *types.JobStatus) {
			s.CallbackDelivered = delivered
		})
		if !delivered {
			log.Printf("[%s] Error: result not delivered to %s", job.TaskID, job.CallbackURL)
		}
	} else {
		log.Printf("[%s] Warning: no callback URL provided, skipping report", job.TaskID)
	}

	p.setState(job.TaskID, types.StateDone, artifact)
	log.Printf("[%s] Deployment complete: %s (commit %s)", job.TaskID, repo.HTMLURL, repo.CommitSHA)
	return nil
}

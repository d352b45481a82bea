// Package publish enables static publishing for a pushed repository and
// waits for the published site to become observably live. Both operations
// are best-effort: they log their failures and report outcomes as values,
// never as errors that could fail the job.
package publish

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/deploy-agent/internal/types"
)

// PagesDomain is the host suffix under which published sites appear.
const PagesDomain = "github.io"

// PagesAPI is the provider surface the publisher needs.
type PagesAPI interface {
	EnablePages(ctx context.Context, repo, branch string) error
	SetHasPages(ctx context.Context, repo string) error
}

// PagesURL computes the deterministic public URL for a repository. It is
// derivable before any publication call, so callers always have a URL to
// report even when enablement cannot be confirmed.
func PagesURL(account, repo string) string {
	return fmt.Sprintf("https://%s.%s/%s/", account, PagesDomain, repo)
}

// Publisher turns on static publishing for pushed repositories.
type Publisher struct {
	api     PagesAPI
	account string
	branch  string
}

// NewPublisher creates a publisher for the given account and branch.
func NewPublisher(api PagesAPI, account, branch string) *Publisher {
	return &Publisher{api: api, account: account, branch: branch}
}

// Publish attempts to enable static publishing for the repository. The
// direct Pages call is tried first; on failure the repository-settings
// update is tried as a fallback. Neither failure escalates — the computed
// URL is returned regardless, with Confirmed recording whether the provider
// acknowledged either attempt.
func (p *Publisher) Publish(ctx context.Context, repo string) *types.PublicationTarget {
	target := &types.PublicationTarget{PagesURL: PagesURL(p.account, repo)}

	if err := p.api.EnablePages(ctx, repo, p.branch); err == nil {
		log.Printf("[%s] Pages enabled", repo)
		target.Confirmed = true
		return target
	} else {
		log.Printf("[%s] Warning: could not enable Pages directly: %v", repo, err)
	}

	if err := p.api.SetHasPages(ctx, repo); err == nil {
		log.Printf("[%s] Pages enabled via settings update", repo)
		target.Confirmed = true
		return target
	} else {
		log.Printf("[%s] Warning: settings fallback failed: %v", repo, err)
	}

	log.Printf("[%s] Pages enablement unconfirmed; expected URL: %s", repo, target.PagesURL)
	return target
}

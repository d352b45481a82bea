// Package generator produces the deployable artifact for a job: it prompts
// the generation service for a file map and falls back to a built-in
// single-page artifact whenever the service fails or returns unusable
// output. Production never fails; degraded output is recovered locally.
package generator

import (
	"context"
	"log"

	"github.com/jonathan/deploy-agent/internal/llm"
	"github.com/jonathan/deploy-agent/internal/prompts"
	"github.com/jonathan/deploy-agent/internal/types"
)

const (
	promptFile = "generation.json"
	promptKey  = "generate-app"
)

// LLMProducer generates artifacts through an LLM client.
type LLMProducer struct {
	client llm.Client
}

// NewLLMProducer creates a producer backed by the given client.
func NewLLMProducer(client llm.Client) *LLMProducer {
	return &LLMProducer{client: client}
}

// Produce generates the artifact for a job. Any failure along the way is
// logged and recovered by substituting the fallback artifact, so the
// returned artifact always has at least one file.
func (p *LLMProducer) Produce(ctx context.Context, job *types.JobRequest) *types.Artifact {
	prompt, err := prompts.Render(promptFile, promptKey, map[string]string{
		"TaskID": job.TaskID,
		"Brief":  job.Brief,
	})
	if err != nil {
		log.Printf("[%s] Warning: failed to build generation prompt: %v", job.TaskID, err)
		return Fallback(job)
	}

	log.Printf("[%s] Generating app with model %s", job.TaskID, p.client.Model())

	raw, err := p.client.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("[%s] Warning: generation request failed: %v", job.TaskID, err)
		return Fallback(job)
	}

	artifact, dropped, err := ParseArtifact(raw)
	if err != nil {
		log.Printf("[%s] Warning: unusable generation output: %v", job.TaskID, err)
		return Fallback(job)
	}
	if len(dropped) > 0 {
		log.Printf("[%s] Warning: dropped %d unsafe file path(s): %v", job.TaskID, len(dropped), dropped)
	}

	if title := InspectHTML(artifact.Files["index.html"]); title != "" {
		log.Printf("[%s] Generated app titled %q with %d file(s)", job.TaskID, title, artifact.Len())
	} else {
		log.Printf("[%s] Generated app with %d file(s)", job.TaskID, artifact.Len())
	}

	return artifact
}

// StaticProducer generates the built-in single-page artifact without calling
// any external service. Used when the provider is configured as "static" and
// in development setups without credentials.
type StaticProducer struct{}

// NewStaticProducer creates a producer that needs no external service.
func NewStaticProducer() *StaticProducer {
	return &StaticProducer{}
}

// Produce deterministically builds the canonical single-page artifact.
func (p *StaticProducer) Produce(_ context.Context, job *types.JobRequest) *types.Artifact {
	log.Printf("[%s] Generating static app", job.TaskID)
	return &types.Artifact{
		Files: map[string]string{indexFile: buildIndexPage(job.TaskID, job.Brief)},
	}
}

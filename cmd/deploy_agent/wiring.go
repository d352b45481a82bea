package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/deploy-agent/internal/config"
	"github.com/jonathan/deploy-agent/internal/generator"
	"github.com/jonathan/deploy-agent/internal/githubapi"
	"github.com/jonathan/deploy-agent/internal/jobstore"
	"github.com/jonathan/deploy-agent/internal/llm"
	"github.com/jonathan/deploy-agent/internal/pipeline"
	"github.com/jonathan/deploy-agent/internal/provision"
	"github.com/jonathan/deploy-agent/internal/publish"
	"github.com/jonathan/deploy-agent/internal/report"
)

// newProducer selects the artifact producer for the configured provider.
// The returned close function releases the LLM client, if any.
func newProducer(ctx context.Context, cfg *config.Config) (pipeline.Producer, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderStatic:
		return generator.NewStaticProducer(), func() {}, nil
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiModel, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		return generator.NewLLMProducer(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

// newPipeline wires the full stage stack from configuration.
func newPipeline(ctx context.Context, cfg *config.Config, store *jobstore.Store, onProgress pipeline.ProgressCallback) (*pipeline.Pipeline, func(), error) {
	producer, closeProducer, err := newProducer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	github := githubapi.NewClient(cfg.GitHubUsername, cfg.GitHubToken, nil)

	p := pipeline.New(
		producer,
		provision.NewProvisioner(github, cfg.GitHubUsername, cfg.GitHubToken),
		publish.NewPublisher(github, cfg.GitHubUsername, provision.DefaultBranch),
		publish.NewPoller(),
		report.NewReporter(),
		store,
		pipeline.Options{
			MaxPagesWait: time.Duration(cfg.PagesMaxWaitSeconds) * time.Second,
			OnProgress:   onProgress,
		},
	)

	return p, closeProducer, nil
}

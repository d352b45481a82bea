package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/jonathan/deploy-agent/internal/config"
	"github.com/jonathan/deploy-agent/internal/jobstore"
	"github.com/jonathan/deploy-agent/internal/observability"
	"github.com/jonathan/deploy-agent/internal/pipeline"
	"github.com/jonathan/deploy-agent/internal/types"
)

var (
	deployTask     string
	deployBrief    string
	deployEmail    string
	deployRound    int
	deployNonce    string
	deployCallback string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Run one deployment job from the terminal",
	Long:  `Generate, provision, and publish a single task without going through the HTTP API. Useful for smoke-testing credentials and briefs.`,
	RunE:  runDeploy,
}

func init() {
	deployCmd.Flags().StringVar(&deployTask, "task", "", "Task id (becomes the repository name)")
	deployCmd.Flags().StringVar(&deployBrief, "brief", "", "Natural-language brief for the app")
	deployCmd.Flags().StringVar(&deployEmail, "email", "", "Submitter email, echoed in the result record")
	deployCmd.Flags().IntVar(&deployRound, "round", 1, "Round number, echoed in the result record")
	deployCmd.Flags().StringVar(&deployNonce, "nonce", "", "Nonce, echoed in the result record")
	deployCmd.Flags().StringVar(&deployCallback, "callback", "", "Callback URL for the result record (optional)")
	_ = deployCmd.MarkFlagRequired("task")
	_ = deployCmd.MarkFlagRequired("brief")
	rootCmd.AddCommand(deployCmd)
}

// stageLabels drives the one-shot progress output.
var stageLabels = map[types.JobState]string{
	types.StateGenerating:   "Generating artifact",
	types.StateProvisioning: "Provisioning repository",
	types.StatePublishing:   "Enabling publication",
	types.StatePolling:      "Waiting for site",
	types.StateReporting:    "Reporting result",
}

var stageOrder = []types.JobState{
	types.StateGenerating,
	types.StateProvisioning,
	types.StatePublishing,
	types.StatePolling,
	types.StateReporting,
}

func runDeploy(_ *cobra.Command, _ []string) error {
	if !slug.IsSlug(deployTask) {
		return fmt.Errorf("task %q is not a valid repository name", deployTask)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	steps := map[types.JobState]int{}
	for i, state := range stageOrder {
		steps[state] = i + 1
	}

	var artifactShown bool
	onProgress := func(event pipeline.ProgressEvent) {
		if n, ok := steps[event.Stage]; ok {
			fmt.Printf("Step %d/%d: %s\n", n, len(stageOrder), stageLabels[event.Stage])
		}
		if event.Artifact != nil && !artifactShown {
			printer.PrintArtifact(event.Artifact)
			artifactShown = true
		}
	}

	store := jobstore.New()
	ctx := context.Background()
	p, closeProducer, err := newPipeline(ctx, cfg, store, onProgress)
	if err != nil {
		return err
	}
	defer closeProducer()

	job := &types.JobRequest{
		Email:       deployEmail,
		TaskID:      deployTask,
		Round:       deployRound,
		Nonce:       deployNonce,
		Brief:       deployBrief,
		CallbackURL: deployCallback,
	}

	store.Create(uuid.New().String(), job.TaskID)
	runErr := p.Run(ctx, job)

	if status, err := store.Get(job.TaskID); err == nil {
		printer.PrintDeployResult(status)
	}

	return runErr
}

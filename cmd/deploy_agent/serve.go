package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/deploy-agent/internal/config"
	"github.com/jonathan/deploy-agent/internal/jobstore"
	"github.com/jonathan/deploy-agent/internal/server"
)

var (
	servePort    int
	serveEnvFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deployment API server",
	Long:  `Start the HTTP front door that accepts task submissions and runs deployment jobs in the background.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", "", "Additional env file to load before reading configuration")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveEnvFile != "" {
		if err := godotenv.Load(serveEnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", serveEnvFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	store := jobstore.New()
	p, closeProducer, err := newPipeline(context.Background(), cfg, store, nil)
	if err != nil {
		return err
	}
	defer closeProducer()

	srv := server.New(server.Config{
		Port:         cfg.Port,
		SharedSecret: cfg.SharedSecret,
		Runner:       p,
		Store:        store,
	})

	return srv.Start()
}

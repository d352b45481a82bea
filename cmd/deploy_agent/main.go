// Package main provides the entry point for the deploy agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deploy_agent",
	Short: "LLM code deployment agent",
	Long:  "Deploy agent accepts task briefs, generates small static web apps via an LLM, publishes them as GitHub Pages sites, and reports results to callback endpoints.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the application assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_automation",
	Short: "Job application assistant",
	Long:  "Detects company, position and template from job postings, generates tailored application materials, and optionally files them to Drive and records them in a tracker.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

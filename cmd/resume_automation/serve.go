package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"resume-automation/internal/auth"
	"resume-automation/internal/config"
	"resume-automation/internal/drive"
	"resume-automation/internal/generate"
	"resume-automation/internal/llm"
	"resume-automation/internal/server"
	"resume-automation/internal/tracker"
)

var (
	serveConfigFile string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the detection, generation, settings, tracker and auth endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to YAML config file (optional)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Default()
	if serveConfigFile != "" {
		loaded, err := config.Load(serveConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}

	ctx := context.Background()
	var deps server.Deps

	if cfg.Auth.Email != "" && cfg.Auth.PasswordHash != "" {
		authSvc, err := auth.NewService(cfg.Auth)
		if err != nil {
			return fmt.Errorf("failed to set up auth: %w", err)
		}
		deps.Auth = authSvc
	} else {
		log.Println("Auth not configured; API is open (local single-user mode)")
	}

	if cfg.LLM.APIKey != "" {
		llmCfg := llm.DefaultConfig()
		if cfg.LLM.Model != "" {
			llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.LLM.Model)
		}
		client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.LLM.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
		deps.Generator = generate.NewService(client)
	} else {
		log.Println("No Gemini API key; generation endpoint disabled")
	}

	if cfg.Tracker.Enabled {
		tr, err := tracker.Connect(ctx, cfg.Tracker.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to tracker database: %w", err)
		}
		defer tr.Close()
		if err := tr.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare tracker schema: %w", err)
		}
		deps.Store = tr
	}

	if cfg.Drive.Enabled {
		filer, err := drive.NewService(ctx, cfg.Drive)
		if err != nil {
			return fmt.Errorf("failed to set up Drive filing: %w", err)
		}
		deps.Filer = filer
	}

	return server.New(cfg, deps).Start()
}

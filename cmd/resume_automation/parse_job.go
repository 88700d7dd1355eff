package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"resume-automation/internal/detect"
	"resume-automation/internal/fetch"
	"resume-automation/internal/observability"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Detect company, position and template from a job posting",
	Long:  "Run one detection pass against a posting URL, a description file, or a bare position title, and print the structured result as JSON.",
	RunE:  runParseJob,
}

var (
	parseURL         string
	parseDescFile    string
	parseTitle       string
	parseUseBrowser  bool
	parseTimeoutSecs int
	parseVerbose     bool
)

func init() {
	parseJobCmd.Flags().StringVar(&parseURL, "url", "", "Job posting URL to fetch")
	parseJobCmd.Flags().StringVarP(&parseDescFile, "description", "d", "", "Path to a file with the pasted job description")
	parseJobCmd.Flags().StringVarP(&parseTitle, "title", "t", "", "Position title, when the posting is not available")
	parseJobCmd.Flags().BoolVar(&parseUseBrowser, "browser", false, "Render client-side pages with headless Chrome")
	parseJobCmd.Flags().IntVar(&parseTimeoutSecs, "timeout", 10, "Fetch timeout in seconds")
	parseJobCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a human-readable summary instead of JSON")

	rootCmd.AddCommand(parseJobCmd)
}

func runParseJob(_ *cobra.Command, _ []string) error {
	if parseURL == "" && parseDescFile == "" && parseTitle == "" {
		return fmt.Errorf("must provide at least one of --url, --description or --title")
	}

	var description string
	if parseDescFile != "" {
		content, err := os.ReadFile(parseDescFile)
		if err != nil {
			return fmt.Errorf("failed to read description file: %w", err)
		}
		description = string(content)
	}

	opts := fetch.DefaultOptions()
	opts.UseBrowser = parseUseBrowser
	if parseTimeoutSecs > 0 {
		opts.Timeout = time.Duration(parseTimeoutSecs) * time.Second
	}
	detector := detect.New(&detect.HTTPFetcher{Options: opts})

	result := detector.Detect(context.Background(), detect.Query{
		JobURL:         parseURL,
		JobDescription: description,
		PositionTitle:  parseTitle,
	})

	if parseVerbose {
		observability.NewPrinter(os.Stdout).PrintDetection(&result)
		return nil
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

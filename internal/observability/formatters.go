// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"resume-automation/internal/detect"
	"resume-automation/internal/generate"
	"resume-automation/internal/tracker"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDetection outputs a human-readable summary of a detection result.
func (p *Printer) PrintDetection(result *detect.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Company:    %s\n", orDash(result.CompanyName)))
	sb.WriteString(fmt.Sprintf("Position:   %s\n", orDash(result.PositionTitle)))
	if result.SuggestedTemplate != nil {
		source := ""
		if result.TemplateSource != nil {
			source = fmt.Sprintf(" (%s)", *result.TemplateSource)
		}
		sb.WriteString(fmt.Sprintf("Template:   %s%s\n", *result.SuggestedTemplate, source))
	} else {
		sb.WriteString("Template:   —\n")
	}
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", result.Confidence))
	if result.Message != nil {
		sb.WriteString(fmt.Sprintf("\n%s", *result.Message))
	}

	title := "DETECTED JOB POSTING"
	if !result.Success {
		title = "DETECTION FAILED"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMaterials outputs a summary of generated application materials.
func (p *Printer) PrintMaterials(materials *generate.Materials) {
	if materials == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resume:       %d chars\n", len(materials.ResumeText)))
	sb.WriteString(fmt.Sprintf("Cover letter: %d chars\n", len(materials.CoverLetter)))
	sb.WriteString("\n")

	prep := materials.InterviewPrep
	sb.WriteString(fmt.Sprintf("Interview questions prepared: %d\n", len(prep.Questions)))
	count := min(len(prep.Questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		q := prep.Questions[i].Question
		if len(q) > 50 {
			q = q[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", q))
	}
	if len(prep.Questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(prep.Questions)-maxItemsToShow))
	}

	if len(prep.TalkingPoints) > 0 {
		sb.WriteString("\nTalking points:\n")
		count := min(len(prep.TalkingPoints), 3)
		for i := 0; i < count; i++ {
			point := prep.TalkingPoints[i]
			if len(point) > 50 {
				point = point[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", point))
		}
		if len(prep.TalkingPoints) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(prep.TalkingPoints)-3))
		}
	}

	p.printBox("GENERATED MATERIALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs tracker summary counts.
func (p *Printer) PrintStats(stats *tracker.Stats) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total applications: %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("Distinct companies: %d\n", stats.DistinctCompanies))
	sb.WriteString(fmt.Sprintf("Distinct roles:     %d\n", stats.DistinctRoles))
	sb.WriteString(fmt.Sprintf("This month:         %d", stats.ThisMonth))

	p.printBox("APPLICATION TRACKER", sb.String())
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

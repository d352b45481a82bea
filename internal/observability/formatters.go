// Package observability provides formatted output utilities for the CLI's
// one-shot deploy mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/deploy-agent/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

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

// PrintArtifact outputs a summary of the generated artifact.
func (p *Printer) PrintArtifact(artifact *types.Artifact) {
	if artifact == nil {
		return
	}

	var sb strings.Builder
	if artifact.Fallback {
		sb.WriteString("Source:   fallback (generation degraded)\n")
	} else {
		sb.WriteString("Source:   generated\n")
	}
	sb.WriteString(fmt.Sprintf("Files:    %d\n", artifact.Len()))
	for _, name := range artifact.FileNames() {
		sb.WriteString(fmt.Sprintf("  • %s\n", name))
	}

	p.printBox("GENERATED ARTIFACT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDeployResult outputs the final outcome of a deployment job.
func (p *Printer) PrintDeployResult(status *types.JobStatus) {
	if status == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Task:      %s\n", status.TaskID))
	sb.WriteString(fmt.Sprintf("State:     %s\n", status.State))
	if status.RepoURL != "" {
		sb.WriteString(fmt.Sprintf("Repo:      %s\n", status.RepoURL))
	}
	if status.CommitSHA != "" {
		sb.WriteString(fmt.Sprintf("Commit:    %s\n", status.CommitSHA))
	}
	if status.PagesURL != "" {
		sb.WriteString(fmt.Sprintf("Pages:     %s\n", status.PagesURL))
		sb.WriteString(fmt.Sprintf("Live:      %v\n", status.PagesLive))
	}
	if status.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:     %s\n", status.Error))
	}
	sb.WriteString(fmt.Sprintf("Callback:  delivered=%v", status.CallbackDelivered))

	p.printBox("DEPLOYMENT RESULT", sb.String())
}

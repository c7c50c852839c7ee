// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/commute-coach/internal/types"
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

// PrintIntent outputs a human-readable summary of an extracted commute intent.
func (p *Printer) PrintIntent(intent *types.CommuteIntent) {
	if intent == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:    %s\n", intent.Topic))
	sb.WriteString(fmt.Sprintf("Level:    %s\n", intent.Level))
	sb.WriteString(fmt.Sprintf("Commute:  %d min", intent.CommuteMinutes))

	p.printBox("EXTRACTED INTENT", sb.String())
}

// PrintCandidatePool outputs the fetched candidate pool before selection.
func (p *Printer) PrintCandidatePool(candidates []types.Candidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates: %d\n\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		title := c.Title
		if title == "" {
			title = c.ID
		}
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s (%s)", title, FormatDuration(c.DurationSec)))
		if c.Level != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", c.Level))
		}
		sb.WriteString("\n")
	}

	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more", len(candidates)-maxItemsToShow))
	}

	p.printBox("CANDIDATE POOL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPack outputs the built pack with per-item durations and fill state.
func (p *Printer) PrintPack(pack *types.PackResponse, minSec, maxSec int) {
	if pack == nil {
		return
	}

	var sb strings.Builder
	if len(pack.Items) == 0 {
		sb.WriteString("No videos selected\n")
	} else {
		for i, item := range pack.Items {
			title := item.Title
			if title == "" {
				title = item.ID
			}
			if len(title) > 40 {
				title = title[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, title, FormatDuration(item.DurationSec)))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total:    %s of %s-%s window\n",
		FormatDuration(pack.TotalDurationSec), FormatDuration(minSec), FormatDuration(maxSec)))

	if pack.UnderFilled {
		sb.WriteString("Status:   under-filled")
	} else {
		sb.WriteString("Status:   filled")
	}

	p.printBox("BUILT PACK", sb.String())
}

// FormatDuration renders whole seconds as "M:SS" or "H:MM:SS".
func FormatDuration(sec int) string {
	if sec < 0 {
		sec = 0
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

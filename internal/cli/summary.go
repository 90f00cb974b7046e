package cli

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ColinPollard/ToolPathGen/internal/pathio"
	"github.com/ColinPollard/ToolPathGen/internal/toolpath"
)

// summaryPrinter formats numbers with digit grouping ("12,345").
var summaryPrinter = message.NewPrinter(language.English)

// SummaryView is the success payload of generate and check.
type SummaryView struct {
	Verb                 string        `json:"-"`
	Source               string        `json:"source"`
	EstimatedTimeSeconds float64       `json:"estimated_time_seconds"`
	TotalPoints          int           `json:"total_points"`
	Files                *pathio.Files `json:"files,omitempty"`
}

func newSummaryView(verb, source string, summary toolpath.RunSummary, files *pathio.Files) SummaryView {
	return SummaryView{
		Verb:                 verb,
		Source:               source,
		EstimatedTimeSeconds: summary.EstimatedTimeSeconds,
		TotalPoints:          summary.TotalPoints,
		Files:                files,
	}
}

// String renders the human-readable completion message.
func (v SummaryView) String() string {
	msg := summaryPrinter.Sprintf("%s. Estimated time: %.2f s. Machine path steps: %d.",
		v.Verb, v.EstimatedTimeSeconds, v.TotalPoints)
	if v.Files != nil {
		msg += fmt.Sprintf("\n  %s\n  %s\n  %s", v.Files.X, v.Files.Y, v.Files.Z)
	}
	return msg
}

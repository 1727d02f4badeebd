package components

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	composestrings "github.com/serverless/compose/pkg/strings"
)

// WriteSummary renders outcomes and skipped components as a table.
func WriteSummary(w io.Writer, outcomes []Outcome, skipped []string) {
	if len(outcomes) == 0 && len(skipped) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("COMPONENT"),
		text.FgHiCyan.Sprint("COMMAND"),
		text.FgHiCyan.Sprint("STATUS"),
		text.FgHiCyan.Sprint("DURATION"),
		text.FgHiCyan.Sprint("ERROR"),
	})

	for _, o := range outcomes {
		status := text.FgGreen.Sprint(string(o.Status))
		var message string
		if o.Status == StatusFailure {
			status = text.FgRed.Sprint(string(o.Status))
			if o.Err != nil {
				message = composestrings.TruncateLine(o.Err.Error(), composestrings.DefaultLineMaxLen)
			}
		}
		t.AppendRow(table.Row{o.Component, o.Command, status, o.Duration.Round(time.Millisecond).String(), message})
	}
	for _, name := range skipped {
		t.AppendRow(table.Row{name, "", text.FgYellow.Sprint("skipped"), "", ""})
	}

	t.Render()

	_, failure := countOutcomes(outcomes)
	if failure > 0 {
		fmt.Fprintf(w, "%s\n", text.FgRed.Sprintf("%d of %d components failed", failure, len(outcomes)))
	}
}

func countOutcomes(outcomes []Outcome) (success, failure int) {
	for _, o := range outcomes {
		if o.Status == StatusFailure {
			failure++
		} else {
			success++
		}
	}
	return success, failure
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mwiatr/verba/internal/domain"
)

// RenderResponse prints the response in a friendly, ASCII-only format.
func RenderResponse(w io.Writer, resp domain.Response) {
	fmt.Fprintln(w, resp.Message)

	if resp.NeedsConfirmation && resp.ConfirmationPrompt != "" {
		fmt.Fprintf(w, "\n%s (yes/no)\n", resp.ConfirmationPrompt)
	}

	if len(resp.Suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Suggestions:")
		for i, s := range resp.Suggestions {
			line := fmt.Sprintf("  [%d] %s", i+1, s.Text)
			if s.Command != "" && s.Command != s.Text {
				line += "  (" + s.Command + ")"
			}
			if s.Description != "" {
				line += "  - " + s.Description
			}
			fmt.Fprintln(w, line)
		}
	}
}

// RenderHistory prints persisted records, newest first.
func RenderHistory(w io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No history.")
		return
	}
	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = fmt.Sprintf("exit %d", rec.ExitCode)
		}
		fmt.Fprintf(w, "%s  %-30q  %s  (%s, %dms)\n",
			rec.Timestamp.Format(time.DateTime), rec.Input, rec.Command, status, rec.DurationMS)
	}
}

// RenderHealth prints the doctor report.
func RenderHealth(w io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(w, "[%-4s] %-18s %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Detail)
	}
}

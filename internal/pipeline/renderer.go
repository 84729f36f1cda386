package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gojiplus/lostyears/internal/model"
)

// Renderer writes run reports.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Summary prints a human-readable run summary.
func (r *Renderer) Summary(w io.Writer, report *model.Report) {
	s := report.Stats
	fmt.Fprintf(w, "  Source:      %s\n", report.Source)
	fmt.Fprintf(w, "  Input rows:  %d\n", s.Input)
	fmt.Fprintf(w, "  Output rows: %d\n", s.Output)
	fmt.Fprintf(w, "  Exact:       %d\n", s.Exact)
	fmt.Fprintf(w, "  Nearest:     %d\n", s.Nearest)
	if s.FanOut > 0 {
		fmt.Fprintf(w, "  Fan-out:     +%d rows\n", s.FanOut)
	}
	fmt.Fprintf(w, "  Unmatched:   %d (policy: %s)\n", s.Unmatched, report.Policy)
	for _, f := range s.Failures {
		fmt.Fprintf(w, "  ✗ row %d: %s\n", f.Row, f.Reason)
	}
}

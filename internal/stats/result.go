package stats

import (
	"fmt"
	"io"
	"time"
)

// Result summarizes a completed session.
type Result struct {
	SessionID    string
	StartedAt    time.Time
	Duration     time.Duration
	Metrics      Metrics
	CorrectChars int
	CorrectWords int
	ErrorWords   int
	BestStreak   int
	Samples      []Sample
}

// Committed returns the number of words judged during the session.
func (r Result) Committed() int {
	return r.CorrectWords + r.ErrorWords
}

// Trace rebuilds a plottable trace from the recorded samples.
func (r Result) Trace() *Trace {
	t := NewTrace(time.Second)
	t.samples = append(t.samples, r.Samples...)
	return t
}

// ResultLines formats the result as aligned table lines.
func ResultLines(r Result) []string {
	rows := [][]string{
		{"WPM", fmt.Sprintf("%d", r.Metrics.WPM)},
		{"Accuracy", fmt.Sprintf("%d%%", r.Metrics.Accuracy)},
		{"Words", fmt.Sprintf("%d/%d", r.CorrectWords, r.Committed())},
		{"Characters", fmt.Sprintf("%d", r.CorrectChars)},
		{"Best streak", fmt.Sprintf("%d", r.BestStreak)},
		{"Duration", r.Duration.String()},
	}
	return formatTable([]string{"Metric", "Value"}, rows, map[int]bool{1: true})
}

// RenderResult prints the result table followed by the session trace plot.
func RenderResult(w io.Writer, r Result, width int, useColor bool) error {
	if _, err := fmt.Fprintln(w, "Result"); err != nil {
		return err
	}
	for _, line := range ResultLines(r) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	plotWidth := 0
	if width > 0 {
		plotWidth = PlotWidthFor(width)
	}
	return PlotTrace(w, r.Trace(), plotWidth, defaultPlotHeight, useColor)
}

package stats

import "time"

// Sample is a point of the per-session trace.
type Sample struct {
	Elapsed  time.Duration
	WPM      int
	Accuracy int
}

// Trace keeps one sample per interval of elapsed session time. It lives only
// as long as the session that fills it.
type Trace struct {
	interval time.Duration
	samples  []Sample
}

// NewTrace returns a trace sampling every interval; non-positive means one second.
func NewTrace(interval time.Duration) *Trace {
	if interval <= 0 {
		interval = time.Second
	}
	return &Trace{interval: interval}
}

// Record stores m when elapsed has reached the next sampling boundary.
// It reports whether a sample was taken.
func (t *Trace) Record(elapsed time.Duration, m Metrics) bool {
	next := time.Duration(len(t.samples)+1) * t.interval
	if elapsed < next {
		return false
	}
	t.samples = append(t.samples, Sample{Elapsed: elapsed, WPM: m.WPM, Accuracy: m.Accuracy})
	return true
}

// Samples returns a copy of the recorded samples.
func (t *Trace) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	return len(t.samples)
}

// WPMSeries returns the recorded WPM values.
func (t *Trace) WPMSeries() []float64 {
	out := make([]float64, len(t.samples))
	for i, s := range t.samples {
		out[i] = float64(s.WPM)
	}
	return out
}

// AccuracySeries returns the recorded accuracy values.
func (t *Trace) AccuracySeries() []float64 {
	out := make([]float64, len(t.samples))
	for i, s := range t.samples {
		out[i] = float64(s.Accuracy)
	}
	return out
}

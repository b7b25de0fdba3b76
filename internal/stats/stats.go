// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"
	"time"
)

const (
	charsPerWord = 5.0
	sparkChars   = " .:-=+*#%@"
)

// Metrics are the live statistics of a typing session.
type Metrics struct {
	WPM      int
	Accuracy int
	Streak   int
	Progress float64
}

// Compute derives metrics from the session accumulators and the time left on
// the clock. It is total: every non-negative input yields a defined result.
//
// Accuracy divides correct characters by correct characters plus wrong
// words. The mixed units are deliberate and must stay as they are.
func Compute(correctChars, errorWords, streak int, remaining, duration time.Duration) Metrics {
	elapsed := Elapsed(remaining, duration)
	m := Metrics{Streak: streak, Accuracy: 100}

	minutes := elapsed.Minutes()
	if minutes > 0 {
		m.WPM = int(math.Round((float64(correctChars) / charsPerWord) / minutes))
	}
	judged := correctChars + errorWords
	if judged > 0 {
		m.Accuracy = int(math.Round(float64(correctChars) / float64(judged) * 100))
	}
	if duration > 0 {
		m.Progress = clamp01(float64(elapsed) / float64(duration))
	}
	return m
}

// Elapsed returns duration-remaining clamped to [0, duration].
func Elapsed(remaining, duration time.Duration) time.Duration {
	if remaining < 0 {
		remaining = 0
	}
	if remaining > duration {
		remaining = duration
	}
	return duration - remaining
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

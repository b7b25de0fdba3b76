package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var seriesColors = []string{
	"\x1b[35m", // magenta
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
}

// PlotTrace renders the WPM and accuracy curves of a finished session.
func PlotTrace(w io.Writer, trace *Trace, width, height int, forceColor bool) error {
	if trace == nil || trace.Len() == 0 {
		_, err := fmt.Fprintln(w, "Not enough data to plot.")
		return err
	}
	return PlotSeries(w, "Session Trace", []Series{
		{Name: "WPM", Values: MovingAverage(trace.WPMSeries(), 3)},
		{Name: "Accuracy", Values: trace.AccuracySeries()},
	}, width, height, forceColor)
}

// PlotSeries renders series on a shared braille canvas. Every series is
// scaled against the largest value across all of them, with zero at the bottom.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	top := 0.0
	for _, s := range series {
		if _, hi := minMax(s.Values); hi > top {
			top = hi
		}
	}
	if top <= 0 {
		top = 1
	}

	layers := make([]*canvas, len(series))
	for i, s := range series {
		layers[i] = newCanvas(width, height)
		layers[i].polyline(resample(s.Values, width), top)
	}

	useColor := shouldUseColor(w, forceColor)
	labels := axisLabels(top, height)
	labelWidth := 0
	for _, l := range labels {
		if n := utf8.RuneCountInString(l); n > labelWidth {
			labelWidth = n
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for y := 0; y < height; y++ {
		fmt.Fprintf(&b, "%*s%s", labelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := mergeCell(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				b.WriteString(seriesColors[owner%len(seriesColors)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(series, useColor))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := len("100") + utf8.RuneCountInString(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func axisLabels(top float64, height int) []string {
	labels := make([]string, height)
	if height == 0 {
		return labels
	}
	labels[0] = fmt.Sprintf("%.0f", top)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", top/2)
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "⣿ " + s.Name
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

// resample stretches or squeezes values to exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	switch {
	case len(values) == 0:
		return out
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
		return out
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * float64(last) / float64(width-1)
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// canvas is a grid of braille cells, each 2 dots wide and 4 dots tall.
type canvas struct {
	cells  [][]uint8
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells, width: width, height: height}
}

func (c *canvas) polyline(values []float64, top float64) {
	dots := c.height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		y := int(math.Round((1 - v/top) * float64(dots-1)))
		if y < 0 {
			y = 0
		}
		if y >= dots {
			y = dots - 1
		}
		px := x * 2
		if prevX < 0 {
			c.set(px, y)
		} else {
			c.line(prevX, prevY, px, y)
		}
		prevX, prevY = px, y
	}
}

// line draws with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) set(x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.cells[cy][cx] |= dotMask(x%2, y%4)
}

// dotMask maps a dot inside a cell to its bit in the Unicode braille block.
func dotMask(col, row int) uint8 {
	if row == 3 {
		return 0x40 << col
	}
	return 1 << (row + 3*col)
}

func mergeCell(layers []*canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, c := range layers {
		m := c.cells[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

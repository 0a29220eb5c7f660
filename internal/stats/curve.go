package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	minChartWidth      = 16
	defaultChartHeight = 8
)

// brailleDots maps a (dot row, dot column) position inside one cell to its
// bit in the braille pattern block.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Curve is one named series on a chart.
type Curve struct {
	Label  string
	Values []float64
	Style  lipgloss.Style
}

// dotGrid is a braille canvas of width*2 dot columns by height*4 dot rows.
// Each cell remembers which curve touched it first so overlaps keep a
// stable color.
type dotGrid struct {
	width  int
	height int
	cells  []uint8
	owner  []int
}

func newDotGrid(width, height int) *dotGrid {
	return &dotGrid{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
		owner:  make([]int, width*height),
	}
}

func (g *dotGrid) set(dotX, dotY, curve int) {
	if dotX < 0 || dotY < 0 || dotX >= g.width*2 || dotY >= g.height*4 {
		return
	}
	idx := (dotY/4)*g.width + dotX/2
	if g.cells[idx] == 0 {
		g.owner[idx] = curve + 1
	}
	g.cells[idx] |= brailleDots[dotY%4][dotX%2]
}

// RenderChart draws the curves as a braille chart of width by height cells,
// followed by a legend. Each curve normalizes to its own value range and
// the legend carries the ranges, so series with very different units share
// one chart. Returns "" when no curve has values.
func RenderChart(title string, curves []Curve, width, height int) string {
	drawable := make([]Curve, 0, len(curves))
	for _, c := range curves {
		if len(c.Values) > 0 {
			drawable = append(drawable, c)
		}
	}
	if len(drawable) == 0 {
		return ""
	}
	if width < minChartWidth {
		width = minChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}

	grid := newDotGrid(width, height)
	ranges := make([][2]float64, len(drawable))
	for ci, c := range drawable {
		lo, hi := valueRange(c.Values)
		ranges[ci] = [2]float64{lo, hi}
		plotCurve(grid, sampleToWidth(c.Values, width*2), lo, hi, ci)
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*grid.width + x
			mask := grid.cells[idx]
			if mask == 0 {
				b.WriteByte(' ')
				continue
			}
			cell := string(rune(0x2800 | int(mask)))
			b.WriteString(drawable[grid.owner[idx]-1].Style.Render(cell))
		}
		b.WriteByte('\n')
	}
	b.WriteString(chartLegend(drawable, ranges))
	return b.String()
}

func chartLegend(curves []Curve, ranges [][2]float64) string {
	parts := make([]string, 0, len(curves))
	for i, c := range curves {
		marker := c.Style.Render("⣿")
		parts = append(parts, fmt.Sprintf("%s %s %.1f..%.1f", marker, c.Label, ranges[i][0], ranges[i][1]))
	}
	return strings.Join(parts, "   ")
}

// sampleToWidth buckets values onto exactly cols points: bucket means when
// there are more values than columns, nearest value repeated when fewer.
func sampleToWidth(values []float64, cols int) []float64 {
	out := make([]float64, cols)
	n := len(values)
	for i := range out {
		lo := i * n / cols
		hi := (i + 1) * n / cols
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func valueRange(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// plotCurve marks one dot column per sample and fills the vertical span to
// the previous column, keeping the line connected through steep moves.
func plotCurve(grid *dotGrid, samples []float64, lo, hi float64, curve int) {
	rows := grid.height * 4
	prev := -1
	for x, v := range samples {
		row := rows / 2
		if hi > lo {
			row = int(float64(rows-1) * (hi - v) / (hi - lo))
		}
		if prev < 0 {
			prev = row
		}
		step := 1
		if row < prev {
			step = -1
		}
		for r := prev; ; r += step {
			grid.set(x, r, curve)
			if r == row {
				break
			}
		}
		prev = row
	}
}

package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/aquasim/internal/flight"
)

const (
	DefaultPlotHeight = 15
	DefaultPlotWidth  = 70
)

// Plot renders a series as an ASCII line chart.
func Plot(series []float64, caption string, height, width int) string {
	if len(series) == 0 {
		return ""
	}
	if height <= 0 {
		height = DefaultPlotHeight
	}
	if width <= 0 {
		width = DefaultPlotWidth
	}
	return asciigraph.Plot(series, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption(caption))
}

// TrajectorySVG draws altitude against time.
func TrajectorySVG(points []flight.TrajectoryPoint, width, height int, stroke string) string {
	if len(points) < 2 {
		return ""
	}

	minT, maxT := points[0].Time, points[0].Time
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minT = math.Min(minT, p.Time)
		maxT = math.Max(maxT, p.Time)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minT -= rangeT * 0.05
	minY -= rangeY * 0.05
	rangeT *= 1.1
	rangeY *= 1.1

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke)

	for i, p := range points {
		x := (p.Time - minT) / rangeT * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/springsim/internal/sim"
)

type Point struct {
	X, Y float64
}

// TimeSeries pairs each sample time with the spring position.
func TimeSeries(result *sim.Result) []Point {
	points := make([]Point, len(result.Times))
	for i, t := range result.Times {
		points[i] = Point{X: t, Y: result.Positions[i]}
	}
	return points
}

// PhasePortrait pairs position with velocity; a settling spring spirals
// into (target, 0).
func PhasePortrait(result *sim.Result) []Point {
	points := make([]Point, len(result.Positions))
	for i, p := range result.Positions {
		points[i] = Point{X: p, Y: result.Velocities[i]}
	}
	return points
}

// TrajectoryToSVG draws points as one polyline scaled to width x height
// with a tenth of padding on every side. It returns "" for fewer than two
// points.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteSVG renders a run as a time series, or as a phase portrait when
// phase is set.
func WriteSVG(w io.Writer, result *sim.Result, phase bool) error {
	points := TimeSeries(result)
	if phase {
		points = PhasePortrait(result)
	}
	svg := TrajectoryToSVG(points, 800, 400, "#00ffff")
	if svg == "" {
		return fmt.Errorf("need at least 2 samples, have %d", len(points))
	}
	_, err := io.WriteString(w, svg)
	return err
}

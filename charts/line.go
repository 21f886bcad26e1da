// Package charts turns static series into drawable SVG geometry.
package charts

import (
	"fmt"
	"strings"

	"finlit-platform/models"
)

// Viewport is the drawing area of a line chart. Plot is the vertical span
// values are mapped onto, measured up from the bottom edge.
type Viewport struct {
	Width  float64
	Height float64
	Plot   float64
}

var DefaultViewport = Viewport{Width: 400, Height: 200, Plot: 180}

type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type LineGeometry struct {
	Points    []Point   `json:"points"`
	Path      string    `json:"path"`
	AreaPath  string    `json:"area_path"`
	GridLines []float64 `json:"grid_lines"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Flat      bool      `json:"flat"`
}

const gridLines = 5

// Line normalizes each value to (v-min)/(max-min). A zero range draws a flat
// line through the middle of the plot.
func Line(series []models.ChartSeriesPoint, vp Viewport) LineGeometry {
	g := LineGeometry{GridLines: make([]float64, gridLines)}
	for i := range g.GridLines {
		g.GridLines[i] = float64(i) * vp.Height / gridLines
	}
	if len(series) == 0 {
		return g
	}

	g.Min, g.Max = series[0].Value, series[0].Value
	for _, p := range series[1:] {
		if p.Value < g.Min {
			g.Min = p.Value
		}
		if p.Value > g.Max {
			g.Max = p.Value
		}
	}
	span := g.Max - g.Min
	g.Flat = span == 0

	g.Points = make([]Point, len(series))
	for i, p := range series {
		x := vp.Width / 2
		if len(series) > 1 {
			x = float64(i) / float64(len(series)-1) * vp.Width
		}
		norm := 0.5
		if !g.Flat {
			norm = (p.Value - g.Min) / span
		}
		g.Points[i] = Point{X: x, Y: vp.Height - norm*vp.Plot, Label: p.Label, Value: p.Value}
	}

	coords := make([]string, len(g.Points))
	for i, p := range g.Points {
		coords[i] = fmt.Sprintf("%s,%s", num(p.X), num(p.Y))
	}
	g.Path = "M " + strings.Join(coords, " L ")
	g.AreaPath = fmt.Sprintf("%s L %s,%s L %s,%s Z",
		g.Path,
		num(g.Points[len(g.Points)-1].X), num(vp.Height),
		num(g.Points[0].X), num(vp.Height),
	)
	return g
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

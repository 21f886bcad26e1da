package charts

import (
	"fmt"
	"math"

	"finlit-platform/models"
)

// Segment is one slice drawn as a dashed stroke on a circle of circumference 100.
type Segment struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
	DashArray  string  `json:"dash_array"`
	DashOffset float64 `json:"dash_offset"`
}

// Pie computes each slice's share of the total and the running offset that makes
// slices tile the ring. Negative values count as zero; an empty total draws nothing.
func Pie(slices []models.ChartSeriesPoint) []Segment {
	var total float64
	for _, s := range slices {
		total += math.Max(s.Value, 0)
	}
	if total <= 0 {
		return nil
	}

	segments := make([]Segment, 0, len(slices))
	var cumulative float64
	for _, s := range slices {
		pct := math.Max(s.Value, 0) / total * 100
		segments = append(segments, Segment{
			Label:      s.Label,
			Value:      s.Value,
			Color:      s.Color,
			Percentage: pct,
			DashArray:  fmt.Sprintf("%s %s", num(pct), num(100-pct)),
			DashOffset: -cumulative,
		})
		cumulative += pct
	}
	return segments
}

// DonutRadius is the radius whose circumference is 100 in a 36x36 viewBox.
const DonutRadius = 15.9155

type Ring struct {
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
	DashArray  string  `json:"dash_array"`
}

// Donut draws a single 0-100 value as a partial ring.
func Donut(label, color string, value float64) Ring {
	pct := math.Min(math.Max(value, 0), 100)
	circumference := 2 * math.Pi * DonutRadius
	return Ring{
		Label:      label,
		Color:      color,
		Percentage: pct,
		DashArray:  fmt.Sprintf("%s %s", num(pct/100*circumference), num(circumference)),
	}
}

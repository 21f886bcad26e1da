// models/chart.go
package models

// ChartSeriesPoint is one static data point; Color is only used by pie slices.
type ChartSeriesPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
}

type Performer struct {
	Name   string  `json:"name" yaml:"name"`
	Return float64 `json:"return" yaml:"return"`
	Color  string  `json:"color" yaml:"color"`
}

// ActivityDay is one day of the activity heatmap input.
type ActivityDay struct {
	Date  string  `json:"date" yaml:"date"` // 2006-01-02
	Score float64 `json:"score" yaml:"score"`
}

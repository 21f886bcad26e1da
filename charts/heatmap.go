package charts

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// DefaultPalette runs from no activity to the most active day.
var DefaultPalette = []string{"#EBEDF0", "#C6D4F7", "#87A8EE", "#4169E1", "#0000CD"}

type Cell struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	Level int     `json:"level"`
	Color string  `json:"color"`
	Blank bool    `json:"blank"`
}

// Heatmap has one column per week; rows are weekdays, Sunday first.
type Heatmap struct {
	Weeks   [][7]Cell `json:"weeks"`
	Palette []string  `json:"palette"`
	Max     float64   `json:"max"`
}

// BuildHeatmap buckets scores (keyed by YYYY-MM-DD) over the inclusive range
// [from, to]. Days outside the range are blank cells padding the first and last week.
func BuildHeatmap(from, to time.Time, scores map[string]float64, palette []string) Heatmap {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	h := Heatmap{Palette: palette}

	from = day(from)
	to = day(to)
	if to.Before(from) {
		return h
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		h.Max = math.Max(h.Max, scores[d.Format(dateLayout)])
	}

	start := from.AddDate(0, 0, -int(from.Weekday()))
	for weekStart := start; !weekStart.After(to); weekStart = weekStart.AddDate(0, 0, 7) {
		var week [7]Cell
		for i := 0; i < 7; i++ {
			d := weekStart.AddDate(0, 0, i)
			key := d.Format(dateLayout)
			if d.Before(from) || d.After(to) {
				week[i] = Cell{Date: key, Blank: true}
				continue
			}
			score := scores[key]
			level := quantize(score, h.Max, len(palette))
			week[i] = Cell{Date: key, Score: score, Level: level, Color: palette[level]}
		}
		h.Weeks = append(h.Weeks, week)
	}
	return h
}

// quantize maps (0, max] onto palette levels 1..n-1; zero activity is level 0.
func quantize(score, max float64, n int) int {
	if score <= 0 || max <= 0 || n < 2 {
		return 0
	}
	level := int(math.Ceil(score / max * float64(n-1)))
	if level > n-1 {
		level = n - 1
	}
	if level < 1 {
		level = 1
	}
	return level
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

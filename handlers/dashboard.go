// handlers/dashboard.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finlit-platform/charts"
	"finlit-platform/models"
	"finlit-platform/provider"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// activityWeeks is how far back the dashboard heatmap reaches.
const activityWeeks = 12

// maxActivityDays bounds a requested heatmap span to 53 weeks.
const maxActivityDays = 53 * 7

type PieCard struct {
	Title    string
	Segments []charts.Segment
}

type ActivityCell struct {
	X, Y  int
	Date  string
	Score float64
	Color string
}

type ActivityGrid struct {
	Width, Height int
	Cells         []ActivityCell
}

type DashboardData struct {
	models.Page
	Viewport      charts.Viewport
	Line          charts.LineGeometry
	Ranges        []models.TimeRange
	Pies          []PieCard
	TopPerformers []models.Performer
	Activity      ActivityGrid
}

type dashboardSources struct {
	series     []models.ChartSeriesPoint
	allocation []models.ChartSeriesPoint
	sectors    []models.ChartSeriesPoint
	top        []models.Performer
	activity   []models.ActivityDay
}

// loadDashboard fetches everything the dashboard draws in parallel.
func (env *Env) loadDashboard(ctx context.Context, rangeKey string, from, to time.Time) (dashboardSources, error) {
	var src dashboardSources
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		src.series, err = env.Data.FetchSeries(ctx, rangeKey)
		return err
	})
	g.Go(func() (err error) {
		src.allocation, err = env.Data.FetchAllocation(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.sectors, err = env.Data.FetchSectors(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.top, err = env.Data.FetchTopPerformers(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.activity, err = env.Data.FetchActivity(ctx, from, to)
		return err
	})
	return src, g.Wait()
}

func (env *Env) activityWindow() (time.Time, time.Time) {
	to := env.now()
	return to.AddDate(0, 0, -7*activityWeeks+1), to
}

func scoresByDate(days []models.ActivityDay) map[string]float64 {
	scores := make(map[string]float64, len(days))
	for _, d := range days {
		scores[d.Date] = d.Score
	}
	return scores
}

const cellStep = 14

func activityGrid(h charts.Heatmap) ActivityGrid {
	grid := ActivityGrid{Width: len(h.Weeks) * cellStep, Height: 7 * cellStep}
	for w, week := range h.Weeks {
		for d, c := range week {
			if c.Blank {
				continue
			}
			grid.Cells = append(grid.Cells, ActivityCell{
				X: w * cellStep, Y: d * cellStep,
				Date: c.Date, Score: c.Score, Color: c.Color,
			})
		}
	}
	return grid
}

func DashboardPage(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := env.guardPage(w, r)
		if !ok {
			return
		}

		keys, def := provider.Ranges(env.Data)
		selected := r.URL.Query().Get("range")
		if selected == "" {
			selected = def
		}

		from, to := env.activityWindow()
		src, err := env.loadDashboard(r.Context(), selected, from, to)
		if errors.Is(err, provider.ErrUnknownRange) {
			selected = def
			src, err = env.loadDashboard(r.Context(), selected, from, to)
		}
		if err != nil {
			env.logger().Error("load dashboard", zap.Error(err))
			http.Error(w, "Something went wrong, please try again.", http.StatusInternalServerError)
			return
		}

		ranges := make([]models.TimeRange, len(keys))
		for i, k := range keys {
			ranges[i] = models.TimeRange{Key: k, Active: k == selected}
		}

		data := DashboardData{
			Page:     env.page(sess, "Dashboard", "/dashboard"),
			Viewport: charts.DefaultViewport,
			Line:     charts.Line(src.series, charts.DefaultViewport),
			Ranges:   ranges,
			Pies: []PieCard{
				{Title: "Market Cap Allocation", Segments: charts.Pie(src.allocation)},
				{Title: "Sector Allocation", Segments: charts.Pie(src.sectors)},
			},
			TopPerformers: src.top,
			Activity:      activityGrid(charts.BuildHeatmap(from, to, scoresByDate(src.activity), charts.DefaultPalette)),
		}
		env.render(w, http.StatusOK, "dashboard", data)
	}
}

func GetSeries(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, def := provider.Ranges(env.Data)
		selected := r.URL.Query().Get("range")
		if selected == "" {
			selected = def
		}

		series, err := env.Data.FetchSeries(r.Context(), selected)
		if errors.Is(err, provider.ErrUnknownRange) {
			fail(w, http.StatusBadRequest, "Unknown time range.")
			return
		}
		if err != nil {
			env.serverError(w, "fetch series", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"range":    selected,
			"ranges":   keys,
			"series":   series,
			"geometry": charts.Line(series, charts.DefaultViewport),
		})
	}
}

func GetAllocation(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			alloc, sectors []models.ChartSeriesPoint
			top            []models.Performer
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) { alloc, err = env.Data.FetchAllocation(ctx); return err })
		g.Go(func() (err error) { sectors, err = env.Data.FetchSectors(ctx); return err })
		g.Go(func() (err error) { top, err = env.Data.FetchTopPerformers(ctx); return err })
		if err := g.Wait(); err != nil {
			env.serverError(w, "fetch allocation", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":        true,
			"allocation":     charts.Pie(alloc),
			"sectors":        charts.Pie(sectors),
			"top_performers": top,
		})
	}
}

// GetActivity serves the heatmap for ?from=&to= (YYYY-MM-DD), defaulting to
// the dashboard's window.
func GetActivity(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := env.activityWindow()
		q := r.URL.Query()
		if v := q.Get("from"); v != "" {
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				fail(w, http.StatusBadRequest, "from must be a YYYY-MM-DD date.")
				return
			}
			from = t
		}
		if v := q.Get("to"); v != "" {
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				fail(w, http.StatusBadRequest, "to must be a YYYY-MM-DD date.")
				return
			}
			to = t
		}
		if to.Before(from) {
			fail(w, http.StatusBadRequest, "from must not be after to.")
			return
		}
		if to.Sub(from) >= maxActivityDays*24*time.Hour {
			fail(w, http.StatusBadRequest, fmt.Sprintf("Activity spans at most %d days.", maxActivityDays))
			return
		}

		days, err := env.Data.FetchActivity(r.Context(), from, to)
		if err != nil {
			env.serverError(w, "fetch activity", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"days":    days,
			"heatmap": charts.BuildHeatmap(from, to, scoresByDate(days), charts.DefaultPalette),
		})
	}
}

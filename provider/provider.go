// Package provider is where pages get their chart, leaderboard, catalog and
// challenge data. Static serves built-in sample data; a real backend can
// satisfy DataProvider without touching the pages.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finlit-platform/challenge"
	"finlit-platform/models"
)

var ErrUnknownRange = errors.New("unknown time range")

type DataProvider interface {
	FetchSeries(ctx context.Context, rangeKey string) ([]models.ChartSeriesPoint, error)
	FetchAllocation(ctx context.Context) ([]models.ChartSeriesPoint, error)
	FetchSectors(ctx context.Context) ([]models.ChartSeriesPoint, error)
	FetchTopPerformers(ctx context.Context) ([]models.Performer, error)
	FetchLeaderboard(ctx context.Context) ([]models.FriendSkillProfile, error)
	FetchCatalog(ctx context.Context) ([]models.CourseCategory, error)
	FetchChallenge(ctx context.Context) (challenge.Card, error)
	FetchActivity(ctx context.Context, from, to time.Time) ([]models.ActivityDay, error)
}

// RangeSeries is the index series shown for one time-range button.
type RangeSeries struct {
	Key    string                    `yaml:"key"`
	Points []models.ChartSeriesPoint `yaml:"points"`
}

// Data is everything Static serves. Its yaml form is the DATA_FILE format.
type Data struct {
	DefaultRange  string                      `yaml:"default_range"`
	Ranges        []RangeSeries               `yaml:"ranges"`
	Allocation    []models.ChartSeriesPoint   `yaml:"allocation"`
	Sectors       []models.ChartSeriesPoint   `yaml:"sectors"`
	TopPerformers []models.Performer          `yaml:"top_performers"`
	Friends       []models.FriendSkillProfile `yaml:"friends"`
	Catalog       []models.CourseCategory     `yaml:"catalog"`
	Challenge     *challenge.Card             `yaml:"challenge"`
	Activity      []models.ActivityDay        `yaml:"activity"`
}

type Static struct {
	data Data
}

func NewStatic(data Data) *Static {
	return &Static{data: data}
}

// RangeKeys lists the selectable ranges in display order.
func (s *Static) RangeKeys() []string {
	keys := make([]string, len(s.data.Ranges))
	for i, r := range s.data.Ranges {
		keys[i] = r.Key
	}
	return keys
}

func (s *Static) DefaultRange() string {
	if s.data.DefaultRange != "" {
		return s.data.DefaultRange
	}
	if len(s.data.Ranges) > 0 {
		return s.data.Ranges[0].Key
	}
	return ""
}

func (s *Static) FetchSeries(ctx context.Context, rangeKey string) ([]models.ChartSeriesPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, r := range s.data.Ranges {
		if r.Key == rangeKey {
			return clone(r.Points), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRange, rangeKey)
}

func (s *Static) FetchAllocation(ctx context.Context) ([]models.ChartSeriesPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return clone(s.data.Allocation), nil
}

func (s *Static) FetchSectors(ctx context.Context) ([]models.ChartSeriesPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return clone(s.data.Sectors), nil
}

func (s *Static) FetchTopPerformers(ctx context.Context) ([]models.Performer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return clone(s.data.TopPerformers), nil
}

func (s *Static) FetchLeaderboard(ctx context.Context) ([]models.FriendSkillProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.FriendSkillProfile, len(s.data.Friends))
	for i, f := range s.data.Friends {
		out[i] = models.FriendSkillProfile{DisplayName: f.DisplayName, Skills: clone(f.Skills)}
	}
	return out, nil
}

func (s *Static) FetchCatalog(ctx context.Context) ([]models.CourseCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.CourseCategory, len(s.data.Catalog))
	for i, c := range s.data.Catalog {
		out[i] = models.CourseCategory{Name: c.Name, Courses: clone(c.Courses)}
	}
	return out, nil
}

func (s *Static) FetchChallenge(ctx context.Context) (challenge.Card, error) {
	if err := ctx.Err(); err != nil {
		return challenge.Card{}, err
	}
	if s.data.Challenge == nil {
		return challenge.DefaultCard(), nil
	}
	card := *s.data.Challenge
	card.Choices = clone(card.Choices)
	card.Explanations = make(map[string]string, len(s.data.Challenge.Explanations))
	for k, v := range s.data.Challenge.Explanations {
		card.Explanations[k] = v
	}
	return card, nil
}

// FetchActivity returns one entry per day in [from, to]. Days missing from the
// configured activity get a generated sample score.
func (s *Static) FetchActivity(ctx context.Context, from, to time.Time) ([]models.ActivityDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to = truncateDay(from), truncateDay(to)
	if to.Before(from) {
		return nil, nil
	}

	known := make(map[string]float64, len(s.data.Activity))
	for _, a := range s.data.Activity {
		known[a.Date] = a.Score
	}

	var out []models.ActivityDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		score, ok := known[key]
		if !ok {
			score = sampleScore(d)
		}
		out = append(out, models.ActivityDay{Date: key, Score: score})
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleScore is a repeatable 0-9 pattern that is lighter on weekends.
func sampleScore(d time.Time) float64 {
	v := (d.YearDay()*37 + d.Day()*11) % 10
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		v /= 3
	}
	return float64(v)
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

// RangeSource is implemented by providers that decide their own range buttons.
type RangeSource interface {
	RangeKeys() []string
	DefaultRange() string
}

// DefaultRanges are the range buttons used when a provider does not list its own.
var DefaultRanges = []string{"1M", "1Yr", "YTD", "3Yr", "All Time"}

// Ranges returns the range buttons of p and the one selected by default.
func Ranges(p DataProvider) (keys []string, def string) {
	if rs, ok := p.(RangeSource); ok {
		if keys = rs.RangeKeys(); len(keys) > 0 {
			return keys, rs.DefaultRange()
		}
	}
	return clone(DefaultRanges), "1Yr"
}

package provider

import (
	"finlit-platform/catalog"
	"finlit-platform/challenge"
	"finlit-platform/models"
)

var indexSeries = []models.ChartSeriesPoint{
	{Label: "2024-01", Value: 100},
	{Label: "2024-02", Value: 105},
	{Label: "2024-03", Value: 98},
	{Label: "2024-04", Value: 112},
	{Label: "2024-05", Value: 108},
	{Label: "2024-06", Value: 125},
	{Label: "2024-07", Value: 130},
	{Label: "2024-08", Value: 118},
	{Label: "2024-09", Value: 140},
}

func skills(trading, analysis, risk, portfolio float64) []models.Skill {
	return []models.Skill{
		{Name: "Trading Skills", Value: trading, Color: "#22C55E"},
		{Name: "Market Analysis", Value: analysis, Color: "#EF4444"},
		{Name: "Risk Management", Value: risk, Color: "#F97316"},
		{Name: "Portfolio Management", Value: portfolio, Color: "#EAB308"},
	}
}

// Default is the built-in sample data set.
func Default() Data {
	card := challenge.DefaultCard()
	return Data{
		DefaultRange: "1Yr",
		Ranges: []RangeSeries{
			{Key: "1M", Points: clone(indexSeries[len(indexSeries)-2:])},
			{Key: "1Yr", Points: clone(indexSeries)},
			{Key: "YTD", Points: clone(indexSeries)},
			{Key: "3Yr", Points: clone(indexSeries)},
			{Key: "All Time", Points: clone(indexSeries)},
		},
		Allocation: []models.ChartSeriesPoint{
			{Label: "Large Cap", Value: 65, Color: "#0000CD"},
			{Label: "Mid Cap", Value: 25, Color: "#4169E1"},
			{Label: "Small Cap", Value: 10, Color: "#87CEEB"},
		},
		Sectors: []models.ChartSeriesPoint{
			{Label: "Technology", Value: 28, Color: "#0000CD"},
			{Label: "Healthcare", Value: 22, Color: "#4169E1"},
			{Label: "Financial", Value: 18, Color: "#6495ED"},
			{Label: "Energy", Value: 15, Color: "#87CEEB"},
			{Label: "Others", Value: 17, Color: "#B0C4DE"},
		},
		TopPerformers: []models.Performer{
			{Name: "TechCorp", Return: 28.5, Color: "#0000CD"},
			{Name: "MedLife", Return: 22.3, Color: "#4169E1"},
			{Name: "GreenEnergy", Return: 19.8, Color: "#6495ED"},
		},
		Friends: []models.FriendSkillProfile{
			{DisplayName: "Alice", Skills: skills(80, 65, 50, 70)},
			{DisplayName: "Bob", Skills: skills(60, 85, 40, 75)},
			{DisplayName: "Charlie", Skills: skills(95, 40, 70, 55)},
		},
		Catalog:   catalog.DefaultCategories(),
		Challenge: &card,
	}
}

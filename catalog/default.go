package catalog

import "finlit-platform/models"

func course(id, title, description, difficulty string, xp int) models.Course {
	return models.Course{ID: id, Title: title, Description: description, Difficulty: difficulty, XP: xp}
}

// DefaultCategories is the built-in course list.
func DefaultCategories() []models.CourseCategory {
	return []models.CourseCategory{
		{Name: "Risk Management", Courses: []models.Course{
			course("intro-to-risk", "Introduction to Risk", "Basic concepts of financial risk", "Easy", 20),
			course("portfolio-diversification", "Portfolio Diversification", "Learn to spread investment risk", "Medium", 30),
			course("options-hedging", "Options Hedging Strategies", "Advanced hedging techniques", "Hard", 50),
			course("black-swan-events", "Black Swan Events", "Preparing for the unpredictable", "Impossible", 100),
		}},
		{Name: "Stocks", Courses: []models.Course{
			course("stock-market-basics", "Stock Market Basics", "Understanding how stocks work", "Easy", 20),
			course("technical-analysis", "Technical Analysis", "Reading charts and patterns", "Medium", 30),
			course("fundamental-analysis", "Fundamental Analysis", "Evaluating company financials", "Intermediate", 40),
			course("algorithmic-trading", "Algorithmic Trading", "Programming trading strategies", "Hard", 50),
			course("market-microstructure", "Market Microstructure", "How markets really work", "Impossible", 100),
		}},
		{Name: "Hedge Funds", Courses: []models.Course{
			course("what-are-hedge-funds", "What are Hedge Funds?", "Introduction to alternative investments", "Easy", 20),
			course("long-short-strategies", "Long/Short Strategies", "Market neutral approaches", "Medium", 30),
			course("quantitative-strategies", "Quantitative Strategies", "Math-driven investment approaches", "Hard", 50),
			course("prime-brokerage", "Prime Brokerage", "Institutional trading infrastructure", "Impossible", 100),
		}},
		{Name: "Landscape Research", Courses: []models.Course{
			course("industry-analysis", "Industry Analysis", "Researching market sectors", "Easy", 20),
			course("competitive-intelligence", "Competitive Intelligence", "Understanding market players", "Medium", 30),
			course("regulatory-impact", "Regulatory Impact Analysis", "How laws affect markets", "Intermediate", 40),
			course("macroeconomic-modeling", "Macroeconomic Modeling", "Building economic forecasts", "Hard", 50),
		}},
		{Name: "Variable Analysis", Courses: []models.Course{
			course("statistical-basics", "Statistical Basics", "Understanding data fundamentals", "Easy", 20),
			course("correlation-vs-causation", "Correlation vs Causation", "Interpreting relationships", "Medium", 30),
			course("regression-analysis", "Regression Analysis", "Predicting outcomes", "Intermediate", 40),
			course("machine-learning-models", "Machine Learning Models", "AI in financial analysis", "Hard", 50),
			course("stochastic-calculus", "Stochastic Calculus", "Advanced mathematical modeling", "Impossible", 100),
		}},
	}
}

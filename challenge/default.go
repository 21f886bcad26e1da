package challenge

// DefaultCard is today's card when no data file overrides it.
func DefaultCard() Card {
	return Card{
		ID:      "market-shock",
		Prompt:  "The president just got assassinated, what do you think the stock market will do?",
		Choices: []string{"Drop", "Nothing", "Rise"},
		Correct: "Drop",
		Reward:  50,
		Penalty: 5,
		Explanations: map[string]string{
			"Drop": "You picked the right choice! Historical data shows that major political disruptions, " +
				"especially sudden leadership changes, typically cause immediate market uncertainty and drops " +
				"as investors seek safer assets.",
			"Rise": "Markets rarely rise immediately after such dramatic political events. " +
				"Uncertainty typically drives investors to sell first and ask questions later.",
			"Nothing": "While markets can sometimes show initial resilience, assassination of a president " +
				"typically creates immediate uncertainty, causing markets to drop as a knee-jerk reaction.",
		},
	}
}

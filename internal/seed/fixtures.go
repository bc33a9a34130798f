package seed

import "github.com/letieu/ideadb/internal/database"

func cats(slugs ...string) []database.Category {
	out := make([]database.Category, len(slugs))
	for i, s := range slugs {
		out[i] = database.Category{Slug: s}
	}
	return out
}

// Sample is the demo catalog loaded by cmd/seed.
func Sample() Fixtures {
	return Fixtures{
		Categories: []database.Category{
			{Slug: "communication", Name: "Communication"},
			{Slug: "finance", Name: "Finance"},
			{Slug: "food-beverage", Name: "Food & Beverage"},
			{Slug: "healthcare", Name: "Healthcare"},
			{Slug: "hr-recruiting", Name: "HR & Recruiting"},
			{Slug: "productivity", Name: "Productivity"},
			{Slug: "technology", Name: "Technology"},
		},
		Problems: []database.Problem{
			{
				ID:          "prob_1",
				Title:       "Difficulty finding healthy fast food",
				Description: "People want to eat healthy but have limited time during lunch breaks. Fast food options are usually unhealthy.",
				PainPoints:  `High calories, low nutritional value, expensive "healthy" options`,
				Score:       10,
				Categories:  cats("food-beverage", "healthcare"),
			},
			{
				ID:          "prob_2",
				Title:       "Managing remote team culture",
				Description: "Companies struggle to maintain company culture and employee engagement when everyone is working from home.",
				PainPoints:  "Isolation, lack of spontaneous communication, burnout",
				Score:       15,
				Categories:  cats("hr-recruiting", "productivity"),
			},
			{
				ID:          "prob_3",
				Title:       "Too many subscription services",
				Description: "Users forget about subscriptions they don't use and waste money.",
				PainPoints:  "Financial waste, difficulty tracking",
				Score:       8,
				Categories:  cats("finance", "technology"),
			},
		},
		Ideas: []database.Idea{
			{
				ID:          "idea_1",
				Title:       "Healthy fast food vending machines",
				Description: "Vending machines that dispense fresh, healthy salads and bowls.",
				Features:    "Daily restocking, app integration, customizable orders",
				Score:       5,
				Categories:  cats("food-beverage"),
			},
			{
				ID:          "idea_2",
				Title:       "Virtual watercooler for remote teams",
				Description: "An app that simulates spontaneous office interactions through audio channels.",
				Features:    "Voice channels, games, random pairings",
				Score:       12,
				Categories:  cats("hr-recruiting", "productivity"),
			},
		},
		Products: []database.Product{
			{
				ID:          "prod_1",
				Name:        "Sweetgreen",
				Description: "Fast casual restaurant chain that serves healthy salads.",
				URL:         "https://sweetgreen.com",
				Categories:  cats("food-beverage"),
			},
			{
				ID:          "prod_2",
				Name:        "Discord",
				Description: "Voice, video and text communication service used by gamers and communities.",
				URL:         "https://discord.com",
				Categories:  cats("communication", "technology"),
			},
		},
		ProblemIdeas:    [][2]string{{"prob_1", "idea_1"}, {"prob_2", "idea_2"}},
		ProblemProducts: [][2]string{{"prob_1", "prod_1"}, {"prob_2", "prod_2"}},
	}
}

package catalog

import (
	"fmt"
	"strings"

	"github.com/wricardo/brainstress/game/quiz"
)

// DefaultMathItems is the length of a generated math quiz
const DefaultMathItems = 20

type builtinRecipe struct {
	id         string
	title      string
	difficulty quiz.Difficulty
	recipe     Recipe
}

var operatorTitles = map[quiz.Operator]string{
	quiz.Add:      "Additions",
	quiz.Subtract: "Subtractions",
	quiz.Multiply: "Multiplications",
	quiz.Divide:   "Divisions",
}

// builtinRecipes covers every operator at every difficulty
func builtinRecipes() []builtinRecipe {
	var recipes []builtinRecipe
	for _, op := range quiz.Operators() {
		for _, d := range []quiz.Difficulty{quiz.Easy, quiz.Normal, quiz.Hard} {
			title := operatorTitles[op]
			if d != quiz.Easy {
				name := string(d)
				title = fmt.Sprintf("%s (%s)", title, strings.ToUpper(name[:1])+name[1:])
			}
			recipes = append(recipes, builtinRecipe{
				id:         fmt.Sprintf("math-%s-%s", op, d),
				title:      title,
				difficulty: d,
				recipe:     Recipe{Operator: op, Count: DefaultMathItems},
			})
		}
	}
	return recipes
}

func textItem(text string, category quiz.Category, answers ...string) quiz.Item {
	return quiz.Item{
		Text:     text,
		Time:     quiz.ItemTime{quiz.Easy: 12, quiz.Normal: 10, quiz.Hard: 8},
		Answer:   quiz.Answer{Kind: quiz.Text, Values: answers},
		Category: category,
	}
}

func singleChoice(text string, category quiz.Category, answer string, choices ...string) quiz.Item {
	return quiz.Item{
		Text:     text,
		Time:     quiz.ItemTime{quiz.Easy: 10, quiz.Normal: 8, quiz.Hard: 6},
		Answer:   quiz.Answer{Kind: quiz.SingleChoice, Values: []string{answer}},
		Category: category,
		Choices:  choices,
	}
}

func multipleChoice(text string, category quiz.Category, answers []string, choices ...string) quiz.Item {
	return quiz.Item{
		Text:     text,
		Time:     quiz.ItemTime{quiz.Easy: 15, quiz.Normal: 12, quiz.Hard: 10},
		Answer:   quiz.Answer{Kind: quiz.MultipleChoice, Values: answers},
		Category: category,
		Choices:  choices,
	}
}

func builtinQuizzes() []*quiz.Quiz {
	geo, tricky, auto, corp := quiz.Geography, quiz.TrickyQuestions, quiz.Automotive, quiz.Corporate

	return []*quiz.Quiz{
		{
			ID:         "geography-capitals",
			Title:      "European Capitals",
			Category:   geo,
			Difficulty: quiz.Normal,
			Items: []quiz.Item{
				textItem("Capital of France?", geo, "Paris"),
				textItem("Capital of Romania?", geo, "Bucharest"),
				singleChoice("Capital of Australia?", geo, "Canberra", "Sydney", "Melbourne", "Canberra", "Perth"),
				textItem("Capital of Portugal?", geo, "Lisbon"),
				singleChoice("Capital of Switzerland?", geo, "Bern", "Zurich", "Geneva", "Bern", "Basel"),
			},
		},
		{
			ID:         "geography-rivers",
			Title:      "Rivers",
			Category:   geo,
			Difficulty: quiz.Hard,
			Items: []quiz.Item{
				singleChoice("Longest river in Europe?", geo, "Volga", "Danube", "Volga", "Rhine", "Loire"),
				multipleChoice("Which rivers flow through Germany?", geo, []string{"Rhine", "Elbe"}, "Rhine", "Seine", "Elbe", "Tagus"),
				textItem("River that flows through Cairo?", geo, "Nile"),
			},
		},
		{
			ID:         "tricky-classics",
			Title:      "Classic Brain Teasers",
			Category:   tricky,
			Difficulty: quiz.Easy,
			Items: []quiz.Item{
				textItem("How many months have 28 days?", tricky, "12"),
				singleChoice("What weighs more, a kilo of feathers or a kilo of steel?", tricky, "Neither", "Feathers", "Steel", "Neither"),
				textItem("A farmer has 17 sheep and all but 9 run away. How many are left?", tricky, "9"),
				multipleChoice("Which of these numbers are prime?", tricky, []string{"2", "3", "7"}, "1", "2", "3", "7", "9"),
			},
		},
		{
			ID:         "automotive-basics",
			Title:      "Under the Hood",
			Category:   auto,
			Difficulty: quiz.Normal,
			Items: []quiz.Item{
				singleChoice("Which fluid cools the engine?", auto, "Coolant", "Brake fluid", "Coolant", "Engine oil"),
				textItem("How many wheels does a standard car have?", auto, "4"),
				multipleChoice("Which are parts of a braking system?", auto, []string{"Caliper", "Rotor", "Pad"}, "Caliper", "Rotor", "Piston ring", "Pad", "Alternator"),
				singleChoice("What does EV stand for?", auto, "Electric vehicle", "Electric vehicle", "Engine valve", "Exhaust vent"),
			},
		},
		{
			ID:         "corporate-jargon",
			Title:      "Corporate Jargon",
			Category:   corp,
			Difficulty: quiz.Easy,
			Items: []quiz.Item{
				singleChoice("What does KPI stand for?", corp, "Key performance indicator", "Key performance indicator", "Known process issue", "Key product increment"),
				singleChoice("What does ROI measure?", corp, "Return on investment", "Rate of inflation", "Return on investment", "Risk of insolvency"),
				multipleChoice("Which of these are meeting types?", corp, []string{"Stand-up", "Retrospective"}, "Stand-up", "Retrospective", "Invoice", "Payroll"),
				textItem("How many quarters are in a fiscal year?", corp, "4"),
			},
		},
	}
}

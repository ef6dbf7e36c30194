// Package catalog provides the quizzes a player can pick from.
//
// The catalog package implements:
//   - Built-in arithmetic quizzes described as generator recipes
//   - Built-in static quizzes for the non-math categories
//   - Loading additional quizzes from JSON files in a directory
//   - Filtering by category, where "All" matches every quiz
//
// Recipes versus static quizzes:
//
// A math entry stores only an operator, a difficulty and an item count.
// Build draws fresh items from the generator every time, so two sessions of
// the same quiz ID see different numbers but share statistics. Static
// entries are validated when registered and Build hands out a clone.
//
// Quiz Files:
//
// Each *.json file in the quiz directory holds one quiz.Quiz. The file name
// without extension becomes the quiz ID when the document has none:
//
//	{
//	  "title": "Capitals",
//	  "category": {"name": "Geography"},
//	  "difficulty": "normal",
//	  "items": [
//	    {
//	      "text": "Capital of Norway?",
//	      "time": {"easy": 10, "normal": 8, "hard": 5},
//	      "answer": {"kind": "text", "values": ["Oslo"]},
//	      "category": {"name": "Geography"}
//	    }
//	  ]
//	}
//
// Usage:
//
//	manager := catalog.NewManager(quiz.NewGenerator(nil))
//	if err := manager.LoadDir("quizzes"); err != nil {
//		log.Fatal(err)
//	}
//	infos, _ := manager.ListQuizzes("Math")
//	q, err := manager.Build(infos[0].ID)
package catalog

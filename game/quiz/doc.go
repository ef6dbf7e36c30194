// Package quiz provides the quiz content model and the arithmetic item
// generator for BrainStress.
//
// The quiz package implements:
//   - Categories, difficulties and operators
//   - Quiz items with per-difficulty time budgets and typed answers
//   - Procedural generation of arithmetic items
//   - Clean number formatting and answer normalization
//   - Quiz validation
//
// Core Types:
//
// Item is a single immutable question. Quiz groups items under a title,
// category and difficulty. Generator produces arithmetic items for a given
// operator and difficulty using an injected random source.
//
// Usage:
//
//	gen := quiz.NewGenerator(nil)
//	items := gen.Generate(20, quiz.Easy, quiz.Add)
//
//	q := quiz.New("Additions", items, quiz.Math, quiz.Easy)
//	if err := quiz.Validate(q); err != nil {
//		log.Fatal(err)
//	}
//
// Answers:
//
// Numbers are held as float64 internally and displayed in their shortest
// decimal form, so 4.0 renders as "4". Answers are compared
// case-insensitively after normalization, which means "4.0", " 4 " and "4"
// all match an expected "4".
package quiz

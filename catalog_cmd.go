package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/brainstress/game/catalog"
	"github.com/wricardo/brainstress/game/quiz"
	"github.com/wricardo/brainstress/settings"
)

func catalogCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the quiz catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List quizzes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Value: quiz.All.Name, Usage: "category filter"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cat, err := loadCatalog()
					if err != nil {
						return err
					}
					return listQuizzes(out, cat, cmd.String("category"))
				},
			},
			{
				Name:      "preview",
				Usage:     "Print the items of a quiz with their answers",
				ArgsUsage: "<quiz-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "seed", Usage: "generator seed for math quizzes, 0 for random"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					quizID := cmd.Args().First()
					if quizID == "" {
						return fmt.Errorf("quiz ID required")
					}
					var gen *quiz.Generator
					if seed := cmd.Int("seed"); seed != 0 {
						gen = quiz.NewSeededGenerator(uint64(seed))
					}
					cat := catalog.NewManager(gen)
					if err := loadQuizDir(cat); err != nil {
						return err
					}
					return previewQuiz(out, cat, quizID)
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate JSON quizzes in a directory (QUIZ_DIR by default)",
				ArgsUsage: "[dir]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dir := cmd.Args().First()
					if dir == "" {
						s, err := settings.Load()
						if err != nil {
							return err
						}
						dir = s.QuizDir
					}
					if dir == "" {
						return fmt.Errorf("directory required (argument or QUIZ_DIR)")
					}
					return validateDir(out, dir)
				},
			},
			{
				Name:      "export",
				Usage:     "Freeze a quiz into a JSON file, generating its items first",
				ArgsUsage: "<quiz-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: ".", Usage: "output directory"},
					&cli.StringFlag{Name: "id", Usage: "ID of the exported quiz, a random UUID by default"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					quizID := cmd.Args().First()
					if quizID == "" {
						return fmt.Errorf("quiz ID required")
					}
					cat, err := loadCatalog()
					if err != nil {
						return err
					}
					return exportQuiz(out, cat, quizID, cmd.String("id"), cmd.String("dir"))
				},
			},
		},
	}
}

// loadCatalog returns the built-in catalog plus QUIZ_DIR
func loadCatalog() (*catalog.Manager, error) {
	cat := catalog.NewManager(nil)
	return cat, loadQuizDir(cat)
}

func loadQuizDir(cat *catalog.Manager) error {
	s, err := settings.Load()
	if err != nil {
		return err
	}
	if s.QuizDir == "" {
		return nil
	}
	return cat.LoadDir(s.QuizDir)
}

func listQuizzes(out io.Writer, cat *catalog.Manager, category string) error {
	quizzes, err := cat.ListQuizzes(category)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDIFFICULTY\tITEMS\tSOURCE")
	for _, q := range quizzes {
		source := q.Source
		if q.Generated {
			source = "generated"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", q.ID, q.Title, q.Category, q.Difficulty, q.ItemCount, source)
	}
	return tw.Flush()
}

func previewQuiz(out io.Writer, cat *catalog.Manager, quizID string) error {
	q, err := cat.Build(quizID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s, %s, %d items)\n\n", q.Title, q.Category.Name, q.Difficulty, len(q.Items))
	for i, item := range q.Items {
		fmt.Fprintf(out, "%2d. %s  [%ds]\n", i+1, item.Text, item.SecondsFor(q.Difficulty))
		if len(item.Choices) > 0 {
			fmt.Fprintf(out, "    choices: %s\n", strings.Join(item.Choices, ", "))
		}
		fmt.Fprintf(out, "    answer:  %s\n", strings.Join(item.Answer.Values, ", "))
	}
	return nil
}

func validateDir(out io.Writer, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("cannot read %s: %w", dir, err)
	}

	cat := catalog.NewManager(nil)
	before := cat.Count()
	err := cat.LoadDir(dir)
	fmt.Fprintf(out, "%d valid quizzes in %s\n", cat.Count()-before, dir)
	if err != nil {
		fmt.Fprintf(out, "invalid quizzes:\n%v\n", err)
		return fmt.Errorf("validation failed")
	}
	return nil
}

func exportQuiz(out io.Writer, cat *catalog.Manager, quizID, newID, dir string) error {
	q, err := cat.Build(quizID)
	if err != nil {
		return err
	}
	// an export without --id gets a fresh identity so it never collides
	// with the quiz it was frozen from
	fixed := quiz.New(q.Title, q.Items, q.Category, q.Difficulty)
	if newID != "" {
		fixed.ID = newID
	}
	q = fixed

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := cat.SaveQuiz(dir, q); err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %s as %s (%d items) to %s\n", quizID, q.ID, len(q.Items), dir)
	return nil
}

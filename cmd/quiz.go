package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/mode"
	"github.com/abhisek/studytutor/internal/quiz"
	"github.com/abhisek/studytutor/internal/session"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate and take a practice quiz in the terminal (no database)",
	Long: `Generate a five-question quiz on a topic and answer it on stdin.

This is a stateless developer tool: the API key is discovered from
GEMINI_API_KEY, GOOGLE_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or
OPENROUTER_API_KEY and nothing is logged. Use --file to grade a saved model
reply instead of calling a model, and --raw to print the parsed quiz in the
model's text format.`,
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().String("topic", "", "Topic to generate a quiz for")
	quizCmd.Flags().String("file", "", "Parse a saved model reply instead of calling a model")
	quizCmd.Flags().Bool("raw", false, "Print the parsed quiz and exit")
	quizCmd.MarkFlagsOneRequired("topic", "file")
	quizCmd.MarkFlagsMutuallyExclusive("topic", "file")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	file, _ := cmd.Flags().GetString("file")
	raw, _ := cmd.Flags().GetBool("raw")

	ctx := context.Background()
	sess := session.New()
	practice := mode.NewPractice(sess)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read quiz file: %w", err)
		}
		sess.RegenerateQuiz(quiz.Parse(string(data)))
	} else {
		cfg, key, ok := llm.DiscoverConfig()
		if !ok {
			return errors.New("no API key found in environment")
		}
		if m, _ := cmd.Flags().GetString("model"); m != "" {
			cfg.Model = m
		}

		// No EventRepo: logging skipped.
		connect := func(ctx context.Context, secret string) (session.Model, error) {
			c, err := llm.Connect(ctx, cfg, secret, nil)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
		if err := sess.SetCredential(ctx, key, connect); err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		fmt.Printf("Generating a quiz on %q with %s...\n\n", topic, cfg.DisplayName())
		if _, err := practice.Generate(ctx, topic); err != nil {
			return errors.New(mode.UserMessage(err))
		}
	}

	questions := sess.Quiz().Questions
	if len(questions) == 0 {
		return errors.New("no usable questions in the reply")
	}

	if raw {
		fmt.Print(quiz.Format(questions))
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for i, q := range questions {
		fmt.Printf("── Question %d/%d ──\n", i+1, len(questions))
		fmt.Println(q.Text)
		options := quiz.Options(q)
		for _, o := range options {
			fmt.Printf("  %s\n", o)
		}

		fmt.Print("\nYour answer (A-D): ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}
		for _, o := range options {
			if o[:1] == answer[:1] {
				practice.Answer(i, o)
			}
		}
		fmt.Println()
	}

	res, err := practice.Submit()
	if err != nil {
		return err
	}
	g := res.Grade

	for i, item := range g.Items {
		if item.Correct {
			fmt.Printf("\033[32mQ%d: ✓ Correct!\033[0m\n", i+1)
		} else {
			fmt.Printf("\033[31mQ%d: ✗ Incorrect.\033[0m The correct answer is %s)\n", i+1, item.Question.Correct)
		}
		fmt.Printf("Explanation: %s\n\n", item.Question.Explanation)
	}

	fmt.Printf("── Final Score: %d/%d ──\n", g.Score, g.Total)
	fmt.Println(g.Verdict)
	return nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lerda8/data-retrieving-training/internal/question"
)

// cmdTrain runs the interactive practice loop: the thin presentation layer
// over the session state machine.
func cmdTrain(args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	industry := ""
	if len(args) > 0 {
		industry = args[0]
	}
	if industry == "" {
		industry, err = pickIndustry(a)
		if err != nil {
			return err
		}
	}
	if err := a.machine.SelectIndustry(industry); err != nil {
		return err
	}

	fmt.Printf("Training in %s. Generating your first question...\n\n", industry)
	if err := showNewQuestion(ctx, a); err != nil {
		fmt.Printf("Could not generate a question: %v\nUse :new to try again.\n", err)
	}

	fmt.Println(`Type a SQL query to submit it, or a command:
  :new              new question        :difficulty <level>  easy|medium|hard
  :hint             get a hint          :industry <name>     switch industry
  :run <sql>        run against sample  :bookmark            bookmark question
  :progress         show progress       :quit                exit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nsql> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, ":") {
			quit, err := runCommand(ctx, a, line)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		submit(ctx, a, line)
	}
}

func pickIndustry(a *app) (string, error) {
	fmt.Println("Select an industry:")
	names := a.catalog.Industries()
	for i, name := range names {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
	fmt.Print("> ")

	var choice string
	if _, err := fmt.Scanln(&choice); err != nil {
		return "", err
	}
	for i, name := range names {
		if choice == name || choice == fmt.Sprint(i+1) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown industry %q", choice)
}

func showNewQuestion(ctx context.Context, a *app) error {
	q, err := a.machine.RequestQuestion(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Question (%s):\n  %s\n", q.Difficulty, q.Prompt)
	return nil
}

func submit(ctx context.Context, a *app, query string) {
	fb, err := a.machine.Submit(ctx, query)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if fb.IsCorrect {
		fmt.Printf("Correct! %s\n", fb.Feedback)
	} else {
		fmt.Printf("Not quite. %s\n", fb.Feedback)
	}
	if fb.Hint != "" {
		fmt.Printf("Hint: %s\n", fb.Hint)
	}
	if fb.CorrectedQuery != "" {
		fmt.Printf("Suggested query:\n  %s\n", fb.CorrectedQuery)
	}
	if fb.PerformanceNotes != "" {
		fmt.Printf("Performance: %s\n", fb.PerformanceNotes)
	}
}

func runCommand(ctx context.Context, a *app, line string) (quit bool, err error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case ":quit", ":q", ":exit":
		showProgress(a)
		return true, nil

	case ":new":
		return false, showNewQuestion(ctx, a)

	case ":hint":
		text, err := a.machine.RequestHint(ctx)
		if err != nil {
			return false, err
		}
		fmt.Printf("Hint: %s\n", text)
		return false, nil

	case ":difficulty":
		level, err := question.ParseDifficulty(rest)
		if err != nil {
			return false, err
		}
		if err := a.machine.ChangeDifficulty(level); err != nil {
			return false, err
		}
		fmt.Printf("Difficulty set to %s. Use :new for a question under the new constraint.\n", level)
		return false, nil

	case ":industry":
		if err := a.machine.ChangeIndustry(rest); err != nil {
			return false, err
		}
		if rest == "" {
			fmt.Println("Left the current industry. Use :industry <name> to pick a new one.")
		} else {
			fmt.Printf("Switched to %s. Use :new for a question.\n", rest)
		}
		return false, nil

	case ":bookmark":
		if err := a.machine.BookmarkCurrent(); err != nil {
			return false, err
		}
		fmt.Println("Bookmarked.")
		return false, nil

	case ":progress":
		showProgress(a)
		return false, nil

	case ":run":
		if a.executor == nil {
			return false, fmt.Errorf("no playground database configured (set PLAYGROUND_DRIVER and PLAYGROUND_DSN)")
		}
		if rest == "" {
			return false, fmt.Errorf("usage: :run <sql>")
		}
		result := a.executor.Execute(ctx, rest)
		if !result.Success {
			fmt.Printf("Query failed: %s\n", result.Err)
			return false, nil
		}
		fmt.Println(strings.Join(result.Columns, " | "))
		for _, row := range result.Rows {
			fmt.Println(strings.Join(row, " | "))
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", cmd)
	}
}

func showProgress(a *app) {
	snap := a.machine.Snapshot()
	fmt.Printf("Progress: %d/%d correct (%.0f%%)\n",
		snap.Progress.CorrectCount,
		snap.Progress.TotalAttempts,
		a.machine.Accuracy()*100)

	history := snap.Progress.History
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	for _, attempt := range history {
		mark := "✗"
		if attempt.Correct {
			mark = "✓"
		}
		fmt.Printf("  %s %s\n", mark, attempt.QuestionText)
	}
}

// Command quiz runs the adaptive financial assessment in the terminal
// against the real Gemini API. Answer with 1-4; the quiz adapts every
// five questions and ends with a persona summary.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nischint/nischint/internal/assessment"
	"github.com/nischint/nischint/internal/domain"
	"github.com/nischint/nischint/internal/gemini"
	"github.com/nischint/nischint/internal/logger"
)

func main() {
	var (
		name   = flag.String("name", "", "Your name (optional, passed to the question generator)")
		age    = flag.Int("age", 0, "Your age (optional)")
		gender = flag.String("gender", "", "Your gender (optional)")
		model  = flag.String("model", gemini.DefaultModel, "Gemini model to use")
	)
	flag.Parse()

	log := logger.New()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	gem, err := gemini.NewServiceWithModel(ctx, *model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini service (is GEMINI_API_KEY set?)")
	}

	user := domain.UserContext{Name: *name, Age: *age, Gender: *gender}
	flow := assessment.NewFlow(gem, user, log)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Nischint financial assessment")
	fmt.Printf("%d questions, adapted to your answers as you go.\n\n", assessment.TotalQuestions)

	for !flow.Done() {
		q, ok := flow.Current()
		if !ok {
			break
		}

		answered := len(flow.Answers())
		fmt.Printf("Q%d. %s\n", answered+1, q.Text)
		for i, opt := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, opt.Text)
		}

		opt, ok := readChoice(reader, q.Options)
		if !ok {
			fmt.Println("\nQuiz aborted.")
			return
		}

		if err := flow.Answer(ctx, opt); err != nil {
			log.Fatal().Err(err).Msg("Failed to record answer")
		}
		fmt.Println()
	}

	fmt.Printf("All done, %d answers recorded. Summarizing...\n\n", len(flow.Answers()))

	summary := assessment.Summarize(ctx, gem, flow.Profile(), log)
	fmt.Println(summary)
}

// readChoice reads a 1-based option index from stdin until valid.
// Returns false on EOF or "q".
func readChoice(reader *bufio.Reader, options []domain.Option) (domain.Option, bool) {
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return domain.Option{}, false
		}

		input := strings.TrimSpace(line)
		if input == "q" || input == "quit" {
			return domain.Option{}, false
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(options) {
			fmt.Printf("Please enter a number between 1 and %d (or q to quit).\n", len(options))
			continue
		}

		return options[n-1], true
	}
}

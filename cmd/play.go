package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/app"
	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/round"
	"github.com/abhisek/mathiz-arcade/internal/screens/home"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play the arcade, or jump straight into one game",
	Long: "Play opens the arcade menu. With a game ID it starts that game directly.\n" +
		"Use --plain for a line-by-line mode without the full-screen UI.\n\n" +
		"Games: " + strings.Join(games.IDs(), ", "),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var game *games.Game
		if len(args) == 1 {
			g, err := games.Lookup(args[0])
			if err != nil {
				return err
			}
			game = &g
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if !plain {
			return runTUI(cmd, game)
		}
		if game == nil {
			return errors.New("--plain needs a game, e.g. mathiz-arcade play racing --plain")
		}
		return runPlain(cmd, *game)
	},
}

func init() {
	playCmd.Flags().Bool("plain", false, "Line mode: read answers from stdin, no full-screen UI")
}

// runTUI opens the store and launches the full-screen arcade.
func runTUI(cmd *cobra.Command, game *games.Game) error {
	logger := tuiLogger()
	st, err := openStore(cmd, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	banks, err := openBanks()
	if err != nil {
		return err
	}

	return app.Run(home.Deps{
		Banks:  banks,
		Events: st,
		Logger: logger,
		Play:   env.cfg.Play,
	}, game)
}

// runPlain plays g on stdin/stdout until the player quits.
func runPlain(cmd *cobra.Command, g games.Game) error {
	st, err := openStore(cmd, env.logger)
	if err != nil {
		return err
	}
	defer st.Close()

	banks, err := openBanks()
	if err != nil {
		return err
	}
	b, err := banks.Get(g.Topic)
	if err != nil {
		return err
	}

	ctrl, err := round.New(g, env.cfg.Play.Prepare(b), round.WithEvents(st), round.WithLogger(env.logger))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintf(out, "%s: %s\n", g.Name, g.Blurb)
	fmt.Fprintf(out, "Get %d right within %d answers. Type q to stop.\n\n", g.RequiredCorrect, g.MaxQuestions())

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	for {
		sum, err := ctrl.Run(ctx, lineResponder(in, out), plainObserver(out))
		if errors.Is(err, errQuit) {
			fmt.Fprintln(out, "Bye!")
			return nil
		}
		if err != nil {
			return err
		}
		printSummary(out, sum)

		choice, err := ask(in, out, nextPrompt(sum.CanPlayAgain))
		if err != nil {
			return nil
		}
		switch {
		case choice == "p" && sum.CanPlayAgain:
			err = ctrl.PlayAgain(ctx)
		case choice == "n":
			err = ctrl.NextSet(ctx)
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errQuit = errors.New("player quit")

// lineResponder reads one answer per line. "q" quits and end of input is
// treated the same way.
func lineResponder(in *bufio.Scanner, out io.Writer) round.Responder {
	return round.ResponderFunc(func(_ context.Context, p round.Prompt) (string, error) {
		line, err := ask(in, out, fmt.Sprintf("%2d. %s ", p.Number, p.Text))
		if err != nil || strings.EqualFold(line, "q") {
			return "", errQuit
		}
		return line, nil
	})
}

func plainObserver(out io.Writer) round.Observer {
	return round.Observer{
		OnPrompt: func(p round.Prompt) {
			if p.Retry {
				fmt.Fprintln(out, "    (one more try)")
			}
		},
		OnFeedback: func(_ round.Prompt, fb round.Feedback) {
			switch {
			case !fb.Correct:
				fmt.Fprintf(out, "    ✗ the answer is %d\n", fb.Expected)
			case fb.Milestone:
				fmt.Fprintf(out, "    ✓ %d in a row!\n", fb.Streak)
			default:
				fmt.Fprintln(out, "    ✓")
			}
		},
	}
}

func ask(in *bufio.Scanner, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		fmt.Fprintln(out)
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(in.Text()), nil
}

func nextPrompt(canPlayAgain bool) string {
	if canPlayAgain {
		return "[p] play missed again  [n] next set  [q] quit: "
	}
	return "[n] next set  [q] quit: "
}

func printSummary(w io.Writer, sum round.Summary) {
	p := sum.Progress
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Set %d, attempt %d: %s\n", sum.SetIndex, sum.Attempt, p.Reason)
	fmt.Fprintf(w, "  correct %d/%d  answered %d/%d  best streak %d  time %s\n",
		p.CorrectAnswers, p.RequiredCorrect, p.TotalAnswered, p.MaxQuestions,
		sum.BestStreak, sum.Duration.Round(time.Second))
	if len(sum.Deferred) > 0 {
		keys := make([]string, len(sum.Deferred))
		for i, item := range sum.Deferred {
			keys[i] = item.Key().String()
		}
		fmt.Fprintf(w, "  to practise: %s\n", strings.Join(keys, ", "))
	}
	fmt.Fprintln(w)
}

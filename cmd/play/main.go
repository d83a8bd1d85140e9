package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/logger"
	"github.com/stemsi/guesswise-backend/internal/model"
	"github.com/stemsi/guesswise-backend/internal/repository"
	"github.com/stemsi/guesswise-backend/internal/service"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func main() {
	app := &cli.App{
		Name:  "play",
		Usage: "play GuessWise in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "log level written to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:  "guess",
				Usage: "play guessing rounds against the engine",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "player", Value: "local", Usage: "player id for stats"},
					&cli.IntFlag{Name: "rounds", Usage: "stop after this many rounds (0 plays until quit)"},
				},
				Action: func(c *cli.Context) error {
					log := logger.New(os.Stderr, c.String("log-level"), "pretty")
					svc := newGameService(log, nil)
					interactive := term.IsTerminal(int(os.Stdin.Fd()))
					return playRounds(c.Context, os.Stdin, os.Stdout, svc, c.String("player"), c.Int("rounds"), interactive)
				},
			},
			{
				Name:      "grade",
				Usage:     "grade subjects given as name=marks",
				ArgsUsage: "Mathematics=90 Science=75 ...",
				Action: func(c *cli.Context) error {
					log := logger.New(os.Stderr, c.String("log-level"), "pretty")
					svc := service.NewGradeService(nil, nil, nil, log)
					return gradeSubjects(os.Stdout, svc, c.Args().Slice())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newGameService builds an in-memory game; a nil rng draws real targets.
func newGameService(log zerolog.Logger, rng service.RandomSource) *service.GameService {
	return service.NewGameService(service.GameDeps{
		Rounds:      repository.NewMemoryRoundStore(0),
		Stats:       repository.NewMemoryStatsStore(),
		Locker:      repository.NewMemoryLocker(),
		Leaderboard: repository.NewStaticLeaderboard(),
		Random:      rng,
	}, log)
}

// playRounds runs rounds until input ends, the player quits or maxRounds
// rounds were played. Prompts are only printed for interactive input.
func playRounds(ctx context.Context, in io.Reader, out io.Writer, svc *service.GameService, playerID string, maxRounds int, interactive bool) error {
	scanner := bufio.NewScanner(in)
	prompt := func(p string) {
		if interactive {
			fmt.Fprint(out, p)
		}
	}

	for played := 0; maxRounds <= 0 || played < maxRounds; played++ {
		started, err := svc.StartRound(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, started.Prompt)

		finished := false
		for !finished {
			prompt("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "q" || line == "quit" {
				return nil
			}

			result, err := svc.SubmitGuess(ctx, started.RoundID, playerID, line)
			if err != nil && !errors.Is(err, service.ErrInvalidGuess) {
				return err
			}
			fmt.Fprintln(out, result.Message)
			finished = result.Ended
		}

		stats, err := svc.GetStats(ctx, playerID)
		if err != nil {
			return err
		}
		printStats(out, stats)
	}
	return nil
}

func printStats(out io.Writer, stats model.PlayerStatsResponse) {
	fmt.Fprintf(out, "Games: %d  Won: %d  Win rate: %.0f%%  Score: %d  Streak: %d (best %d)\n",
		stats.TotalGames, stats.GamesWon, stats.WinRate, stats.TotalScore, stats.CurrentStreak, stats.BestStreak)
}

// gradeSubjects parses name=marks arguments and prints the grade.
func gradeSubjects(out io.Writer, svc *service.GradeService, args []string) error {
	if len(args) == 0 {
		return errors.New("at least one name=marks subject is required")
	}

	subjects := make([]model.SubjectMarks, 0, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("subject %q must look like name=marks", arg)
		}
		marks, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("marks for %q must be a whole number", name)
		}
		subjects = append(subjects, model.SubjectMarks{Name: strings.TrimSpace(name), Marks: marks})
	}

	result, err := svc.Compute(subjects)
	if err != nil {
		return err
	}

	for _, s := range subjects {
		fmt.Fprintf(out, "%-20s %3d\n", s.Name, s.Marks)
	}
	fmt.Fprintf(out, "Total: %d  Average: %.2f%%  Grade: %s\n", result.TotalMarks, result.AveragePercentage, result.Grade)
	return nil
}

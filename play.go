package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/brainstress/game/engine"
	"github.com/wricardo/brainstress/settings"
)

// Terminal commands understood by play
const (
	cmdPause  = ":pause"
	cmdResume = ":resume"
	cmdDone   = ":done"
	cmdQuit   = ":quit"
)

func playCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a quiz in the terminal",
		ArgsUsage: "<quiz-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			quizID := cmd.Args().First()
			if quizID == "" {
				return fmt.Errorf("quiz ID required, see: brainstress catalog list")
			}
			s, err := settings.Load()
			if err != nil {
				return err
			}
			// keep the terminal for the game
			logger := s.Logger(io.Discard)
			if s.LogLevel <= slog.LevelDebug {
				logger = s.Logger(os.Stderr)
			}
			return runPlay(ctx, s, logger, quizID, in, out)
		},
	}
}

// terminalView prints snapshots as the game clock pushes them
type terminalView struct {
	out      io.Writer
	mu       sync.Mutex
	phase    string
	item     int
	ended    chan engine.PhaseInfo
	endOnce  sync.Once
	lastTime string
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out, ended: make(chan engine.PhaseInfo, 1)}
}

func (v *terminalView) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

// BroadcastToSession prints phase changes, new items and the last seconds
// of each countdown
func (v *terminalView) BroadcastToSession(sessionID string, snap *engine.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	phaseChanged := snap.Phase.Name != v.phase
	itemChanged := snap.ItemNumber != v.item
	v.phase, v.item = snap.Phase.Name, snap.ItemNumber

	switch snap.Phase.Name {
	case "warm_up":
		fmt.Fprintf(v.out, "Get ready... %d\n", snap.WarmUpRemaining)
	case "playing":
		if itemChanged || phaseChanged {
			v.printItem(snap)
		} else if snap.ItemRemaining <= 3 && snap.TimeRemaining != v.lastTime {
			fmt.Fprintf(v.out, "  %s\n", snap.TimeRemaining)
		}
	case "paused":
		if phaseChanged {
			fmt.Fprintf(v.out, "Paused. Type %s to continue.\n", cmdResume)
		}
	case "feedback":
		if phaseChanged {
			if snap.Phase.Correct != nil && *snap.Phase.Correct {
				fmt.Fprintln(v.out, "  ✓ correct")
			} else {
				fmt.Fprintln(v.out, "  ✗ wrong")
			}
		}
	}
	v.lastTime = snap.TimeRemaining
}

// printItem writes the current item. Callers hold v.mu.
func (v *terminalView) printItem(snap *engine.Snapshot) {
	if snap.CurrentItem == nil {
		return
	}
	fmt.Fprintf(v.out, "\n[%d/%d] %s  (%s)\n", snap.ItemNumber, snap.TotalItems, snap.CurrentItem.Text, snap.TimeRemaining)
	if len(snap.CurrentItem.Choices) > 0 {
		fmt.Fprintf(v.out, "  choices: %s\n", strings.Join(snap.CurrentItem.Choices, ", "))
		fmt.Fprintf(v.out, "  one choice per line, %s when finished\n", cmdDone)
	}
}

// BroadcastEvent reports the end of the game once
func (v *terminalView) BroadcastEvent(sessionID string, event string, data any) {
	if event != "ended" {
		return
	}
	info, _ := data.(engine.PhaseInfo)
	v.endOnce.Do(func() {
		v.ended <- info
	})
}

// runPlay runs one quiz on the configured clock, reading answers from in
func runPlay(ctx context.Context, s *settings.Settings, logger *slog.Logger, quizID string, in io.Reader, out io.Writer) error {
	view := newTerminalView(out)

	a, err := newApp(ctx, s, logger, view)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.service
	if profile, err := svc.GetProfile(ctx); err == nil {
		view.printf("%s %s\n", profile.Greeting, profile.Nickname)
		if profile.ShowWelcome {
			view.printf("Answer each item before its countdown runs out. Commands: %s %s %s %s\n",
				cmdPause, cmdResume, cmdDone, cmdQuit)
		}
	}

	info, err := svc.CreateSession(ctx, quizID)
	if err != nil {
		return err
	}
	view.printf("%s\n", info.QuizTitle)

	if _, err := svc.StartSession(ctx, info.ID); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case end := <-view.ended:
			return printSummary(ctx, a, view, info.ID, info.QuizID, end)

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := handleLine(ctx, a, view, info.ID, strings.TrimSpace(line)); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				view.printf("  %v\n", err)
			}
		}
	}
}

var errQuit = errors.New("quit")

func handleLine(ctx context.Context, a *app, view *terminalView, sessionID, line string) error {
	svc := a.service
	switch line {
	case "":
		return nil
	case cmdQuit:
		return errQuit
	case cmdPause:
		_, err := svc.Pause(ctx, sessionID)
		return err
	case cmdResume:
		_, err := svc.Resume(ctx, sessionID)
		return err
	case cmdDone:
		_, err := svc.CompleteItem(ctx, sessionID)
		return err
	}

	result, err := svc.SubmitAnswer(ctx, sessionID, line)
	if err != nil {
		return err
	}
	if !result.Accepted {
		view.printf("  %s\n", result.Message)
	}
	return nil
}

func printSummary(ctx context.Context, a *app, view *terminalView, sessionID, quizID string, end engine.PhaseInfo) error {
	state, err := a.service.GetState(ctx, sessionID)
	if err != nil {
		return err
	}

	verdict := "You lost."
	if end.Win != nil && *end.Win {
		verdict = "You won!"
	}
	view.printf("\n%s Solved %d of %d.\n", verdict, state.SolvedCount, state.TotalItems)

	if stats, err := a.service.GetStats(ctx, quizID); err == nil {
		view.printf("%s: played %d, won %d, failed %d\n", stats.Title, stats.Played, stats.Wins, stats.Fails)
	}
	return nil
}

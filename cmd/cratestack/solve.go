package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/CaptShanks/cratestack/internal/crane"
	"github.com/CaptShanks/cratestack/internal/history"
	"github.com/CaptShanks/cratestack/internal/parser"
	"github.com/CaptShanks/cratestack/internal/report"
	"github.com/CaptShanks/cratestack/internal/tui"
)

// outcome is one parse-and-apply of an input
type outcome struct {
	puzzle  *parser.Puzzle
	steps   []crane.Step // per-move snapshots, only kept for the stepper
	applied int
	final   crane.Stacks
	tops    string
	err     error
}

// run converts o into what the print mode and the viewer display
func (o outcome) run(source string) tui.Run {
	r := tui.Run{Source: source, Applied: o.applied, Tops: o.tops, Err: o.err, Final: o.final}
	if o.puzzle != nil {
		r.Initial = o.puzzle.Stacks
		r.Moves = o.puzzle.Moves
	}
	return r
}

// solve parses input and applies every move to a single copy of the
// stacks. With snapshots set it replays instead, keeping the arrangement
// after each step for the stepper. The puzzle's stacks are left untouched.
func (a *app) solve(input string, maxStacks int, snapshots bool) outcome {
	puzzle, err := parser.Parse(input, maxStacks)
	if err != nil {
		return outcome{err: err}
	}
	a.log.Debug("parsed input",
		zap.Int("stacks", len(puzzle.Stacks)),
		zap.Int("moves", len(puzzle.Moves)),
		zap.Int("crates", puzzle.Stacks.Total()),
	)
	logStep := func(step int, m crane.Move) {
		a.log.Debug("applied move", zap.Int("step", step), zap.Stringer("move", m))
	}

	o := outcome{puzzle: puzzle, final: puzzle.Stacks}
	if snapshots {
		o.steps, o.err = puzzle.Stacks.Replay(puzzle.Moves)
		for i, s := range o.steps {
			logStep(i+1, s.Move)
		}
		o.applied = len(o.steps)
		if o.applied > 0 {
			o.final = o.steps[o.applied-1].After
		}
	} else {
		o.final = puzzle.Stacks.Clone()
		o.applied, o.err = o.final.ApplyEach(puzzle.Moves, logStep)
	}
	if o.err == nil {
		o.tops, o.err = o.final.Tops()
	}
	return o
}

func (a *app) runSolve(path string) error {
	format, err := report.ParseFormat(a.cfg.Output)
	if err != nil {
		return err
	}
	if a.diffMode && !a.printMode {
		return fmt.Errorf("--diff requires --print")
	}

	source := "stdin"
	var data []byte
	if path != "" && path != "-" {
		source = path
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(a.stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	o := a.solve(string(data), a.cfg.MaxStacks, a.interactive)
	a.archive(source, string(data), o)

	if a.interactive {
		tui.ApplyTheme(a.cfg.Theme)
		m := tui.NewModel(o.run(source), o.steps)
		if !a.cfg.SkipUpdateCheck {
			m = m.WithUpdateCheck(a.checker(), version)
		}
		if err := tui.RunStepper(m); err != nil {
			return fmt.Errorf("failed to run viewer: %w", err)
		}
		return o.err
	}

	if o.err != nil {
		return o.err
	}
	if a.printMode {
		tui.ApplyTheme(a.cfg.Theme)
		tui.EnableColor(true)
		tui.PrintRun(a.stdout, o.run(source))
		return nil
	}
	return report.Write(a.stdout, format, report.New(o.final, o.applied, o.tops))
}

// archive stores the run in history. Failures only warn; they never fail the run.
func (a *app) archive(source, input string, o outcome) {
	if !a.cfg.History {
		return
	}
	rec := history.Record{
		Timestamp: time.Now(),
		Source:    source,
		Status:    history.StatusSolved,
		Tops:      o.tops,
		Moves:     o.applied,
		Input:     input,
	}
	if o.err != nil {
		rec.Status = history.StatusFailed
		rec.Error = o.err.Error()
	}

	store := history.NewStore(a.cfg.HistoryDir, a.cfg.MaxHistory)
	path, err := store.Save(rec)
	if err != nil {
		a.log.Warn("could not archive run", zap.Error(err))
		return
	}
	a.log.Debug("archived run", zap.String("path", path), zap.String("status", rec.Status))

	if deleted, err := store.Cleanup(); err != nil {
		a.log.Warn("could not prune history", zap.Error(err))
	} else if deleted > 0 {
		a.log.Debug("pruned history", zap.Int("deleted", deleted))
	}
}

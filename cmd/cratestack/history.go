package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CaptShanks/cratestack/internal/history"
	"github.com/CaptShanks/cratestack/internal/tui"
)

func newHistoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, view and clear archived runs",
		Long: `Every run is archived as a YAML file in the history directory
(default ~/.cratestack/history). The newest entries are kept, up to max-history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistoryList("")
		},
	}
	cmd.AddCommand(
		newHistoryListCommand(a),
		newHistoryViewCommand(a),
		newHistoryClearCommand(a),
	)
	return cmd
}

func newHistoryListCommand(a *app) *cobra.Command {
	var failed, solved bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List archived runs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			switch {
			case failed:
				filter = history.StatusFailed
			case solved:
				filter = history.StatusSolved
			}
			return a.runHistoryList(filter)
		},
	}
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed runs")
	cmd.Flags().BoolVar(&solved, "solved", false, "Only show solved runs")
	cmd.MarkFlagsMutuallyExclusive("failed", "solved")
	return cmd
}

func (a *app) store() *history.Store {
	return history.NewStore(a.cfg.HistoryDir, a.cfg.MaxHistory)
}

func (a *app) runHistoryList(filter string) error {
	entries, err := a.store().List(filter)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(a.stdout, "No history files found in %s\n", a.cfg.HistoryDir)
		if filter != "" {
			fmt.Fprintf(a.stdout, "(filtered by: %s)\n", filter)
		}
		return nil
	}

	fmt.Fprintf(a.stdout, "History files in %s:\n\n", a.cfg.HistoryDir)
	fmt.Fprintf(a.stdout, "%3s  %-19s  %-20s  %s\n", "#", "TIMESTAMP", "SOURCE", "STATUS")
	fmt.Fprintln(a.stdout, strings.Repeat("-", 56))
	for i, e := range entries {
		fmt.Fprintln(a.stdout, tui.FormatHistoryEntryColored(i+1, e))
	}
	fmt.Fprintf(a.stdout, "\nTotal: %d entries (max: %d)\n", len(entries), a.cfg.MaxHistory)
	fmt.Fprintln(a.stdout, "\nUse 'cratestack history view <#>' to replay a specific entry")
	return nil
}

func newHistoryViewCommand(a *app) *cobra.Command {
	var diff bool
	cmd := &cobra.Command{
		Use:   "view [#|file]",
		Short: "Replay an archived run in print mode",
		Long: `Replays an archived run and prints its diagrams, like 'cratestack --print'.
The entry is chosen by its number in 'history list' (1 is the newest) or by
file name. Without an argument an interactive picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return a.runHistoryView(target, diff)
		},
	}
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a line diff of the initial and final diagrams")
	return cmd
}

func (a *app) runHistoryView(target string, diff bool) error {
	store := a.store()

	var path string
	if target == "" {
		if !isTerminal(a.stdin) {
			return fmt.Errorf("specify a history entry by number or file name")
		}
		entries, err := store.List("")
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(a.stdout, "No history entries to view.")
			return nil
		}
		tui.ApplyTheme(a.cfg.Theme)
		path, err = tui.RunPicker(entries)
		if err != nil {
			return fmt.Errorf("failed to run picker: %w", err)
		}
		if path == "" {
			return nil
		}
	} else {
		var err error
		if path, err = store.Resolve(target); err != nil {
			return err
		}
	}

	rec, err := store.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s  %s\n\n", rec.Timestamp.Format("2006-01-02 15:04:05"), strings.ToUpper(rec.Status))
	o := a.solve(rec.Input, a.cfg.MaxStacks, false)
	if o.puzzle == nil {
		fmt.Fprintf(a.stdout, "Input could not be parsed: %v\n", o.err)
		return nil
	}
	r := o.run(rec.Source)
	r.Diff = diff

	tui.ApplyTheme(a.cfg.Theme)
	tui.EnableColor(true)
	tui.PrintRun(a.stdout, r)
	return nil
}

func newHistoryClearCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every archived run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistoryClear(yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) runHistoryClear(yes bool) error {
	store := a.store()
	entries, err := store.List("")
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "No history files to clear.")
		return nil
	}

	if !yes {
		fmt.Fprintf(a.stdout, "This will delete %d history files from %s\n", len(entries), store.Dir)
		fmt.Fprint(a.stdout, "Are you sure? (y/N): ")
		response, _ := bufio.NewReader(a.stdin).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			fmt.Fprintln(a.stdout, "Cancelled.")
			return nil
		}
	}

	deleted, err := store.Clear()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted %d history files.\n", deleted)
	return nil
}

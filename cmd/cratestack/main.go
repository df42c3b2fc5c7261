package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/CaptShanks/cratestack/internal/config"
	"github.com/CaptShanks/cratestack/internal/crane"
	"github.com/CaptShanks/cratestack/internal/logging"
	"github.com/CaptShanks/cratestack/internal/parser"
	"github.com/CaptShanks/cratestack/internal/report"
	"github.com/CaptShanks/cratestack/internal/updater"
)

// version is overridden at release time with -ldflags "-X main.version=..."
var version = "0.1.0"

// app carries the streams and resolved settings shared by every command
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg *config.Config
	log *zap.Logger

	configPath  string
	printMode   bool
	diffMode    bool
	interactive bool
}

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := newRootCommand(a).Execute(); err != nil {
		handleError(a.stderr, err)
		os.Exit(1)
	}
}

func handleError(w io.Writer, err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	switch {
	case errors.Is(err, parser.ErrStructure):
		message += "\nHint: the stack diagram and the move list must be separated by one blank line."
	case errors.Is(err, crane.ErrUnknownStack):
		message += "\nHint: stack labels in moves must match the label line of the diagram."
	}
	fmt.Fprintf(w, "Error: %s\n", message)
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cratestack [file|-]",
		Short: "Rearrange crate stacks and report the top of each",
		Long: `cratestack reads a drawing of crate stacks, a blank line and a list of
"move N from A to B" instructions. The crane lifts one crate at a time, so
moved crates land in reverse order. The top crate of every stack is printed.

Input comes from the file argument, or from stdin when it is piped or "-".`,
		Example: `  cratestack input.txt
  cat input.txt | cratestack -p
  cratestack -i input.txt
  cratestack -o json input.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if (path == "" || path == "-") && isTerminal(a.stdin) {
				return cmd.Help()
			}
			return a.runSolve(path)
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/cratestack or ~/.cratestack/config.yaml, env CRATESTACK_CONFIG)")
	pf.String(config.KeyLogLevel, config.DefaultLogLevel, "Log level: debug, info, warn, error (logs go to stderr)")
	pf.Int(config.KeyMaxStacks, crane.DefaultMaxStacks, "Maximum number of stacks accepted in the diagram")

	f := cmd.Flags()
	f.BoolVarP(&a.printMode, "print", "p", false, "Print colored initial and final diagrams instead of the bare tops")
	f.BoolVar(&a.diffMode, "diff", false, "With --print, show a line diff of the initial and final diagrams")
	f.BoolVarP(&a.interactive, "interactive", "i", false, "Step through the moves in an interactive viewer")
	f.StringP(config.KeyOutput, "o", string(report.FormatText), "Summary format: "+report.FormatNames())
	f.Bool(config.FlagNoHistory, false, "Do not archive this run")
	cmd.MarkFlagsMutuallyExclusive("print", "interactive")

	cmd.AddCommand(
		newHistoryCommand(a),
		newVersionCommand(a),
		newUpgradeCommand(a),
	)
	return cmd
}

// setup resolves configuration and the logger before any command runs
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "_CONFIG")
	}
	cfg, err := config.Load(cmd.Flags(), path)
	if err != nil {
		return err
	}
	logger, err := logging.NewWithWriter(cfg.LogLevel, a.stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger
	if cfg.File != "" {
		a.log.Debug("loaded config", zap.String("file", cfg.File))
	}
	return nil
}

func (a *app) checker() *updater.Checker {
	dir, err := config.Dir()
	if err != nil {
		dir = ""
	}
	return updater.New("", dir, a.cfg.UpdateCheckInterval)
}

// isTerminal reports whether r is an interactive terminal rather than a pipe or file
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

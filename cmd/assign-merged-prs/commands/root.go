// Package commands implements the assign-merged-prs command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/similigh/assign-merged-prs/internal/core/config"
	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
	"github.com/similigh/assign-merged-prs/internal/core/state"
	"github.com/similigh/assign-merged-prs/internal/integrations/github"
	"github.com/similigh/assign-merged-prs/internal/logging"
	"github.com/similigh/assign-merged-prs/internal/report"
	"github.com/similigh/assign-merged-prs/internal/runner"
	"github.com/similigh/assign-merged-prs/internal/tui"
)

const usage = "Usage: assign-merged-prs <since>"

// environment is everything the command takes from the process.
type environment struct {
	getenv     func(string) string
	stdout     io.Writer
	stderr     io.Writer
	isTerminal func() bool
	newGitHub  func(ctx context.Context, token string, logger *zap.Logger) pipeline.GitHub
}

func processEnvironment() *environment {
	return &environment{
		getenv: os.Getenv,
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		newGitHub: func(ctx context.Context, token string, logger *zap.Logger) pipeline.GitHub {
			return github.NewClient(ctx, token, logger)
		},
	}
}

// reportedError is an error already written to stderr.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Execute runs the command with the process arguments and returns the exit code.
func Execute() int {
	return execute(newRootCmd(processEnvironment()), os.Args[1:])
}

func execute(cmd *cobra.Command, args []string) int {
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign-merged-prs <since>",
		Short: "Assign and label merged feat/fix pull requests for verification",
		Long: `Goes through the closed pull requests of GITHUB_REPO merged into the base
branch after <since>. Every PR whose title starts with feat: or fix: gets an
owner assigned and the needs-verification label added.

The owner is the author when the author merged the PR or belongs to the
organization, otherwise the merger.

Environment variables:
  GITHUB_TOKEN              Required. Token with pull request write access.
  GITHUB_REPO               Required. Repository as org/repo.
  ASSIGN_MERGED_PRS_CONFIG  Optional YAML or TOML file overriding the defaults.
  DRY_RUN                   Report what would change without changing it.
  ASSIGN_MERGED_PRS_VERBOSE Enable debug logging.
  ASSIGN_MERGED_PRS_TUI     Show interactive progress on a terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), env, args)
		},
	}
	cmd.SetOut(env.stdout)
	cmd.SetErr(env.stderr)
	return cmd
}

func run(parent context.Context, env *environment, args []string) error {
	cfg, err := config.FromEnv(env.getenv)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return reportedError{err}
	}

	if len(args) != 1 {
		fmt.Fprintln(env.stderr, usage)
		return reportedError{fmt.Errorf("expected exactly one argument, got %d", len(args))}
	}
	since, err := config.ParseSince(args[0])
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return reportedError{err}
	}

	runState := state.NewRun()
	logger := logging.New(cfg.Verbose, zapcore.AddSync(env.stderr), runState.ID)
	defer func() { _ = logger.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &pipeline.Dependencies{
		GitHub: env.newGitHub(ctx, cfg.Token, logger),
		State:  runState,
		Logger: logger,
	}

	var rep *runner.Report
	if cfg.TUI && env.getenv("CI") == "" && env.isTerminal() {
		rep, err = runInteractive(ctx, env, deps, cfg, since)
	} else {
		rep, err = runner.New(deps, cfg, since, report.NewPlain(env.stdout)).Run(ctx)
	}

	if rep != nil {
		if renderErr := report.Render(env.stdout, rep); renderErr != nil {
			logger.Warn("failed to render summary", zap.Error(renderErr))
		}
	}
	if err != nil {
		logger.Error("run aborted", zap.Error(err))
		return reportedError{err}
	}
	return nil
}

// runInteractive runs the pipeline in a goroutine while the TUI shows its
// progress. Quitting the TUI cancels the run.
func runInteractive(ctx context.Context, env *environment, deps *pipeline.Dependencies, cfg *config.Config, since time.Time) (*runner.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	statusChan := make(chan tui.ProgressMsg)
	reporter := tui.NewReporter(ctx, statusChan)
	r := runner.New(deps, cfg, since, reporter)

	var (
		rep    *runner.Report
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(statusChan)
		rep, runErr = r.Run(ctx)
	}()

	model := tui.NewModel(fmt.Sprintf("assign-merged-prs %s", cfg.Repo), statusChan)
	p := tea.NewProgram(model, tea.WithOutput(env.stdout))
	_, tuiErr := p.Run()
	cancel()
	<-done

	plain := report.NewPlain(env.stdout)
	for _, line := range reporter.Lines() {
		plain.Line(0, line)
	}

	if tuiErr != nil {
		deps.Logger.Warn("error running TUI", zap.Error(tuiErr))
	}
	return rep, runErr
}

// Package runner drives one pass over a repository's closed pull requests.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/similigh/assign-merged-prs/internal/core/config"
	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
	"github.com/similigh/assign-merged-prs/internal/core/state"
	"github.com/similigh/assign-merged-prs/internal/steps"
)

// Report holds the summary of a run.
type Report struct {
	RunID           string        `json:"run_id"`
	DryRun          bool          `json:"dry_run"`
	Since           time.Time     `json:"since"`
	Processed       int           `json:"processed"`
	Qualified       int           `json:"qualified"`
	Assigned        int           `json:"assigned"`
	Labeled         int           `json:"labeled"`
	SkippedAssignee int           `json:"skipped_assignee"`
	SkippedLabel    int           `json:"skipped_label"`
	Errors          []string      `json:"errors,omitempty"`
	Authors         []state.Entry `json:"authors"`
	Assignees       []state.Entry `json:"assignees"`
}

// Runner processes every closed PR through the verify-merged pipeline.
type Runner struct {
	deps     *pipeline.Dependencies
	cfg      *config.Config
	since    time.Time
	reporter pipeline.Reporter
	workflow string
}

// New creates a new Runner. reporter may be nil.
func New(deps *pipeline.Dependencies, cfg *config.Config, since time.Time, reporter pipeline.Reporter) *Runner {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.State == nil {
		deps.State = state.NewRun()
	}
	return &Runner{
		deps:     deps,
		cfg:      cfg,
		since:    since,
		reporter: reporter,
		workflow: pipeline.DefaultWorkflow,
	}
}

// Run lists the PRs and runs the pipeline for each one.
// The report is returned even when a read error aborts the run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.deps.GitHub == nil {
		return nil, fmt.Errorf("GitHub client is required")
	}
	org, repo, err := r.cfg.RepoParts()
	if err != nil {
		return nil, err
	}

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)
	p, err := registry.BuildFromNames(pipeline.ResolveSteps(r.workflow), r.deps)
	if err != nil {
		return nil, err
	}

	logger := r.deps.Logger
	report := &Report{
		RunID:  r.deps.State.ID,
		DryRun: r.cfg.DryRun,
		Since:  r.since,
	}
	defer r.fillCounts(report)

	r.line(0, fmt.Sprintf("Processing PRs since %s", r.since.Format("2006-01-02 15:04:05 -0700")))
	logger.Debug("starting run",
		zap.String("repo", r.cfg.Repo),
		zap.String("base", r.cfg.BaseBranch),
		zap.Bool("dry_run", r.cfg.DryRun),
		zap.Time("floor", r.cfg.Floor),
	)

	prs := PullRequests(ctx, r.deps.GitHub, PageOptions{
		Org:     org,
		Repo:    repo,
		Base:    r.cfg.BaseBranch,
		PerPage: r.cfg.PerPage,
		Floor:   r.cfg.Floor,
	})

	for pr, err := range prs {
		if err != nil {
			return report, err
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Processed++
		pCtx := pipeline.NewContext(ctx, org, repo, &pr, r.since, r.cfg, r.reporter)
		if err := p.Run(pCtx); err != nil {
			return report, fmt.Errorf("PR #%d: %w", pr.Number, err)
		}
		r.tally(report, pCtx.Result)
	}

	logger.Debug("run finished",
		zap.Int("processed", report.Processed),
		zap.Int("qualified", report.Qualified),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

func (r *Runner) tally(report *Report, res *pipeline.Result) {
	if !res.Qualified {
		return
	}
	report.Qualified++
	if res.Assigned {
		report.Assigned++
	}
	if res.AssigneeSkipped {
		report.SkippedAssignee++
	}
	if res.Labeled {
		report.Labeled++
	}
	if res.LabelSkipped {
		report.SkippedLabel++
	}
	for _, err := range res.Errors {
		report.Errors = append(report.Errors, fmt.Sprintf("#%d: %v", res.Number, err))
	}
}

func (r *Runner) fillCounts(report *Report) {
	report.Authors = r.deps.State.Authors.Sorted()
	report.Assignees = r.deps.State.Assignees.Sorted()
}

func (r *Runner) line(number int, text string) {
	if r.reporter != nil {
		r.reporter.Line(number, text)
	}
}

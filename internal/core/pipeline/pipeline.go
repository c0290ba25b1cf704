// Package pipeline provides the per-PR pipeline engine for assign-merged-prs.
// It defines the Step interface and the Context carried through the steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/similigh/assign-merged-prs/internal/core/config"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g. PR not merged, title without prefix).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// PullRequest is a closed pull request as listed by the GitHub API.
type PullRequest struct {
	Number    int
	Title     string
	Author    string
	MergedAt  *time.Time // nil while the PR is not merged
	CreatedAt time.Time
	Assignees []string
	Labels    []string
}

// IssueEvent is one entry of an issue's event history.
type IssueEvent struct {
	Event string // "merged", "labeled", "assigned", ...
	Actor string
}

// Role tells whether the assignee owns the PR or merged it.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMerger Role = "MERGER"
)

// Reason records which branch of the assignee decision was taken.
type Reason int

const (
	ReasonAuthorIsMerger Reason = iota + 1
	ReasonAuthorInOrg
	ReasonAuthorNotInOrg
	ReasonMergerUnknown
)

// Decision is the outcome of the assignee policy for one PR.
type Decision struct {
	Author   string
	Assignee string // empty when nobody can be assigned
	Role     Role
	Reason   Reason
}

// Result holds the accumulated results from pipeline execution for one PR.
type Result struct {
	Number          int
	Qualified       bool
	Skipped         bool
	SkipReason      string
	Decision        *Decision
	Assigned        bool
	AssigneeSkipped bool
	Labeled         bool
	LabelSkipped    bool
	Errors          []error
}

// Reporter receives human-readable progress lines.
// number is the PR the line is about, or 0 for run-level lines.
type Reporter interface {
	Line(number int, text string)
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Org and Repo identify the repository being processed.
	Org  string
	Repo string

	// PR is the pull request being processed.
	PR *PullRequest

	// Since is the merge cutoff given on the command line.
	Since time.Time

	// Config is the run configuration.
	Config *config.Config

	// Result accumulates the processing results.
	Result *Result

	// Reporter receives narration; nil discards it.
	Reporter Reporter
}

// NewContext creates a new pipeline context for a pull request.
func NewContext(ctx context.Context, org, repo string, pr *PullRequest, since time.Time, cfg *config.Config, reporter Reporter) *Context {
	return &Context{
		Ctx:      ctx,
		Org:      org,
		Repo:     repo,
		PR:       pr,
		Since:    since,
		Config:   cfg,
		Result:   &Result{Number: pr.Number},
		Reporter: reporter,
	}
}

// Printf sends a formatted progress line about the current PR to the reporter.
func (c *Context) Printf(format string, args ...interface{}) {
	if c.Reporter == nil {
		return
	}
	c.Reporter.Line(c.PR.Number, fmt.Sprintf(format, args...))
}

// Skip marks the PR as skipped and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}

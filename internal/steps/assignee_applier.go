package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
	"github.com/similigh/assign-merged-prs/internal/core/state"
)

// AssigneeApplier assigns the decided owner to PRs that have no assignee yet.
// A failed assignment is logged and recorded, never returned.
type AssigneeApplier struct {
	github pipeline.GitHub
	state  *state.Run
	logger *zap.Logger
}

// NewAssigneeApplier creates a new assignee applier step.
func NewAssigneeApplier(deps *pipeline.Dependencies) *AssigneeApplier {
	return &AssigneeApplier{
		github: deps.GitHub,
		state:  deps.State,
		logger: loggerOf(deps),
	}
}

// Name returns the step name.
func (s *AssigneeApplier) Name() string {
	return "assignee_applier"
}

// Run adds the assignee unless the PR is already assigned.
func (s *AssigneeApplier) Run(ctx *pipeline.Context) error {
	if s.github == nil || s.state == nil {
		return fmt.Errorf("GitHub client and run state are required for assignee_applier")
	}

	pr := ctx.PR
	decision := ctx.Result.Decision

	if decision == nil || decision.Assignee == "" {
		ctx.Result.AssigneeSkipped = true
		ctx.Printf("Skipping assignee for PR #%d, because no merger could be determined.", pr.Number)
		return nil
	}

	if len(pr.Assignees) > 0 {
		ctx.Result.AssigneeSkipped = true
		ctx.Printf("Skipping assignee for PR #%d, because it has already been assigned.", pr.Number)
		return nil
	}

	if !ctx.Config.DryRun {
		if err := s.github.AddAssignees(ctx.Ctx, ctx.Org, ctx.Repo, pr.Number, []string{decision.Assignee}); err != nil {
			s.logger.Error("Error adding assignee to PR",
				zap.Int("pr", pr.Number),
				zap.String("assignee", decision.Assignee),
				zap.Error(err),
			)
			ctx.Result.Errors = append(ctx.Result.Errors, err)
		}
	}

	// Counted on intent, so dry runs and failed calls show up in the report too.
	ctx.Result.Assigned = true
	s.state.Assignees.Inc(decision.Assignee)
	return nil
}

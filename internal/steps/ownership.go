package steps

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
	"github.com/similigh/assign-merged-prs/internal/core/state"
	"github.com/similigh/assign-merged-prs/internal/policy"
)

// timeLayout matches how the PR timestamps are narrated.
const timeLayout = "2006-01-02 15:04:05 MST"

// Ownership decides who should be assigned to a qualifying PR.
// Membership and event lookups are read errors and abort the run.
type Ownership struct {
	github pipeline.GitHub
	state  *state.Run
	logger *zap.Logger
}

// NewOwnership creates a new ownership step.
func NewOwnership(deps *pipeline.Dependencies) *Ownership {
	return &Ownership{
		github: deps.GitHub,
		state:  deps.State,
		logger: loggerOf(deps),
	}
}

// Name returns the step name.
func (s *Ownership) Name() string {
	return "ownership"
}

// Run resolves membership and the merger, then records the assignee decision.
func (s *Ownership) Run(ctx *pipeline.Context) error {
	if s.github == nil || s.state == nil {
		return fmt.Errorf("GitHub client and run state are required for ownership")
	}

	pr := ctx.PR
	org := ctx.Config.Organization

	inOrg, err := s.state.Membership.Resolve(ctx.Ctx, pr.Author, func(c context.Context, login string) (bool, error) {
		return s.github.IsOrgMember(c, org, login)
	})
	if err != nil {
		return fmt.Errorf("failed to check membership of %s for PR #%d: %w", pr.Author, pr.Number, err)
	}
	s.state.Authors.Inc(pr.Author)

	events, err := s.github.ListIssueEvents(ctx.Ctx, ctx.Org, ctx.Repo, pr.Number)
	if err != nil {
		return fmt.Errorf("failed to resolve merger of PR #%d: %w", pr.Number, err)
	}
	merger := policy.FindMerger(events)
	if !merger.Known {
		s.logger.Warn("no merged event found", zap.Int("pr", pr.Number))
	}

	decision := policy.DecideAssignee(pr.Author, merger, inOrg)
	ctx.Result.Decision = &decision

	who := decision.Assignee
	if who == "" {
		who = "nobody"
	}
	ctx.Printf("Assign PR #%d (%s/%s '%s') to %s %s because %s",
		pr.Number,
		pr.CreatedAt.UTC().Format(timeLayout),
		pr.MergedAt.UTC().Format(timeLayout),
		pr.Title,
		decision.Role,
		who,
		policy.Explain(decision, org),
	)
	return nil
}

func loggerOf(deps *pipeline.Dependencies) *zap.Logger {
	if deps.Logger == nil {
		return zap.NewNop()
	}
	return deps.Logger
}

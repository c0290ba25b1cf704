package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
	"github.com/similigh/assign-merged-prs/internal/policy"
)

// LabelApplier adds the verification label to qualifying PRs.
// A failed call is logged and recorded, never returned.
type LabelApplier struct {
	github pipeline.GitHub
	logger *zap.Logger
}

// NewLabelApplier creates a new label applier step.
func NewLabelApplier(deps *pipeline.Dependencies) *LabelApplier {
	return &LabelApplier{
		github: deps.GitHub,
		logger: loggerOf(deps),
	}
}

// Name returns the step name.
func (s *LabelApplier) Name() string {
	return "label_applier"
}

// Run adds the verification label unless it is already present.
func (s *LabelApplier) Run(ctx *pipeline.Context) error {
	if s.github == nil {
		return fmt.Errorf("GitHub client is required for label_applier")
	}

	pr := ctx.PR
	label := ctx.Config.VerifyLabel

	if policy.HasLabel(pr.Labels, label) {
		ctx.Result.LabelSkipped = true
		ctx.Printf("Skipping label for PR #%d, because it is already labeled", pr.Number)
		return nil
	}

	if ctx.Config.DryRun {
		ctx.Result.Labeled = true
		return nil
	}

	if err := s.github.AddLabels(ctx.Ctx, ctx.Org, ctx.Repo, pr.Number, []string{label}); err != nil {
		s.logger.Error("Error adding label to PR",
			zap.Int("pr", pr.Number),
			zap.String("label", label),
			zap.Error(err),
		)
		ctx.Result.Errors = append(ctx.Result.Errors, err)
		return nil
	}

	ctx.Result.Labeled = true
	return nil
}

// Package steps contains the pipeline steps run for every closed PR.
// Each step implements the pipeline.Step interface.
package steps

import (
	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
	"github.com/similigh/assign-merged-prs/internal/policy"
)

// Gatekeeper lets through only PRs merged after the cutoff with a recognized title prefix.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run skips the rest of the pipeline for PRs that do not qualify.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	pr := ctx.PR

	if pr.MergedAt == nil {
		return ctx.Skip("not merged")
	}
	if !policy.MergedAfter(pr.MergedAt, ctx.Since) {
		return ctx.Skip("merged before cutoff")
	}
	if !policy.NeedsVerification(pr.Title, ctx.Config.Prefixes) {
		return ctx.Skip("title has no recognized prefix")
	}

	ctx.Result.Qualified = true
	return nil
}

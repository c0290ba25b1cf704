package steps

import (
	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("ownership", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewOwnership(deps), nil
	})

	r.Register("assignee_applier", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewAssigneeApplier(deps), nil
	})

	r.Register("label_applier", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewLabelApplier(deps), nil
	})
}

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/similigh/assign-merged-prs/internal/core/state"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
type StepFactory func(deps *Dependencies) (Step, error)

// ListOptions selects one page of closed pull requests.
type ListOptions struct {
	State   string
	Base    string
	Page    int
	PerPage int
}

// GitHub is the subset of the GitHub API the steps and the runner use.
type GitHub interface {
	// ListPullRequests returns one page of pull requests and the next page number (0 when none).
	ListPullRequests(ctx context.Context, org, repo string, opts ListOptions) ([]PullRequest, int, error)
	ListIssueEvents(ctx context.Context, org, repo string, number int) ([]IssueEvent, error)
	IsOrgMember(ctx context.Context, org, user string) (bool, error)
	AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error
	AddLabels(ctx context.Context, org, repo string, number int, labels []string) error
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	GitHub GitHub
	State  *state.Run
	Logger *zap.Logger
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// verify-merged: assign an owner and add the verification label
	"verify-merged": {
		"gatekeeper",
		"ownership",
		"assignee_applier",
		"label_applier",
	},
}

// DefaultWorkflow is the preset used when none is requested.
const DefaultWorkflow = "verify-merged"

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps determines the steps to use for a workflow name.
func ResolveSteps(workflow string) []string {
	if workflow != "" {
		if preset, ok := GetPreset(workflow); ok {
			return preset
		}
	}
	return Presets[DefaultWorkflow]
}

// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
)

// ErrFake is returned by FakeGitHub when a call is configured to fail.
var ErrFake = errors.New("fake github failure")

// Call records one request made to FakeGitHub.
type Call struct {
	Method string
	Number int
	Args   []string
}

// FakeGitHub is an in-memory pipeline.GitHub.
// Pages are 1-indexed; a page number past the end returns an empty page.
type FakeGitHub struct {
	mu sync.Mutex

	Pages   [][]pipeline.PullRequest
	Events  map[int][]pipeline.IssueEvent
	Members map[string]bool

	// Failure switches.
	FailList      bool
	FailEvents    map[int]bool
	FailMember    map[string]bool
	FailAssignees map[int]bool
	FailLabels    map[int]bool

	Calls []Call
	// ListOpts records the options of every ListPullRequests call.
	ListOpts []pipeline.ListOptions
}

// NewFakeGitHub creates a FakeGitHub with initialized maps.
func NewFakeGitHub() *FakeGitHub {
	return &FakeGitHub{
		Events:        make(map[int][]pipeline.IssueEvent),
		Members:       make(map[string]bool),
		FailEvents:    make(map[int]bool),
		FailMember:    make(map[string]bool),
		FailAssignees: make(map[int]bool),
		FailLabels:    make(map[int]bool),
	}
}

func (f *FakeGitHub) record(method string, number int, args ...string) {
	f.Calls = append(f.Calls, Call{Method: method, Number: number, Args: args})
}

// ListPullRequests returns Pages[opts.Page-1].
func (f *FakeGitHub) ListPullRequests(_ context.Context, _, _ string, opts pipeline.ListOptions) ([]pipeline.PullRequest, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("ListPullRequests", 0)
	f.ListOpts = append(f.ListOpts, opts)
	if f.FailList {
		return nil, 0, ErrFake
	}

	idx := opts.Page - 1
	if idx < 0 || idx >= len(f.Pages) {
		return nil, 0, nil
	}
	next := 0
	if opts.Page < len(f.Pages) {
		next = opts.Page + 1
	}
	return f.Pages[idx], next, nil
}

// ListIssueEvents returns Events[number].
func (f *FakeGitHub) ListIssueEvents(_ context.Context, _, _ string, number int) ([]pipeline.IssueEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("ListIssueEvents", number)
	if f.FailEvents[number] {
		return nil, ErrFake
	}
	return f.Events[number], nil
}

// IsOrgMember returns Members[user].
func (f *FakeGitHub) IsOrgMember(_ context.Context, _, user string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("IsOrgMember", 0, user)
	if f.FailMember[user] {
		return false, ErrFake
	}
	return f.Members[user], nil
}

// AddAssignees records the call.
func (f *FakeGitHub) AddAssignees(_ context.Context, _, _ string, number int, assignees []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("AddAssignees", number, assignees...)
	if f.FailAssignees[number] {
		return ErrFake
	}
	return nil
}

// AddLabels records the call.
func (f *FakeGitHub) AddLabels(_ context.Context, _, _ string, number int, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("AddLabels", number, labels...)
	if f.FailLabels[number] {
		return ErrFake
	}
	return nil
}

// CallsTo returns the recorded calls of one method.
func (f *FakeGitHub) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Methods returns the distinct methods called, sorted.
func (f *FakeGitHub) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := map[string]bool{}
	for _, c := range f.Calls {
		seen[c.Method] = true
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Lines is a pipeline.Reporter that keeps every line.
type Lines struct {
	mu    sync.Mutex
	Texts []string
}

// Line appends text.
func (l *Lines) Line(_ int, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Texts = append(l.Texts, text)
}

// All returns a copy of the lines received so far.
func (l *Lines) All() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Texts...)
}

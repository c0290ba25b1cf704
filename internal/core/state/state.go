// Package state holds the in-memory state of a single run: the organization
// membership cache and the author and assignee counters. Nothing here outlives
// the process, and it is only touched from the runner goroutine.
package state

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Counter counts occurrences per login.
type Counter map[string]int

// Inc adds one to login's count.
func (c Counter) Inc(login string) {
	c[login]++
}

// Entry is one row of a sorted Counter.
type Entry struct {
	Login string `json:"login"`
	Count int    `json:"count"`
}

// Sorted returns the entries by descending count, then by login.
func (c Counter) Sorted() []Entry {
	entries := make([]Entry, 0, len(c))
	for login, n := range c {
		entries = append(entries, Entry{Login: login, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Login < entries[j].Login
	})
	return entries
}

// MembershipLookup asks the API whether login belongs to the organization.
type MembershipLookup func(ctx context.Context, login string) (bool, error)

// Membership caches organization membership per login.
// A login's membership is assumed not to change during a run.
type Membership struct {
	known map[string]bool
}

// Resolve returns the cached membership of login, calling lookup on first use.
// Lookup errors are returned and not cached.
func (m *Membership) Resolve(ctx context.Context, login string, lookup MembershipLookup) (bool, error) {
	if v, ok := m.known[login]; ok {
		return v, nil
	}
	v, err := lookup(ctx, login)
	if err != nil {
		return false, err
	}
	if m.known == nil {
		m.known = make(map[string]bool)
	}
	m.known[login] = v
	return v, nil
}

// Len reports how many logins have been resolved.
func (m *Membership) Len() int {
	return len(m.known)
}

// Run is the state of one invocation.
type Run struct {
	ID         string
	Membership *Membership
	Authors    Counter
	Assignees  Counter
}

// NewRun creates empty run state with a fresh id.
func NewRun() *Run {
	return &Run{
		ID:         uuid.NewString(),
		Membership: &Membership{},
		Authors:    make(Counter),
		Assignees:  make(Counter),
	}
}

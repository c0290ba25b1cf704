// Package policy holds the pure decision rules of assign-merged-prs: which PRs
// need verification and who should own them. Nothing here talks to GitHub.
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
)

// MergedEvent is the issue event kind recorded when a PR is merged.
const MergedEvent = "merged"

// Merger is the login that merged a PR, if one could be found.
type Merger struct {
	Login string
	Known bool
}

// NeedsVerification reports whether title starts, case-insensitively, with one
// of the prefixes followed by a colon (e.g. "feat:" or "fix:").
func NeedsVerification(title string, prefixes []string) bool {
	lower := strings.ToLower(title)
	for _, prefix := range prefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)+":") {
			return true
		}
	}
	return false
}

// MergedAfter reports whether the PR was merged strictly after since.
// Unmerged PRs never qualify.
func MergedAfter(mergedAt *time.Time, since time.Time) bool {
	return mergedAt != nil && mergedAt.After(since)
}

// FindMerger returns the actor of the first "merged" event.
func FindMerger(events []pipeline.IssueEvent) Merger {
	for _, e := range events {
		if e.Event == MergedEvent {
			return Merger{Login: e.Actor, Known: true}
		}
	}
	return Merger{}
}

// DecideAssignee picks the owner of a merged PR. The checks run in a fixed order:
//  1. the author merged it themselves: the author
//  2. the author is in the organization: the author
//  3. otherwise: the merger
//
// An unknown merger never equals the author. If the author is also outside the
// organization, the decision carries no assignee.
func DecideAssignee(author string, merger Merger, inOrg bool) pipeline.Decision {
	switch {
	case merger.Known && merger.Login == author:
		return pipeline.Decision{Author: author, Assignee: author, Role: pipeline.RoleOwner, Reason: pipeline.ReasonAuthorIsMerger}
	case inOrg:
		return pipeline.Decision{Author: author, Assignee: author, Role: pipeline.RoleOwner, Reason: pipeline.ReasonAuthorInOrg}
	case merger.Known:
		return pipeline.Decision{Author: author, Assignee: merger.Login, Role: pipeline.RoleMerger, Reason: pipeline.ReasonAuthorNotInOrg}
	default:
		return pipeline.Decision{Author: author, Role: pipeline.RoleMerger, Reason: pipeline.ReasonMergerUnknown}
	}
}

// Explain renders the "because ..." clause for a decision.
func Explain(d pipeline.Decision, org string) string {
	switch d.Reason {
	case pipeline.ReasonAuthorIsMerger:
		return "author is merger"
	case pipeline.ReasonAuthorInOrg:
		return fmt.Sprintf("they are in %s org", org)
	case pipeline.ReasonAuthorNotInOrg:
		return fmt.Sprintf("author %s is not in %s org", d.Author, org)
	default:
		return fmt.Sprintf("author %s is not in %s org and no merge event was found", d.Author, org)
	}
}

// HasLabel reports whether labels contains name exactly.
func HasLabel(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

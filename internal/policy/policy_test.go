package policy

import (
	"testing"
	"time"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
)

var defaultPrefixes = []string{"feat", "fix"}

func TestNeedsVerification(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"feat: add x", true},
		{"fix: bug", true},
		{"FIX: shouting", true},
		{"Feat:no space", true},
		{"docs: typo", false},
		{"feat(ui): scoped", false},
		{"fix bug", false},
		{" feat: leading space", false},
		{"prefix feat: inside", false},
		{"fixup: not fix", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := NeedsVerification(tt.title, defaultPrefixes); got != tt.want {
				t.Errorf("NeedsVerification(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestNeedsVerification_CustomPrefixes(t *testing.T) {
	if !NeedsVerification("Perf: faster", []string{"PERF"}) {
		t.Error("Expected configured prefix to match case-insensitively")
	}
	if NeedsVerification("feat: x", nil) {
		t.Error("Expected no match without prefixes")
	}
}

func TestMergedAfter(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := since.Add(-time.Hour)
	after := since.Add(time.Hour)
	equal := since

	if MergedAfter(nil, since) {
		t.Error("Expected unmerged PR to be excluded")
	}
	if MergedAfter(&before, since) {
		t.Error("Expected PR merged before cutoff to be excluded")
	}
	if MergedAfter(&equal, since) {
		t.Error("Expected PR merged exactly at cutoff to be excluded")
	}
	if !MergedAfter(&after, since) {
		t.Error("Expected PR merged after cutoff to qualify")
	}
}

func TestFindMerger(t *testing.T) {
	events := []pipeline.IssueEvent{
		{Event: "labeled", Actor: "alice"},
		{Event: "merged", Actor: "bob"},
		{Event: "merged", Actor: "mallory"},
		{Event: "closed", Actor: "bob"},
	}

	got := FindMerger(events)
	if !got.Known || got.Login != "bob" {
		t.Errorf("FindMerger() = %+v, want bob", got)
	}

	if got := FindMerger([]pipeline.IssueEvent{{Event: "closed", Actor: "bob"}}); got.Known {
		t.Errorf("Expected unknown merger, got %+v", got)
	}
	if got := FindMerger(nil); got.Known {
		t.Errorf("Expected unknown merger for no events, got %+v", got)
	}
}

func TestDecideAssignee(t *testing.T) {
	tests := []struct {
		name       string
		author     string
		merger     Merger
		inOrg      bool
		wantLogin  string
		wantRole   pipeline.Role
		wantReason pipeline.Reason
	}{
		{"merger is author, in org", "alice", Merger{"alice", true}, true, "alice", pipeline.RoleOwner, pipeline.ReasonAuthorIsMerger},
		{"merger is author, not in org", "alice", Merger{"alice", true}, false, "alice", pipeline.RoleOwner, pipeline.ReasonAuthorIsMerger},
		{"other merger, in org", "carol", Merger{"dave", true}, true, "carol", pipeline.RoleOwner, pipeline.ReasonAuthorInOrg},
		{"other merger, not in org", "alice", Merger{"bob", true}, false, "bob", pipeline.RoleMerger, pipeline.ReasonAuthorNotInOrg},
		{"unknown merger, in org", "carol", Merger{}, true, "carol", pipeline.RoleOwner, pipeline.ReasonAuthorInOrg},
		{"unknown merger, not in org", "alice", Merger{}, false, "", pipeline.RoleMerger, pipeline.ReasonMergerUnknown},
		{"empty known merger never matches author", "alice", Merger{"", true}, false, "", pipeline.RoleMerger, pipeline.ReasonAuthorNotInOrg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideAssignee(tt.author, tt.merger, tt.inOrg)
			if got.Assignee != tt.wantLogin || got.Role != tt.wantRole || got.Reason != tt.wantReason {
				t.Errorf("DecideAssignee(%q, %+v, %v) = %+v, want %s/%s/%d",
					tt.author, tt.merger, tt.inOrg, got, tt.wantLogin, tt.wantRole, tt.wantReason)
			}
			if got.Author != tt.author {
				t.Errorf("Expected author %q to be recorded, got %q", tt.author, got.Author)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		decision pipeline.Decision
		want     string
	}{
		{pipeline.Decision{Author: "alice", Reason: pipeline.ReasonAuthorIsMerger}, "author is merger"},
		{pipeline.Decision{Author: "carol", Reason: pipeline.ReasonAuthorInOrg}, "they are in argoproj org"},
		{pipeline.Decision{Author: "alice", Reason: pipeline.ReasonAuthorNotInOrg}, "author alice is not in argoproj org"},
		{pipeline.Decision{Author: "alice", Reason: pipeline.ReasonMergerUnknown}, "author alice is not in argoproj org and no merge event was found"},
	}

	for _, tt := range tests {
		if got := Explain(tt.decision, "argoproj"); got != tt.want {
			t.Errorf("Explain(%+v) = %q, want %q", tt.decision, got, tt.want)
		}
	}
}

func TestHasLabel(t *testing.T) {
	labels := []string{"bug", "needs-verification"}
	if !HasLabel(labels, "needs-verification") {
		t.Error("Expected exact label to match")
	}
	if HasLabel(labels, "Needs-Verification") {
		t.Error("Expected label match to be case-sensitive")
	}
	if HasLabel(nil, "needs-verification") {
		t.Error("Expected no match on empty labels")
	}
}

package runner

import (
	"context"
	"iter"
	"time"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
)

// PageOptions controls the closed PR listing.
type PageOptions struct {
	Org     string
	Repo    string
	Base    string
	PerPage int
	// Floor stops pagination once a page ends with a PR created at or before it.
	Floor time.Time
}

// PullRequests lazily lists closed PRs page by page, in fetch order.
// A list error is yielded once and ends the sequence.
func PullRequests(ctx context.Context, gh pipeline.GitHub, opts PageOptions) iter.Seq2[pipeline.PullRequest, error] {
	return func(yield func(pipeline.PullRequest, error) bool) {
		page := 1
		for {
			prs, next, err := gh.ListPullRequests(ctx, opts.Org, opts.Repo, pipeline.ListOptions{
				State:   "closed",
				Base:    opts.Base,
				Page:    page,
				PerPage: opts.PerPage,
			})
			if err != nil {
				yield(pipeline.PullRequest{}, err)
				return
			}

			for _, pr := range prs {
				if !yield(pr, nil) {
					return
				}
			}

			if !hasMore(prs, next, opts.Floor) {
				return
			}
			page++
		}
	}
}

// hasMore reports whether another page should be requested: the page was not
// empty, the API knows a next page, and its last PR is newer than floor.
func hasMore(prs []pipeline.PullRequest, next int, floor time.Time) bool {
	if len(prs) == 0 || next == 0 {
		return false
	}
	return prs[len(prs)-1].CreatedAt.After(floor)
}

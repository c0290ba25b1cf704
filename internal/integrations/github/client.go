// Package github implements the pipeline.GitHub port with go-github.
package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v60/github"
	"go.uber.org/zap"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
)

var _ pipeline.GitHub = (*Client)(nil)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
	logger *zap.Logger
}

// ListPullRequests fetches a single page of pull requests.
// The returned int is the next page number, 0 on the last page.
func (c *Client) ListPullRequests(ctx context.Context, org, repo string, opts pipeline.ListOptions) ([]pipeline.PullRequest, int, error) {
	prs, resp, err := c.client.PullRequests.List(ctx, org, repo, &github.PullRequestListOptions{
		State: opts.State,
		Base:  opts.Base,
		ListOptions: github.ListOptions{
			Page:    opts.Page,
			PerPage: opts.PerPage,
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pull requests for %s/%s (page %d): %w", org, repo, opts.Page, err)
	}
	c.logRateLimit(resp, "pulls", opts.Page, len(prs))

	result := make([]pipeline.PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, mapPullRequest(pr))
	}

	next := 0
	if resp != nil {
		next = resp.NextPage
	}
	return result, next, nil
}

// ListIssueEvents fetches every event of an issue or pull request.
func (c *Client) ListIssueEvents(ctx context.Context, org, repo string, number int) ([]pipeline.IssueEvent, error) {
	opts := &github.ListOptions{PerPage: 100}
	var all []pipeline.IssueEvent

	for {
		events, resp, err := c.client.Issues.ListIssueEvents(ctx, org, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for #%d (page %d): %w", number, opts.Page, err)
		}
		c.logRateLimit(resp, "issue_events", opts.Page, len(events))

		for _, e := range events {
			all = append(all, pipeline.IssueEvent{
				Event: e.GetEvent(),
				Actor: e.GetActor().GetLogin(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// IsOrgMember checks whether user is a member of org.
func (c *Client) IsOrgMember(ctx context.Context, org, user string) (bool, error) {
	member, resp, err := c.client.Organizations.IsMember(ctx, org, user)
	if err != nil {
		return false, fmt.Errorf("failed to check %s membership of %s: %w", org, user, err)
	}
	c.logRateLimit(resp, "org_members", 0, 1)
	return member, nil
}

// AddAssignees adds assignees to an issue or pull request.
func (c *Client) AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error {
	if len(assignees) == 0 {
		return fmt.Errorf("assignees cannot be empty")
	}

	_, _, err := c.client.Issues.AddAssignees(ctx, org, repo, number, assignees)
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// AddLabels adds labels to an issue or pull request.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// logRateLimit logs the rate limit status after each read.
func (c *Client) logRateLimit(resp *github.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	c.logger.Debug("github api call",
		zap.String("endpoint", endpoint),
		zap.Int("page", page),
		zap.Int("count", count),
		zap.Int("rate_remaining", resp.Rate.Remaining),
		zap.Int("rate_limit", resp.Rate.Limit),
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		c.logger.Warn("github rate limit low",
			zap.Int("remaining", resp.Rate.Remaining),
			zap.Duration("reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second)),
		)
	}
}

// mapPullRequest converts a go-github PullRequest to a pipeline PullRequest.
// It uses GetXxx() helpers to avoid nil pointer panics.
func mapPullRequest(pr *github.PullRequest) pipeline.PullRequest {
	var mergedAt *time.Time
	if pr.MergedAt != nil && !pr.MergedAt.IsZero() {
		t := pr.GetMergedAt().Time
		mergedAt = &t
	}

	assignees := make([]string, 0, len(pr.Assignees))
	for _, a := range pr.Assignees {
		assignees = append(assignees, a.GetLogin())
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	return pipeline.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Author:    pr.GetUser().GetLogin(),
		MergedAt:  mergedAt,
		CreatedAt: pr.GetCreatedAt().Time,
		Assignees: assignees,
		Labels:    labels,
	}
}

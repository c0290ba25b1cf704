package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v60/github"
	"github.com/gregjones/httpcache"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client using the provided token.
// Requests go through, in order:
//  1. oauth2 (token auth)
//  2. go-github-ratelimit (sleeps on secondary rate limits)
//  3. httpcache (ETag conditional requests)
//
// If token is empty, it returns an unauthenticated client.
func NewClient(ctx context.Context, token string, logger *zap.Logger) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	base := github_ratelimit.NewClient(cacheTransport)

	tc := base
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), ts)
	}

	return &Client{
		client: github.NewClient(tc),
		logger: orNop(logger),
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// It is meant for tests against an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, logger *zap.Logger) (*Client, error) {
	client := github.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		client: client,
		logger: orNop(logger),
	}, nil
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

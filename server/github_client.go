// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/die-net/lrucache"
	"github.com/google/go-github/v39/github"
	"github.com/m4ns0ur/httpcache"
	"github.com/mattermost/mattermost-ticketsync/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

//go:generate mockgen -destination=mocks/github_services_mock.go -package mocks github.com/mattermost/mattermost-ticketsync/server IssuesService,ProjectsService,OrganizationsService,RepositoriesService

type IssuesService interface {
	Get(ctx context.Context, owner string, repo string, number int) (*github.Issue, *github.Response, error)
	ListComments(ctx context.Context, owner string, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
}

type ProjectsService interface {
	ListProjectColumns(ctx context.Context, projectID int64, opts *github.ListOptions) ([]*github.ProjectColumn, *github.Response, error)
	ListProjectCards(ctx context.Context, columnID int64, opts *github.ProjectCardListOptions) ([]*github.ProjectCard, *github.Response, error)
}

type OrganizationsService interface {
	ListProjects(ctx context.Context, org string, opts *github.ProjectListOptions) ([]*github.Project, *github.Response, error)
}

type RepositoriesService interface {
	ListProjects(ctx context.Context, owner, repo string, opts *github.ProjectListOptions) ([]*github.Project, *github.Response, error)
}

// GithubClient wraps the github.Client with relevant interfaces.
type GithubClient struct {
	client *github.Client

	Issues        IssuesService
	Projects      ProjectsService
	Organizations OrganizationsService
	Repositories  RepositoriesService
}

// NewGithubClient builds a client that authenticates with the access token,
// else with username and password, else anonymously. Requests are rate
// limited, served from an LRU HTTP cache when GitHub allows it, and
// instrumented with the metrics provider.
func NewGithubClient(config *Config, metricsProvider metrics.Provider) *GithubClient {
	cache := lrucache.New(config.GithubCacheSizeMB*1024*1024, config.GithubCacheTTLSeconds)
	cacheTransport := httpcache.NewTransport(cache)
	cacheTransport.MarkCachedResponses = true
	cacheTransport.Transport = NewRateLimitTransport(rate.Limit(config.GithubRequestsPerSecond), config.GithubBurst, http.DefaultTransport)

	var transport http.RoundTripper = metrics.NewTransport(cacheTransport, metricsProvider)

	switch {
	case config.GithubAccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.GithubAccessToken})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	case config.GithubUsername != "" && config.GithubPassword != "":
		transport = &github.BasicAuthTransport{
			Username:  config.GithubUsername,
			Password:  config.GithubPassword,
			Transport: transport,
		}
	}

	return newGithubClient(github.NewClient(&http.Client{
		Transport: transport,
		Timeout:   time.Duration(config.RequestTimeoutSeconds) * time.Second,
	}))
}

func newGithubClient(client *github.Client) *GithubClient {
	return &GithubClient{
		client:        client,
		Issues:        client.Issues,
		Projects:      client.Projects,
		Organizations: client.Organizations,
		Repositories:  client.Repositories,
	}
}

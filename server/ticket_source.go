// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mocks/ticket_source_mock.go -package mocks github.com/mattermost/mattermost-ticketsync/server TicketSource

const perPage = 100

var issueContentURLPattern = regexp.MustCompile(`/repos/([^/]+)/([^/]+)/issues/(\d+)$`)

// TicketSource is the remote side of the synchronization. Every error it
// returns is a *RemoteFetchError; it never retries.
type TicketSource interface {
	// ListProjectCards walks the boards of repo, or of the whole organization
	// when repo is empty, in board, column and card order.
	ListProjectCards(ctx context.Context, organization, repo string) ([]*model.ProjectCard, error)
	// GetIssue fetches one issue with its full comment list.
	GetIssue(ctx context.Context, organization, repo string, number int) (*model.RemoteIssue, error)
}

type GithubTicketSource struct {
	client *GithubClient
}

func NewGithubTicketSource(client *GithubClient) *GithubTicketSource {
	return &GithubTicketSource{client: client}
}

func (s *GithubTicketSource) ListProjectCards(ctx context.Context, organization, repo string) ([]*model.ProjectCard, error) {
	projects, err := s.listProjects(ctx, organization, repo)
	if err != nil {
		return nil, &RemoteFetchError{Op: "list projects", Err: err}
	}

	var cards []*model.ProjectCard
	for _, project := range projects {
		columns, err := s.listColumns(ctx, project.GetID())
		if err != nil {
			return nil, &RemoteFetchError{Op: "list columns of project " + project.GetName(), Err: err}
		}

		for _, column := range columns {
			ghCards, err := s.listCards(ctx, column.GetID())
			if err != nil {
				return nil, &RemoteFetchError{Op: "list cards of column " + column.GetName(), Err: err}
			}

			for _, ghCard := range ghCards {
				issue, ok := issueFromContentURL(ghCard.GetContentURL())
				if !ok {
					// notes have no content
					mlog.Debug("Skipping card without issue", mlog.String("project", project.GetName()), mlog.String("column", column.GetName()), mlog.Int64("card", ghCard.GetID()))
					continue
				}
				cards = append(cards, &model.ProjectCard{
					Project: project.GetName(),
					Column:  column.GetName(),
					Issue:   issue,
				})
			}
		}
	}

	return cards, nil
}

func (s *GithubTicketSource) listProjects(ctx context.Context, organization, repo string) ([]*github.Project, error) {
	opts := &github.ProjectListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []*github.Project
	for {
		var projects []*github.Project
		var resp *github.Response
		var err error
		if repo != "" {
			projects, resp, err = s.client.Repositories.ListProjects(ctx, organization, repo, opts)
		} else {
			projects, resp, err = s.client.Organizations.ListProjects(ctx, organization, opts)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, projects...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (s *GithubTicketSource) listColumns(ctx context.Context, projectID int64) ([]*github.ProjectColumn, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var all []*github.ProjectColumn
	for {
		columns, resp, err := s.client.Projects.ListProjectColumns(ctx, projectID, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, columns...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (s *GithubTicketSource) listCards(ctx context.Context, columnID int64) ([]*github.ProjectCard, error) {
	opts := &github.ProjectCardListOptions{
		ArchivedState: github.String("not_archived"),
		ListOptions:   github.ListOptions{PerPage: perPage},
	}

	var all []*github.ProjectCard
	for {
		cards, resp, err := s.client.Projects.ListProjectCards(ctx, columnID, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, cards...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (s *GithubTicketSource) GetIssue(ctx context.Context, organization, repo string, number int) (*model.RemoteIssue, error) {
	op := "get issue " + organization + "/" + repo + "#" + strconv.Itoa(number)

	ghIssue, resp, err := s.client.Issues.Get(ctx, organization, repo, number)
	if err != nil {
		if resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound {
			err = errors.Wrap(ErrIssueNotFound, err.Error())
		}
		return nil, &RemoteFetchError{Op: op, Err: err}
	}

	comments, err := s.getComments(ctx, organization, repo, number)
	if err != nil {
		return nil, &RemoteFetchError{Op: "list comments of " + op, Err: err}
	}

	issue := &model.RemoteIssue{
		Organization: organization,
		Repo:         repo,
		Number:       number,
		Title:        ghIssue.GetTitle(),
		Body:         ghIssue.GetBody(),
		Assigned:     displayName(ghIssue.GetAssignee()),
		Status:       strings.ToUpper(ghIssue.GetState()),
		LastModified: lastModified(resp, ghIssue),
		Comments:     make([]model.Comment, 0, len(comments)),
	}

	for _, comment := range comments {
		issue.Comments = append(issue.Comments, model.Comment{
			Body:    comment.GetBody(),
			Created: model.NewTimestamp(comment.GetCreatedAt()),
			User:    displayName(comment.GetUser()),
			ID:      comment.GetID(),
		})
	}

	return issue, nil
}

func (s *GithubTicketSource) getComments(ctx context.Context, organization, repo string, number int) ([]*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []*github.IssueComment
	for {
		comments, resp, err := s.client.Issues.ListComments(ctx, organization, repo, number, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, comments...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// lastModified prefers the Last-Modified response header and falls back to
// the issue's updated_at.
func lastModified(resp *github.Response, issue *github.Issue) model.Timestamp {
	if resp != nil && resp.Response != nil {
		if header := resp.Header.Get("Last-Modified"); header != "" {
			ts, err := model.ParseTimestamp(header)
			if err == nil {
				return ts
			}
			mlog.Warn("Unable to parse Last-Modified header", mlog.String("value", header), mlog.Err(err))
		}
	}
	if issue.UpdatedAt == nil {
		return model.Timestamp{}
	}
	return model.NewTimestamp(issue.GetUpdatedAt())
}

func displayName(user *github.User) string {
	if name := user.GetName(); name != "" {
		return name
	}
	return user.GetLogin()
}

func issueFromContentURL(contentURL string) (*model.RemoteIssue, bool) {
	match := issueContentURLPattern.FindStringSubmatch(contentURL)
	if match == nil {
		return nil, false
	}
	number, err := strconv.Atoi(match[3])
	if err != nil {
		return nil, false
	}
	return &model.RemoteIssue{
		Organization: match[1],
		Repo:         match[2],
		Number:       number,
	}, true
}

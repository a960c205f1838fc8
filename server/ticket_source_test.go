// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-ticketsync/server/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGithubServices struct {
	issues        *mocks.MockIssuesService
	projects      *mocks.MockProjectsService
	organizations *mocks.MockOrganizationsService
	repositories  *mocks.MockRepositoriesService
}

func newTestGithubSource(ctrl *gomock.Controller) (*GithubTicketSource, *testGithubServices) {
	services := &testGithubServices{
		issues:        mocks.NewMockIssuesService(ctrl),
		projects:      mocks.NewMockProjectsService(ctrl),
		organizations: mocks.NewMockOrganizationsService(ctrl),
		repositories:  mocks.NewMockRepositoriesService(ctrl),
	}
	client := &GithubClient{
		Issues:        services.issues,
		Projects:      services.projects,
		Organizations: services.organizations,
		Repositories:  services.repositories,
	}
	return NewGithubTicketSource(client), services
}

func githubResponse(status, nextPage int, header http.Header) *github.Response {
	if header == nil {
		header = http.Header{}
	}
	return &github.Response{
		Response: &http.Response{StatusCode: status, Header: header},
		NextPage: nextPage,
	}
}

func issueCard(id int64, owner, repo string, number int) *github.ProjectCard {
	return &github.ProjectCard{
		ID:         github.Int64(id),
		ContentURL: github.String("https://api.github.com/repos/" + owner + "/" + repo + "/issues/" + strconv.Itoa(number)),
	}
}

func TestListProjectCards(t *testing.T) {
	t.Run("Should walk every page of boards, columns and cards", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source, services := newTestGithubSource(ctrl)

		services.organizations.EXPECT().
			ListProjects(gomock.AssignableToTypeOf(ctxInterface), testOrg, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, opts *github.ProjectListOptions) ([]*github.Project, *github.Response, error) {
				assert.Equal(t, "open", opts.State)
				if opts.Page == 0 {
					return []*github.Project{{ID: github.Int64(1), Name: github.String("Roadmap")}}, githubResponse(http.StatusOK, 2, nil), nil
				}
				return []*github.Project{{ID: github.Int64(2), Name: github.String("Sprint 9")}}, githubResponse(http.StatusOK, 0, nil), nil
			}).
			Times(2)

		services.projects.EXPECT().
			ListProjectColumns(gomock.AssignableToTypeOf(ctxInterface), int64(1), gomock.Any()).
			Return([]*github.ProjectColumn{
				{ID: github.Int64(10), Name: github.String("Todo")},
				{ID: github.Int64(11), Name: github.String("Done")},
			}, githubResponse(http.StatusOK, 0, nil), nil)
		services.projects.EXPECT().
			ListProjectColumns(gomock.AssignableToTypeOf(ctxInterface), int64(2), gomock.Any()).
			Return([]*github.ProjectColumn{{ID: github.Int64(20), Name: github.String("Review")}}, githubResponse(http.StatusOK, 0, nil), nil)

		services.projects.EXPECT().
			ListProjectCards(gomock.AssignableToTypeOf(ctxInterface), int64(10), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, opts *github.ProjectCardListOptions) ([]*github.ProjectCard, *github.Response, error) {
				require.NotNil(t, opts.ArchivedState)
				assert.Equal(t, "not_archived", *opts.ArchivedState)
				if opts.Page == 0 {
					return []*github.ProjectCard{issueCard(100, testOrg, testRepo, 7)}, githubResponse(http.StatusOK, 2, nil), nil
				}
				// a note card
				return []*github.ProjectCard{{ID: github.Int64(101), Note: github.String("remember")}}, githubResponse(http.StatusOK, 0, nil), nil
			}).
			Times(2)
		services.projects.EXPECT().
			ListProjectCards(gomock.AssignableToTypeOf(ctxInterface), int64(11), gomock.Any()).
			Return([]*github.ProjectCard{issueCard(110, testOrg, testRepo, 12)}, githubResponse(http.StatusOK, 0, nil), nil)
		services.projects.EXPECT().
			ListProjectCards(gomock.AssignableToTypeOf(ctxInterface), int64(20), gomock.Any()).
			Return([]*github.ProjectCard{issueCard(200, testOrg, "other-repo", 12)}, githubResponse(http.StatusOK, 0, nil), nil)

		cards, err := source.ListProjectCards(context.Background(), testOrg, "")
		require.NoError(t, err)
		require.Len(t, cards, 3)

		assert.Equal(t, "Roadmap", cards[0].Project)
		assert.Equal(t, "Todo", cards[0].Column)
		assert.Equal(t, 7, cards[0].Issue.Number)
		assert.Equal(t, testRepo, cards[0].Issue.Repo)

		assert.Equal(t, "Done", cards[1].Column)
		assert.Equal(t, "12", cards[1].Issue.Key())

		assert.Equal(t, "Sprint 9", cards[2].Project)
		assert.Equal(t, "other-repo", cards[2].Issue.Repo)
	})

	t.Run("Should only list the boards of the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source, services := newTestGithubSource(ctrl)
		services.repositories.EXPECT().
			ListProjects(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, gomock.Any()).
			Return([]*github.Project{}, githubResponse(http.StatusOK, 0, nil), nil)

		cards, err := source.ListProjectCards(context.Background(), testOrg, testRepo)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("Should wrap remote failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source, services := newTestGithubSource(ctrl)
		services.organizations.EXPECT().
			ListProjects(gomock.AssignableToTypeOf(ctxInterface), testOrg, gomock.Any()).
			Return([]*github.Project{{ID: github.Int64(1), Name: github.String("Roadmap")}}, githubResponse(http.StatusOK, 0, nil), nil)
		services.projects.EXPECT().
			ListProjectColumns(gomock.AssignableToTypeOf(ctxInterface), int64(1), gomock.Any()).
			Return(nil, githubResponse(http.StatusUnauthorized, 0, nil), errors.New("bad credentials"))

		_, err := source.ListProjectCards(context.Background(), testOrg, "")
		require.Error(t, err)
		assert.True(t, IsRemoteFetchError(err))
		assert.Contains(t, err.Error(), "Roadmap")
	})
}

func TestGetIssue(t *testing.T) {
	updated := time.Date(2024, time.January, 5, 9, 30, 0, 0, time.UTC)
	created := time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)

	ghIssue := &github.Issue{
		Number:    github.Int(42),
		Title:     github.String("fixed bug"),
		Body:      github.String("details"),
		State:     github.String("open"),
		UpdatedAt: &updated,
		Assignee:  &github.User{Login: github.String("jdoe"), Name: github.String("Jane Doe")},
	}

	t.Run("Should fetch the issue with every comment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source, services := newTestGithubSource(ctrl)
		header := http.Header{}
		header.Set("Last-Modified", "Tue, 02 Jan 2024 10:00:00 GMT")
		services.issues.EXPECT().
			Get(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 42).
			Return(ghIssue, githubResponse(http.StatusOK, 0, header), nil)
		services.issues.EXPECT().
			ListComments(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 42, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, _ int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error) {
				if opts.Page == 0 {
					return []*github.IssueComment{
						{ID: github.Int64(1), Body: github.String("first"), CreatedAt: &created, User: &github.User{Login: github.String("alice")}},
						{ID: github.Int64(2), Body: github.String("second"), CreatedAt: &created, User: &github.User{Login: github.String("bob"), Name: github.String("Bob")}},
					}, githubResponse(http.StatusOK, 2, nil), nil
				}
				return []*github.IssueComment{
					{ID: github.Int64(3), Body: github.String("third"), CreatedAt: &created},
				}, githubResponse(http.StatusOK, 0, nil), nil
			}).
			Times(2)

		issue, err := source.GetIssue(context.Background(), testOrg, testRepo, 42)
		require.NoError(t, err)
		assert.Equal(t, "fixed bug", issue.Title)
		assert.Equal(t, "details", issue.Body)
		assert.Equal(t, "Jane Doe", issue.Assigned)
		assert.Equal(t, "OPEN", issue.Status)
		assert.Equal(t, "Tue, 02 Jan 2024 10:00:00 GMT", issue.LastModified.String())

		require.Len(t, issue.Comments, 3)
		assert.Equal(t, "alice", issue.Comments[0].User)
		assert.Equal(t, "Bob", issue.Comments[1].User)
		assert.Equal(t, "", issue.Comments[2].User)
		assert.Equal(t, "Tue, 02 Jan 2024 08:00:00 GMT", issue.Comments[0].Created.String())

		content := issue.ToContent()
		assert.Len(t, content.Comments, 3)
		assert.Equal(t, "third", content.Comments["3"].Body)
	})

	t.Run("Should fall back to updated_at", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source, services := newTestGithubSource(ctrl)
		services.issues.EXPECT().
			Get(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 42).
			Return(ghIssue, githubResponse(http.StatusOK, 0, nil), nil)
		services.issues.EXPECT().
			ListComments(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 42, gomock.Any()).
			Return(nil, githubResponse(http.StatusOK, 0, nil), nil)

		issue, err := source.GetIssue(context.Background(), testOrg, testRepo, 42)
		require.NoError(t, err)
		assert.Equal(t, "Fri, 05 Jan 2024 09:30:00 GMT", issue.LastModified.String())
		assert.Empty(t, issue.Comments)
	})

	t.Run("Should report missing issues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source, services := newTestGithubSource(ctrl)
		services.issues.EXPECT().
			Get(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 404).
			Return(nil, githubResponse(http.StatusNotFound, 0, nil), errors.New("404 Not Found"))

		_, err := source.GetIssue(context.Background(), testOrg, testRepo, 404)
		require.Error(t, err)
		assert.True(t, IsRemoteFetchError(err))
		assert.True(t, IsNotFound(err))
	})

	t.Run("Should wrap comment failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source, services := newTestGithubSource(ctrl)
		services.issues.EXPECT().
			Get(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 42).
			Return(ghIssue, githubResponse(http.StatusOK, 0, nil), nil)
		services.issues.EXPECT().
			ListComments(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 42, gomock.Any()).
			Return(nil, githubResponse(http.StatusForbidden, 0, nil), errors.New("rate limit exceeded"))

		_, err := source.GetIssue(context.Background(), testOrg, testRepo, 42)
		require.Error(t, err)
		assert.True(t, IsRemoteFetchError(err))
		assert.False(t, IsNotFound(err))
	})
}

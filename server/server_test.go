// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/mattermost/mattermost-ticketsync/metrics"
	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/mattermost/mattermost-ticketsync/server/mocks"
	"github.com/mattermost/mattermost-ticketsync/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestServer(t *testing.T, source TicketSource) *Server {
	config := &Config{
		Targets: []*Target{{
			Organization: testOrg,
			Repository:   testRepo,
			Directory:    filepath.Join(t.TempDir(), "tickets"),
		}},
	}
	config.SetDefaults()

	s, err := NewWithSource(config, source, metrics.NewPrometheusProvider())
	require.NoError(t, err)
	return s
}

func saveTestTicket(s *Server, ticket *model.Ticket) error {
	st, err := store.NewFileTicketStore(s.Config.Targets[0].Directory)
	if err != nil {
		return err
	}
	return st.Save(ticket)
}

func doRequest(t *testing.T, s *Server, method, url string) (*http.Response, map[string]interface{}) {
	ts := httptest.NewServer(s.Router)
	defer ts.Close()

	req, err := http.NewRequest(method, ts.URL+url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestNewWithSource(t *testing.T) {
	_, err := NewWithSource(&Config{}, nil, metrics.NewPrometheusProvider())
	require.Error(t, err)
}

func TestServerStartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Should refuse an invalid schedule", func(t *testing.T) {
		s := getTestServer(t, mocks.NewMockTicketSource(ctrl))
		s.Config.SyncSchedule = "whenever"
		require.Error(t, s.Start())
		require.NoError(t, s.Stop())
	})

	t.Run("Should start and stop without an API", func(t *testing.T) {
		s := getTestServer(t, mocks.NewMockTicketSource(ctrl))
		require.NoError(t, s.Start())
		require.NoError(t, s.Stop())
	})
}

func TestSyncAPI(t *testing.T) {
	t.Run("Should run the membership pass", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source := mocks.NewMockTicketSource(ctrl)
		source.EXPECT().ListProjectCards(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo).
			Return([]*model.ProjectCard{testCard("Roadmap", "Done", 12)}, nil)

		s := getTestServer(t, source)
		resp, body := doRequest(t, s, http.MethodPost, "/targets/0/sync/project")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body["membership"], "12")
		assert.Nil(t, body["report"])
	})

	t.Run("Should run a full sync", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source := mocks.NewMockTicketSource(ctrl)
		source.EXPECT().ListProjectCards(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo).
			Return([]*model.ProjectCard{testCard("Roadmap", "Done", 12)}, nil)
		source.EXPECT().GetIssue(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 12).
			Return(testIssue(12, "twelve", "Mon, 01 Jan 2024 00:00:00 GMT", 0), nil)

		s := getTestServer(t, source)
		resp, body := doRequest(t, s, http.MethodPost, "/targets/0/sync/full")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		report, ok := body["report"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, []interface{}{"12"}, report["refreshed"])

		resp, _ = doRequest(t, s, http.MethodGet, "/targets/0/tickets")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Should report partial content failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source := mocks.NewMockTicketSource(ctrl)
		source.EXPECT().GetIssue(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo, 5).
			Return(nil, &RemoteFetchError{Op: "get issue", Err: ErrIssueNotFound})

		s := getTestServer(t, source)
		require.NoError(t, saveTestTicket(s, model.NewSkeletonTicket("5", testOrg, testRepo)))

		resp, body := doRequest(t, s, http.MethodPost, "/targets/0/sync/tickets")
		require.Equal(t, http.StatusMultiStatus, resp.StatusCode)
		report := body["report"].(map[string]interface{})
		assert.Contains(t, report["failed"], "5")
		assert.NotEmpty(t, body["error"])
	})

	t.Run("Should map remote failures to bad gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source := mocks.NewMockTicketSource(ctrl)
		source.EXPECT().ListProjectCards(gomock.AssignableToTypeOf(ctxInterface), testOrg, testRepo).
			Return(nil, &RemoteFetchError{Op: "list projects", Err: errors.New("unauthorized")})

		s := getTestServer(t, source)
		resp, _ := doRequest(t, s, http.MethodPost, "/targets/0/sync/project")
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("Should refuse a busy target", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s := getTestServer(t, mocks.NewMockTicketSource(ctrl))
		s.targetLocks[0].Lock()
		defer s.targetLocks[0].Unlock()

		resp, _ := doRequest(t, s, http.MethodPost, "/targets/0/sync/full")
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Should answer 404 for unknown targets", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s := getTestServer(t, mocks.NewMockTicketSource(ctrl))
		resp, _ := doRequest(t, s, http.MethodPost, "/targets/3/sync/full")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = doRequest(t, s, http.MethodGet, "/targets/3/tickets")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListTicketsAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := getTestServer(t, mocks.NewMockTicketSource(ctrl))
	require.NoError(t, saveTestTicket(s, model.NewSkeletonTicket("12", testOrg, testRepo)))
	require.NoError(t, saveTestTicket(s, model.NewSkeletonTicket("3", testOrg, testRepo)))

	ts := httptest.NewServer(s.Router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/targets/0/tickets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tickets []*model.Ticket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tickets))
	require.Len(t, tickets, 2)
	assert.Equal(t, "3", tickets[0].Number)
	assert.Equal(t, "12", tickets[1].Number)
}

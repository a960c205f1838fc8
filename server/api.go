// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/mattermost/mattermost-ticketsync/store"
	"github.com/pkg/errors"
)

type reportResponse struct {
	Refreshed []string          `json:"refreshed"`
	Current   []string          `json:"current"`
	Closed    []string          `json:"closed"`
	Failed    map[string]string `json:"failed"`
}

type syncResponse struct {
	Membership Membership      `json:"membership,omitempty"`
	Report     *reportResponse `json:"report,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func newReportResponse(report *SyncReport) *reportResponse {
	if report == nil {
		return nil
	}
	resp := &reportResponse{
		Refreshed: report.Refreshed,
		Current:   report.Current,
		Closed:    report.Closed,
		Failed:    make(map[string]string, len(report.Failed)),
	}
	for number, err := range report.Failed {
		resp.Failed[number] = err.Error()
	}
	return resp
}

func (s *Server) initializeRouter() {
	r := s.Router.PathPrefix("/targets/{index:[0-9]+}").Subrouter()
	r.HandleFunc("/sync/project", s.withRecovery(s.syncHandler(projectSync))).Methods(http.MethodPost)
	r.HandleFunc("/sync/tickets", s.withRecovery(s.syncHandler(ticketsSync))).Methods(http.MethodPost)
	r.HandleFunc("/sync/full", s.withRecovery(s.syncHandler(fullSync))).Methods(http.MethodPost)
	r.HandleFunc("/tickets", s.withRecovery(s.listTickets)).Methods(http.MethodGet)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRecovery(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if x := recover(); x != nil {
				mlog.Error("recovered from a panic", mlog.String("url", r.URL.String()), mlog.Any("error", x))
				recorder.WriteHeader(http.StatusInternalServerError)
			}
			route := mux.CurrentRoute(r)
			handler := r.URL.Path
			if route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					handler = tmpl
				}
			}
			s.Metrics.ObserveHTTPRequestDuration(handler, r.Method, strconv.Itoa(recorder.status), time.Since(start).Seconds())
		}()

		next(recorder, r)
	}
}

func (s *Server) targetIndex(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 || index >= len(s.Config.Targets) {
		return 0, false
	}
	return index, true
}

func (s *Server) syncHandler(kind syncKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := s.targetIndex(r)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		membership, report, err := s.syncTarget(r.Context(), index, kind)
		resp := &syncResponse{
			Membership: membership,
			Report:     newReportResponse(report),
		}

		status := http.StatusOK
		if err != nil {
			resp.Error = err.Error()
			switch {
			case errors.Is(err, errTargetBusy):
				status = http.StatusConflict
			case report != nil:
				// the pass completed with isolated ticket failures
				status = http.StatusMultiStatus
			case IsRemoteFetchError(err):
				status = http.StatusBadGateway
			default:
				status = http.StatusInternalServerError
			}
			mlog.Warn("Sync request failed", mlog.Int("target", index), mlog.Err(err))
		}

		writeJSON(w, status, resp)
	}
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	index, ok := s.targetIndex(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	st, err := store.NewFileTicketStore(s.Config.Targets[index].Directory)
	if err != nil {
		mlog.Error("Unable to open store", mlog.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	numbers, err := st.List()
	if err != nil {
		mlog.Error("Unable to list tickets", mlog.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	tickets := make([]*model.Ticket, 0, len(numbers))
	for _, number := range numbers {
		ticket, err := st.Get(number)
		if err != nil {
			mlog.Warn("Skipping unreadable ticket", mlog.String("number", number), mlog.Err(err))
			continue
		}
		tickets = append(tickets, ticket)
	}

	writeJSON(w, http.StatusOK, tickets)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		mlog.Error("Unable to encode response", mlog.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		mlog.Error("Unable to write response", mlog.Err(err))
	}
}

// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/mattermost/mattermost-ticketsync/metrics"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

const (
	defaultHTTPServerReadTimeoutSeconds  = 30
	defaultHTTPServerWriteTimeoutSeconds = 60 * 60
	defaultShutdownTimeoutSeconds        = 30
)

// Server runs the configured targets on a schedule and exposes an HTTP API
// to trigger them.
type Server struct {
	Config  *Config
	Syncer  *TicketSyncer
	Metrics metrics.Provider
	Router  *mux.Router

	server *http.Server
	cron   *cron.Cron

	// one run per target at a time, a run being the only writer of its directory
	targetLocks []sync.Mutex
}

// New builds a server synchronizing from GitHub.
func New(config *Config, metricsProvider metrics.Provider) (*Server, error) {
	source := NewGithubTicketSource(NewGithubClient(config, metricsProvider))
	return NewWithSource(config, source, metricsProvider)
}

// NewWithSource builds a server synchronizing from source.
func NewWithSource(config *Config, source TicketSource, metricsProvider metrics.Provider) (*Server, error) {
	if err := config.IsValid(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Server{
		Config:      config,
		Syncer:      NewTicketSyncer(source, metricsProvider, config.ContentWorkers),
		Metrics:     metricsProvider,
		Router:      mux.NewRouter(),
		targetLocks: make([]sync.Mutex, len(config.Targets)),
	}
	s.initializeRouter()

	return s, nil
}

// Start schedules the sync of every target and, when a listen address is
// configured, serves the API.
func (s *Server) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.Config.SyncSchedule, s.SyncAllTargets); err != nil {
		return errors.Wrapf(err, "invalid sync schedule %q", s.Config.SyncSchedule)
	}
	s.cron.Start()
	mlog.Info("Scheduled target sync", mlog.String("schedule", s.Config.SyncSchedule), mlog.Int("targets", len(s.Config.Targets)))

	if s.Config.ListenAddress == "" {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.Config.ListenAddress,
		Handler:      s.Router,
		ReadTimeout:  defaultHTTPServerReadTimeoutSeconds * time.Second,
		WriteTimeout: defaultHTTPServerWriteTimeoutSeconds * time.Second,
	}
	go func() {
		mlog.Info("Listening on", mlog.String("address", s.Config.ListenAddress))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mlog.Error("Server exited with error", mlog.Err(err))
		}
	}()

	return nil
}

// Stop waits for running syncs to finish and shuts the API down.
func (s *Server) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeoutSeconds*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// SyncAllTargets runs a full directory sync of every target, one after the
// other. Targets already being synced are skipped.
func (s *Server) SyncAllTargets() {
	for i := range s.Config.Targets {
		if _, _, err := s.syncTarget(context.Background(), i, fullSync); err != nil {
			if errors.Is(err, errTargetBusy) {
				mlog.Info("Target sync already running, skipping", mlog.Int("target", i))
				continue
			}
			mlog.Error("Target sync failed", mlog.Int("target", i), mlog.String("organization", s.Config.Targets[i].Organization), mlog.Err(err))
		}
	}
}

type syncKind int

const (
	fullSync syncKind = iota
	projectSync
	ticketsSync
)

var errTargetBusy = errors.New("target sync already running")

func (s *Server) syncTarget(ctx context.Context, index int, kind syncKind) (Membership, *SyncReport, error) {
	lock := &s.targetLocks[index]
	if !lock.TryLock() {
		return nil, nil, errTargetBusy
	}
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.Config.SyncTimeoutSeconds)*time.Second)
	defer cancel()

	target := s.Config.Targets[index]
	switch kind {
	case projectSync:
		membership, err := s.Syncer.SyncProjectTickets(ctx, target.Directory, target.Organization, target.Repository)
		return membership, nil, err
	case ticketsSync:
		report, err := s.Syncer.SyncTicketsDirectory(ctx, target.Directory)
		return nil, report, err
	default:
		return s.Syncer.FullDirectorySync(ctx, target.Directory, target.Organization, target.Repository)
	}
}

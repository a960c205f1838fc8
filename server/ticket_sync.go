// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/mattermost/mattermost-ticketsync/metrics"
	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/mattermost/mattermost-ticketsync/store"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	passMembership = "membership"
	passContent    = "content"
)

// Membership maps a ticket number to its board placement, in traversal order.
type Membership map[string][]model.ProjectEntry

// SyncReport summarizes one content pass.
type SyncReport struct {
	Refreshed []string
	Current   []string
	Closed    []string
	Failed    map[string]error

	mut sync.Mutex
}

func newSyncReport() *SyncReport {
	return &SyncReport{Failed: map[string]error{}}
}

func (r *SyncReport) add(number string, outcome ContentOutcome, err error) {
	r.mut.Lock()
	defer r.mut.Unlock()

	switch {
	case err != nil:
		r.Failed[number] = err
	case outcome == OutcomeRefreshed:
		r.Refreshed = append(r.Refreshed, number)
	case outcome == OutcomeClosed:
		r.Closed = append(r.Closed, number)
	default:
		r.Current = append(r.Current, number)
	}
}

// sort orders every list numerically so reports do not depend on worker
// scheduling.
func (r *SyncReport) sort() {
	r.Refreshed = model.SortedNumbers(r.Refreshed)
	r.Current = model.SortedNumbers(r.Current)
	r.Closed = model.SortedNumbers(r.Closed)
}

// Err aggregates the per-ticket failures in numeric order, or returns nil.
func (r *SyncReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	numbers := make([]string, 0, len(r.Failed))
	for number := range r.Failed {
		numbers = append(numbers, number)
	}

	var result *multierror.Error
	for _, number := range model.SortedNumbers(numbers) {
		result = multierror.Append(result, errors.Wrapf(r.Failed[number], "ticket %s", number))
	}
	return result.ErrorOrNil()
}

// TicketSyncer mirrors remote tickets into a store directory.
type TicketSyncer struct {
	source  TicketSource
	metrics metrics.Provider
	workers int
}

// NewTicketSyncer returns a syncer running the content pass on at most
// workers goroutines.
func NewTicketSyncer(source TicketSource, metricsProvider metrics.Provider, workers int) *TicketSyncer {
	if workers < 1 {
		workers = 1
	}
	return &TicketSyncer{
		source:  source,
		metrics: metricsProvider,
		workers: workers,
	}
}

// SyncProjectTickets runs the membership pass for organization (narrowed to
// repo when set) against the store in dir.
func (ts *TicketSyncer) SyncProjectTickets(ctx context.Context, dir, organization, repo string) (Membership, error) {
	st, err := store.NewFileTicketStore(dir)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	membership, err := ts.SyncMembership(ctx, st, organization, repo)
	ts.metrics.ObserveSyncPassDuration(passMembership, time.Since(start).Seconds())
	if err != nil {
		ts.metrics.IncreaseSyncPassErrors(passMembership)
		return nil, err
	}
	return membership, nil
}

// SyncTicketsDirectory runs the content pass over every record in dir. A
// failing ticket does not stop the pass; failures are collected in the
// report and returned together as the error.
func (ts *TicketSyncer) SyncTicketsDirectory(ctx context.Context, dir string) (*SyncReport, error) {
	st, err := store.NewFileTicketStore(dir)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := ts.syncAllContent(ctx, st)
	ts.metrics.ObserveSyncPassDuration(passContent, time.Since(start).Seconds())
	if err != nil {
		ts.metrics.IncreaseSyncPassErrors(passContent)
	}
	return report, err
}

// FullDirectorySync runs the membership pass and then, only if it
// succeeded, the content pass.
func (ts *TicketSyncer) FullDirectorySync(ctx context.Context, dir, organization, repo string) (Membership, *SyncReport, error) {
	membership, err := ts.SyncProjectTickets(ctx, dir, organization, repo)
	if err != nil {
		return nil, nil, errors.Wrap(err, "membership pass failed")
	}

	report, err := ts.SyncTicketsDirectory(ctx, dir)
	return membership, report, err
}

func (ts *TicketSyncer) syncAllContent(ctx context.Context, st store.TicketStore) (*SyncReport, error) {
	numbers, err := st.List()
	if err != nil {
		return nil, err
	}

	mlog.Info("Starting content pass", mlog.String("directory", st.Dir()), mlog.Int("tickets", len(numbers)), mlog.Int("workers", ts.workers))

	report := newSyncReport()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ts.workers)

	for _, number := range numbers {
		number := number
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report.add(number, "", err)
				return nil
			}
			outcome, err := ts.syncRecord(gctx, st, number)
			report.add(number, outcome, err)
			if err != nil {
				ts.metrics.IncreaseTicketOutcome(passContent, "failed")
				mlog.Warn("Unable to sync ticket", mlog.String("number", number), mlog.Err(err))
			} else {
				ts.metrics.IncreaseTicketOutcome(passContent, string(outcome))
			}
			return nil
		})
	}
	// workers never return errors, failures live in the report
	_ = g.Wait()

	report.sort()
	mlog.Info("Finished content pass",
		mlog.String("directory", st.Dir()),
		mlog.Int("refreshed", len(report.Refreshed)),
		mlog.Int("current", len(report.Current)),
		mlog.Int("closed", len(report.Closed)),
		mlog.Int("failed", len(report.Failed)),
	)

	return report, report.Err()
}

func (ts *TicketSyncer) syncRecord(ctx context.Context, st store.TicketStore, number string) (ContentOutcome, error) {
	ticket, err := st.Get(number)
	if err != nil {
		return "", err
	}
	_, outcome, err := ts.SyncContent(ctx, st, ticket)
	return outcome, err
}

// Numbers returns the ticket numbers of m in ascending order.
func (m Membership) Numbers() []string {
	numbers := make([]string, 0, len(m))
	for number := range m {
		numbers = append(numbers, number)
	}
	return model.SortedNumbers(numbers)
}

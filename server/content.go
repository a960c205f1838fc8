// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"context"
	"strconv"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/mattermost/mattermost-ticketsync/store"
	"github.com/pkg/errors"
)

type ContentOutcome string

const (
	OutcomeRefreshed ContentOutcome = "refreshed"
	OutcomeCurrent   ContentOutcome = "current"
	OutcomeClosed    ContentOutcome = "closed"
)

// SyncContent refreshes the content fields of ticket from the remote issue
// and persists the result. Closed tickets are returned untouched without
// contacting the remote, and so is a ticket whose stored last_modified is
// not older than the remote one. The project field is never modified.
func (ts *TicketSyncer) SyncContent(ctx context.Context, st store.TicketStore, ticket *model.Ticket) (*model.Ticket, ContentOutcome, error) {
	if ticket.IsClosed() {
		mlog.Debug("Ticket is closed, skipping", mlog.String("number", ticket.Number))
		return ticket, OutcomeClosed, nil
	}

	if !ticket.HasIdentity() {
		return ticket, "", ErrMissingIdentity
	}
	number, err := strconv.Atoi(ticket.Number)
	if err != nil {
		return ticket, "", errors.Wrapf(ErrMissingIdentity, "number %q", ticket.Number)
	}

	issue, err := ts.source.GetIssue(ctx, ticket.Organization, ticket.Repo, number)
	if err != nil {
		return ticket, "", err
	}

	if isCurrent(ticket, issue) {
		mlog.Debug("Ticket is up to date", mlog.String("number", ticket.Number), mlog.String("last_modified", ticket.Content.LastModified.String()))
		return ticket, OutcomeCurrent, nil
	}

	refreshed := ticket.Clone()
	refreshed.Content = issue.ToContent()
	if err := st.Save(refreshed); err != nil {
		return ticket, "", err
	}

	mlog.Debug("Ticket refreshed", mlog.String("number", ticket.Number), mlog.String("status", refreshed.Content.Status), mlog.Int("comments", len(refreshed.Content.Comments)))
	return refreshed, OutcomeRefreshed, nil
}

func isCurrent(ticket *model.Ticket, issue *model.RemoteIssue) bool {
	if !ticket.HasContent() || ticket.Content.LastModified.IsZero() {
		return false
	}
	return !ticket.Content.LastModified.Before(issue.LastModified.Time)
}

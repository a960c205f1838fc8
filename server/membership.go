// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"context"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/mattermost/mattermost-ticketsync/store"
	"github.com/pkg/errors"
)

// cardGroup holds the board entries of one repository's issue.
type cardGroup struct {
	organization string
	repo         string
	entries      []model.ProjectEntry
}

func (g *cardGroup) owns(ticket *model.Ticket) bool {
	return g.organization == ticket.Organization && g.repo == ticket.Repo
}

// groupCards groups the cards by ticket number and then by repository, both
// in traversal order.
func groupCards(cards []*model.ProjectCard) map[string][]*cardGroup {
	groups := map[string][]*cardGroup{}
	for _, card := range cards {
		if card == nil || card.Issue == nil {
			continue
		}
		number := card.Issue.Key()
		entry := model.ProjectEntry{Project: card.Project, Column: card.Column}

		var group *cardGroup
		for _, g := range groups[number] {
			if g.organization == card.Issue.Organization && g.repo == card.Issue.Repo {
				group = g
				break
			}
		}
		if group == nil {
			group = &cardGroup{organization: card.Issue.Organization, repo: card.Issue.Repo}
			groups[number] = append(groups[number], group)
		}
		group.entries = append(group.entries, entry)
	}
	return groups
}

// SyncMembership writes the current board placement of every ticket found
// on the boards of organization (or of repo only) and clears the placement
// of stored tickets no longer on any board. Content fields are never
// touched.
//
// Records are keyed by number alone. When issues of two repositories share a
// number, the repository already owning the stored record wins, otherwise the
// first one seen; the other cards are skipped.
func (ts *TicketSyncer) SyncMembership(ctx context.Context, st store.TicketStore, organization, repo string) (Membership, error) {
	mlog.Info("Starting membership pass", mlog.String("directory", st.Dir()), mlog.String("organization", organization), mlog.String("repo", repo))

	cards, err := ts.source.ListProjectCards(ctx, organization, repo)
	if err != nil {
		return nil, err
	}

	groups := groupCards(cards)
	numbers := make([]string, 0, len(groups))
	for number := range groups {
		numbers = append(numbers, number)
	}

	membership := Membership{}
	for _, number := range model.SortedNumbers(numbers) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		written, err := ts.applyMembership(st, number, groups[number], membership)
		if err != nil {
			var malformed *store.MalformedRecordError
			if errors.As(err, &malformed) {
				mlog.Warn("Skipping malformed ticket record", mlog.String("number", number), mlog.Err(err))
				ts.metrics.IncreaseTicketOutcome(passMembership, "malformed")
				continue
			}
			return nil, err
		}
		if written != "" {
			ts.metrics.IncreaseTicketOutcome(passMembership, written)
		}
	}

	if err := ts.clearOrphans(ctx, st, membership); err != nil {
		return nil, err
	}

	mlog.Info("Finished membership pass", mlog.String("directory", st.Dir()), mlog.Int("tickets", len(membership)))
	return membership, nil
}

// applyMembership updates one record and returns the kind of write it
// performed, or "" when the record was already current.
func (ts *TicketSyncer) applyMembership(st store.TicketStore, number string, groups []*cardGroup, membership Membership) (string, error) {
	exists, err := st.Exists(number)
	if err != nil {
		return "", err
	}

	var ticket *model.Ticket
	if exists {
		if ticket, err = st.Get(number); err != nil {
			return "", err
		}
	}

	owner := groups[0]
	if ticket != nil && ticket.Organization != "" && ticket.Repo != "" {
		owner = nil
		for _, g := range groups {
			if g.owns(ticket) {
				owner = g
				break
			}
		}
	}

	for _, g := range groups {
		if g != owner {
			mlog.Warn("Skipping cards of colliding ticket number",
				mlog.String("number", number),
				mlog.String("organization", g.organization),
				mlog.String("repo", g.repo),
				mlog.Err(ErrIdentityCollision),
			)
			ts.metrics.IncreaseTicketOutcome(passMembership, "collision")
		}
	}
	if owner == nil {
		// the stored record stays subject to orphan handling
		return "", nil
	}

	membership[number] = owner.entries

	outcome := "updated"
	if ticket == nil {
		ticket = model.NewSkeletonTicket(number, owner.organization, owner.repo)
		outcome = "created"
	} else {
		if ticket.Organization == "" || ticket.Repo == "" {
			ticket.Organization = owner.organization
			ticket.Repo = owner.repo
			outcome = "identified"
		} else if model.ProjectsEqual(ticket.Project, owner.entries) {
			return "", nil
		}
	}

	ticket.Project = append([]model.ProjectEntry{}, owner.entries...)
	if err := st.Save(ticket); err != nil {
		return "", err
	}
	mlog.Debug("Ticket membership written", mlog.String("number", number), mlog.String("outcome", outcome), mlog.Int("entries", len(ticket.Project)))
	return outcome, nil
}

// clearOrphans empties the project list of every stored record missing from
// membership. Records are never deleted.
func (ts *TicketSyncer) clearOrphans(ctx context.Context, st store.TicketStore, membership Membership) error {
	numbers, err := st.List()
	if err != nil {
		return err
	}

	for _, number := range numbers {
		if _, ok := membership[number]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		ticket, err := st.Get(number)
		if err != nil {
			var malformed *store.MalformedRecordError
			if errors.As(err, &malformed) {
				mlog.Warn("Skipping malformed ticket record", mlog.String("number", number), mlog.Err(err))
				ts.metrics.IncreaseTicketOutcome(passMembership, "malformed")
				continue
			}
			return err
		}
		if len(ticket.Project) == 0 {
			continue
		}

		ticket.Project = []model.ProjectEntry{}
		if err := st.Save(ticket); err != nil {
			return err
		}
		ts.metrics.IncreaseTicketOutcome(passMembership, "cleared")
		mlog.Debug("Ticket removed from every board", mlog.String("number", number))
	}

	return nil
}

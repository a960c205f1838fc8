// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package store

import (
	"fmt"

	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("ticket not found")
	ErrInvalidNumber = errors.New("ticket number must be a positive decimal number")
)

// MalformedRecordError is returned when a stored record cannot be decoded.
type MalformedRecordError struct {
	Number string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed ticket record %q: %s", e.Number, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// TicketStore persists one record per ticket number.
type TicketStore interface {
	Dir() string
	Exists(number string) (bool, error)
	// Get returns ErrNotFound when no record exists for number.
	Get(number string) (*model.Ticket, error)
	Save(ticket *model.Ticket) error
	// List enumerates the numbers of every stored record in ascending order.
	List() ([]string, error)
}

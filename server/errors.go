// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package server

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIssueNotFound is wrapped by a RemoteFetchError when GitHub answers 404.
	ErrIssueNotFound = errors.New("issue not found")

	ErrMissingIdentity   = errors.New("ticket record has no organization, repo or number")
	ErrIdentityCollision = errors.New("ticket number already belongs to another repository")
)

// RemoteFetchError wraps any failure talking to the remote ticket source:
// network, authentication, rate limiting or not found.
type RemoteFetchError struct {
	Op  string
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch failed: %s: %s", e.Op, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

func IsRemoteFetchError(err error) bool {
	var remoteErr *RemoteFetchError
	return errors.As(err, &remoteErr)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrIssueNotFound)
}

// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Timestamp is a point in time persisted in the HTTP date format used by
// GitHub's Last-Modified header, e.g. "Mon, 01 Jan 2024 00:00:00 GMT".
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

// ParseTimestamp accepts every format allowed for HTTP dates.
func ParseTimestamp(value string) (Timestamp, error) {
	t, err := http.ParseTime(strings.TrimSpace(value))
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(http.TimeFormat)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ProjectEntry places a ticket in one column of one project board.
type ProjectEntry struct {
	Project string `json:"project"`
	Column  string `json:"column"`
}

type Comment struct {
	Body    string    `json:"body"`
	Created Timestamp `json:"created"`
	User    string    `json:"user"`
	ID      int64     `json:"id"`
}

// Content holds the fields replaced wholesale by a content refresh.
type Content struct {
	Title        string             `json:"title"`
	Body         string             `json:"body"`
	Assigned     string             `json:"assigned,omitempty"`
	Status       string             `json:"status"`
	LastModified Timestamp          `json:"last_modified"`
	Comments     map[string]Comment `json:"comments"`
}

// Ticket is the persisted record of one remote issue. A skeleton ticket has
// identity and membership but a nil Content.
type Ticket struct {
	Number       string `json:"number"`
	Organization string `json:"organization"`
	Repo         string `json:"repo"`

	*Content

	Project []ProjectEntry `json:"project"`
}

// NewSkeletonTicket returns a ticket with identity fields and an empty
// project list.
func NewSkeletonTicket(number, organization, repo string) *Ticket {
	return &Ticket{
		Number:       number,
		Organization: organization,
		Repo:         repo,
		Project:      []ProjectEntry{},
	}
}

func (t *Ticket) HasContent() bool {
	return t != nil && t.Content != nil
}

func (t *Ticket) IsClosed() bool {
	return t.HasContent() && t.Content.Status == StatusClosed
}

func (t *Ticket) HasIdentity() bool {
	return t != nil && t.Number != "" && t.Organization != "" && t.Repo != ""
}

// Clone returns a deep copy so callers can mutate without touching t.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	c.Project = append([]ProjectEntry{}, t.Project...)
	if t.Content != nil {
		content := *t.Content
		content.Comments = make(map[string]Comment, len(t.Content.Comments))
		for id, comment := range t.Content.Comments {
			content.Comments[id] = comment
		}
		c.Content = &content
	}
	return &c
}

// ProjectsEqual reports whether both membership lists hold the same entries
// in the same order.
func ProjectsEqual(a, b []ProjectEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (t *Ticket) ToJSON() ([]byte, error) {
	if t.Project == nil {
		t.Project = []ProjectEntry{}
	}
	if t.Content != nil && t.Content.Comments == nil {
		t.Content.Comments = map[string]Comment{}
	}
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func TicketFromJSON(data io.Reader) (*Ticket, error) {
	var ticket Ticket
	if err := json.NewDecoder(data).Decode(&ticket); err != nil {
		return nil, err
	}
	if ticket.Project == nil {
		ticket.Project = []ProjectEntry{}
	}
	return &ticket, nil
}

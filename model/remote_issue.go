// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"sort"
	"strconv"
)

// RemoteIssue is an issue as reported by the remote ticket source.
type RemoteIssue struct {
	Organization string
	Repo         string
	Number       int
	Title        string
	Body         string
	Assigned     string
	Status       string
	LastModified Timestamp
	Comments     []Comment
}

func (i *RemoteIssue) Key() string {
	return strconv.Itoa(i.Number)
}

// ToContent converts the issue into the content fields of a ticket record.
func (i *RemoteIssue) ToContent() *Content {
	comments := make(map[string]Comment, len(i.Comments))
	for _, comment := range i.Comments {
		comments[strconv.FormatInt(comment.ID, 10)] = comment
	}

	return &Content{
		Title:        i.Title,
		Body:         i.Body,
		Assigned:     i.Assigned,
		Status:       i.Status,
		LastModified: i.LastModified,
		Comments:     comments,
	}
}

// ProjectCard links a project column to an issue. Only the identity fields
// of Issue are guaranteed to be populated.
type ProjectCard struct {
	Project string
	Column  string
	Issue   *RemoteIssue
}

// SortedNumbers returns ticket numbers in ascending numeric order. Keys that
// are not numbers sort after the numeric ones.
func SortedNumbers(numbers []string) []string {
	sorted := append([]string{}, numbers...)
	sort.SliceStable(sorted, func(a, b int) bool {
		na, errA := strconv.Atoi(sorted[a])
		nb, errB := strconv.Atoi(sorted[b])
		switch {
		case errA == nil && errB == nil:
			return na < nb
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return sorted[a] < sorted[b]
	})
	return sorted
}

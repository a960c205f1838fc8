// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattermost/mattermost-ticketsync/model"
	"github.com/pkg/errors"
)

const recordExtension = ".json"

type FileTicketStore struct {
	dir string
}

// NewFileTicketStore opens the record directory, creating it if needed.
func NewFileTicketStore(dir string) (*FileTicketStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "unable to create store directory %s", dir)
	}
	return &FileTicketStore{dir: dir}, nil
}

func (s *FileTicketStore) Dir() string {
	return s.dir
}

func (s *FileTicketStore) path(number string) string {
	return filepath.Join(s.dir, number+recordExtension)
}

func (s *FileTicketStore) Exists(number string) (bool, error) {
	if !validNumber(number) {
		return false, ErrInvalidNumber
	}
	_, err := os.Stat(s.path(number))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "unable to stat ticket %s", number)
}

func (s *FileTicketStore) Get(number string) (*model.Ticket, error) {
	if !validNumber(number) {
		return nil, ErrInvalidNumber
	}
	data, err := os.ReadFile(s.path(number))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "unable to read ticket %s", number)
	}

	ticket, err := model.TicketFromJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedRecordError{Number: number, Err: err}
	}
	if ticket.Number != number {
		return nil, &MalformedRecordError{Number: number, Err: errors.Errorf("record holds number %q", ticket.Number)}
	}
	return ticket, nil
}

// Save replaces the record atomically: the new content is written to a
// temporary file in the same directory and renamed over the old one, so a
// failed write leaves the previous record untouched.
func (s *FileTicketStore) Save(ticket *model.Ticket) error {
	if ticket == nil || !validNumber(ticket.Number) {
		return ErrInvalidNumber
	}
	data, err := ticket.ToJSON()
	if err != nil {
		return errors.Wrapf(err, "unable to encode ticket %s", ticket.Number)
	}

	tmpFile, err := os.CreateTemp(s.dir, "."+ticket.Number+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "unable to create temporary record")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return errors.Wrapf(err, "unable to write ticket %s", ticket.Number)
	}
	if err = tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return errors.Wrapf(err, "unable to flush ticket %s", ticket.Number)
	}
	if err = tmpFile.Close(); err != nil {
		return errors.Wrapf(err, "unable to close ticket %s", ticket.Number)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return errors.Wrapf(err, "unable to set permissions on ticket %s", ticket.Number)
	}
	if err = os.Rename(tmpPath, s.path(ticket.Number)); err != nil {
		return errors.Wrapf(err, "unable to replace ticket %s", ticket.Number)
	}

	success = true
	return nil
}

func (s *FileTicketStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list store directory %s", s.dir)
	}

	numbers := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordExtension) {
			continue
		}
		number := strings.TrimSuffix(name, recordExtension)
		if !validNumber(number) {
			continue
		}
		numbers = append(numbers, number)
	}

	return model.SortedNumbers(numbers), nil
}

func validNumber(number string) bool {
	if number == "" || number[0] == '0' {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Package history persists invocation records under the project's .qrun
// directory.
package history

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/mohitmv/qrun/internal/core/domain"
	"github.com/mohitmv/qrun/internal/core/ports"
)

var _ ports.HistoryStore = (*Store)(nil)

// Store implements ports.HistoryStore as a single JSON file per project.
type Store struct{}

// NewStore creates a new history store.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Append adds an invocation record to the project's history file.
func (s *Store) Append(root string, inv domain.Invocation) error {
	records, err := s.read(root)
	if err != nil {
		return err
	}

	records = append(records, inv)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrHistoryMarshalFailed.Error())
	}

	path := domain.HistoryPath(root)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrHistoryCreateFailed.Error())
	}

	//nolint:gosec // Path is anchored at the project root
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrHistoryWriteFailed.Error())
	}

	return nil
}

// Last returns the most recent invocation record, or nil if there is none.
func (s *Store) Last(root string) (*domain.Invocation, error) {
	records, err := s.read(root)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[len(records)-1], nil
}

// read loads all records from the history file. A missing file yields an
// empty history.
func (s *Store) read(root string) ([]domain.Invocation, error) {
	//nolint:gosec // Path is anchored at the project root
	data, err := os.ReadFile(domain.HistoryPath(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrHistoryReadFailed.Error())
	}

	var records []domain.Invocation
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, zerr.Wrap(err, domain.ErrHistoryUnmarshalFailed.Error())
	}

	return records, nil
}

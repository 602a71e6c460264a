package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// FileStore keeps the scraped directory as one JSON document keyed by business ID
type FileStore struct {
	path string
}

var _ repositories.SnapshotRepository = (*FileStore)(nil)

// NewFileStore creates a snapshot store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file location
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the snapshot atomically: the document goes to a temporary file
// in the same directory which is then renamed over path.
func (s *FileStore) Save(ctx context.Context, businesses map[string]*entities.Business) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(businesses, "", "    ")
	if err != nil {
		return apperrors.NewInternalError("failed to encode snapshot", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return apperrors.NewInternalError("failed to create snapshot file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.NewInternalError("failed to write snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewInternalError("failed to write snapshot", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperrors.NewInternalError("failed to replace snapshot", err)
	}
	return nil
}

// Load reads the snapshot. A missing file is a NOT_FOUND error.
func (s *FileStore) Load(ctx context.Context) (map[string]*entities.Business, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("snapshot %s does not exist", s.path))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read snapshot", err)
	}

	businesses := map[string]*entities.Business{}
	if err := json.Unmarshal(data, &businesses); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("snapshot %s is not valid JSON: %v", s.path, err))
	}

	// records written by hand may omit the id field
	for id, b := range businesses {
		if b != nil && b.ID == "" {
			b.ID = id
		}
	}
	return businesses, nil
}

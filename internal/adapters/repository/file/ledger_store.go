package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// LedgerStore keeps each ledger document in <dir>/<key>.json.
type LedgerStore struct {
	dir string
}

func NewLedgerStore(dir string) (*LedgerStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir %s: %w: %w", dir, domain.ErrStorageUnavailable, err)
	}
	return &LedgerStore{dir: dir}, nil
}

func (s *LedgerStore) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *LedgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, domain.ErrStorageUnavailable, err)
	}
	return blob, nil
}

// Put replaces the document atomically: it writes a temp file in the same
// directory and renames it over the target.
func (s *LedgerStore) Put(ctx context.Context, key string, blob []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w: %w", tmp.Name(), domain.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w: %w", tmp.Name(), domain.ErrStorageUnavailable, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w: %w", path, domain.ErrStorageUnavailable, err)
	}
	return nil
}

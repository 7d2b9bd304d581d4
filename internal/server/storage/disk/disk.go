// Package disk implements the filesystem blob backend. Blobs live under
// root/<owner scope>/<stored name>; writes use exclusive creation so two
// concurrent saves of the same name can never overwrite each other.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// maxCollisionAttempts bounds the suffix-retry loop. Hitting it means the
// scope directory holds that many same-named files, which indicates a bug or
// abuse rather than a real collision.
const maxCollisionAttempts = 10000

type Store struct {
	resolver *Resolver
}

func NewStore(root string) (*Store, error) {
	resolver, err := NewResolver(root)
	if err != nil {
		return nil, err
	}
	return &Store{resolver: resolver}, nil
}

// Save writes data to the first free candidate path for (scope, name) and
// returns the stored name. The existence check and the create are a single
// O_EXCL open, so a concurrent save racing for the same candidate loses
// loudly and retries with the next suffix instead of overwriting.
func (s *Store) Save(ctx context.Context, scope, name string, data []byte) (string, error) {
	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		loc, err := s.resolver.Resolve(scope, name, attempt)
		if err != nil {
			return "", err
		}

		f, err := os.OpenFile(loc.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create blob %s: %w", loc.Path, err)
		}

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(loc.Path)
			return "", fmt.Errorf("write blob %s: %w", loc.Path, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(loc.Path)
			return "", fmt.Errorf("close blob %s: %w", loc.Path, err)
		}

		return loc.StoredName, nil
	}
	return "", fmt.Errorf("no free name for %q in scope %s after %d attempts", name, scope, maxCollisionAttempts)
}

// Load reads a stored blob. A missing blob yields common.ErrNotFound.
func (s *Store) Load(ctx context.Context, scope, storedName string) ([]byte, error) {
	loc, err := s.resolver.Locate(scope, storedName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(loc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("read blob %s: %w", loc.Path, err)
	}
	return data, nil
}

// Delete removes a stored blob. Deleting an already-missing blob succeeds so
// a crashed delete sequence can be retried.
func (s *Store) Delete(ctx context.Context, scope, storedName string) error {
	loc, err := s.resolver.Locate(scope, storedName)
	if err != nil {
		return err
	}

	if err := os.Remove(loc.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", loc.Path, err)
	}
	return nil
}

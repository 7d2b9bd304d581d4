// Package keys owns the vault's single symmetric encryption key. The key
// lives in a file configured at startup; it is generated once on first run
// and loaded unchanged on every run after that.
package keys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/cryptox"
)

// Manager holds the loaded key. The key is immutable after construction and
// safe for unsynchronized concurrent reads.
type Manager struct {
	key []byte
}

// LoadOrCreate loads the key from path, generating and persisting a new
// random key if the file does not exist yet. Any read/write failure or a
// malformed key file is wrapped in common.ErrKeyUnavailable: the process
// must not start without a usable key.
func LoadOrCreate(path string) (*Manager, error) {
	key, err := os.ReadFile(path)

	if errors.Is(err, fs.ErrNotExist) {
		return generate(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read key file %s: %v: %w", path, err, common.ErrKeyUnavailable)
	}

	if len(key) != cryptox.KeySize {
		return nil, fmt.Errorf("key file %s holds %d bytes, want %d: %w", path, len(key), cryptox.KeySize, common.ErrKeyUnavailable)
	}

	return &Manager{key: key}, nil
}

func generate(path string) (*Manager, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("mkdir %s: %v: %w", dir, err, common.ErrKeyUnavailable)
		}
	}

	key := common.GenerateRandByteArray(cryptox.KeySize)

	// O_EXCL so two processes racing on first start cannot end up with
	// different keys both thinking theirs was persisted.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return LoadOrCreate(path)
		}
		return nil, fmt.Errorf("create key file %s: %v: %w", path, err, common.ErrKeyUnavailable)
	}

	_, werr := f.Write(key)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write key file %s: %w", path, common.ErrKeyUnavailable)
	}

	return &Manager{key: key}, nil
}

// Key returns the raw key bytes. The slice must be treated as read-only and
// handed only to the cipher; it is never logged.
func (m *Manager) Key() []byte {
	return m.key
}

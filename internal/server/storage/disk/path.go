package disk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

// Location is the validated filesystem destination for one blob.
type Location struct {
	// Path is the absolute candidate path under the storage root.
	Path string
	// StoredName is the final filename component of Path.
	StoredName string
}

// Resolver computes safe, user-scoped storage paths under a single root
// directory. Every resolved path is guaranteed to be a strict descendant of
// the root; anything else fails with common.ErrPathViolation.
type Resolver struct {
	root string
}

// NewResolver creates the root directory if needed and canonicalizes it so
// later descendant checks compare against a symlink-free base.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		return nil, fmt.Errorf("empty storage root: %w", common.ErrPathViolation)
	}
	if err := os.MkdirAll(root, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir storage root %s: %w", root, err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %s: %w", root, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalize storage root %s: %w", abs, err)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical storage root.
func (r *Resolver) Root() string {
	return r.root
}

// SanitizeName reduces a requested filename to a bare basename, defeating
// `../` segments and absolute prefixes. Names that reduce to nothing usable
// fail with common.ErrPathViolation; there is no silent clamping.
func SanitizeName(requested string) (string, error) {
	// treat backslashes as separators too, client OS is unknown
	normalized := strings.ReplaceAll(requested, "\\", "/")
	base := filepath.Base(filepath.FromSlash(normalized))

	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("unusable filename %q: %w", requested, common.ErrPathViolation)
	}
	if strings.ContainsRune(base, 0) {
		return "", fmt.Errorf("unusable filename %q: %w", requested, common.ErrPathViolation)
	}
	return base, nil
}

// scopeSegment maps a user identity onto a directory name. Identities are
// vault-issued ids (UUIDs), so the mapping is the identity itself after a
// conservative character check; raw usernames never reach this function.
func scopeSegment(scope string) (string, error) {
	if scope == "" {
		return "", fmt.Errorf("empty storage scope: %w", common.ErrPathViolation)
	}
	for _, c := range scope {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return "", fmt.Errorf("unsafe character %q in storage scope: %w", c, common.ErrPathViolation)
		}
	}
	if scope == "." || scope == ".." {
		return "", fmt.Errorf("unusable storage scope %q: %w", scope, common.ErrPathViolation)
	}
	return scope, nil
}

// Resolve computes the candidate location for (scope, requestedName) at the
// given collision attempt, creating the scope directory on the way. The
// returned path is canonicalized and verified to stay inside the root.
func (r *Resolver) Resolve(scope, requestedName string, attempt int) (*Location, error) {
	base, err := SanitizeName(requestedName)
	if err != nil {
		return nil, err
	}
	stored := storage.SuffixedName(base, attempt)
	return r.locate(scope, stored, true)
}

// Locate validates the path of an already-stored blob without collision
// handling. Used on the read and delete paths so a tampered stored_name in
// the metadata can never escape the root.
func (r *Resolver) Locate(scope, storedName string) (*Location, error) {
	base, err := SanitizeName(storedName)
	if err != nil {
		return nil, err
	}
	if base != storedName {
		return nil, fmt.Errorf("stored name %q is not a bare filename: %w", storedName, common.ErrPathViolation)
	}
	return r.locate(scope, storedName, false)
}

func (r *Resolver) locate(scope, storedName string, createDir bool) (*Location, error) {
	seg, err := scopeSegment(scope)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(r.root, seg)
	if createDir {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return nil, fmt.Errorf("mkdir scope dir %s: %w", dir, err)
		}
	}

	// resolve symlinks in the directory part; the final element may not
	// exist yet, so it is joined after canonicalization
	canonicalDir := dir
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		canonicalDir = resolved
	}

	p := filepath.Clean(filepath.Join(canonicalDir, storedName))

	rel, err := filepath.Rel(r.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %q escapes storage root: %w", p, common.ErrPathViolation)
	}

	return &Location{Path: p, StoredName: storedName}, nil
}

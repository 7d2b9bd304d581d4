package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewStore(root)
	require.NoError(t, err)
	return s, s.resolver.Root()
}

func TestSave_WritesInsideOwnerScope(t *testing.T) {
	s, root := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Save(ctx, "u1", "report.pdf", []byte("ciphertext"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", stored)

	data, err := os.ReadFile(filepath.Join(root, "u1", "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), data)
}

func TestSave_CollisionGetsNumericSuffix(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "u1", "report.pdf", []byte("one"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "u1", "report.pdf", []byte("two"))
	require.NoError(t, err)
	third, err := s.Save(ctx, "u1", "report.pdf", []byte("three"))
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", first)
	assert.Equal(t, "report_1.pdf", second)
	assert.Equal(t, "report_2.pdf", third)

	// nothing was overwritten
	one, err := s.Load(ctx, "u1", first)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), one)
	two, err := s.Load(ctx, "u1", second)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), two)
}

func TestSave_SameNameDifferentScopesDoNotCollide(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, "u1", "notes.txt", []byte("a"))
	require.NoError(t, err)
	b, err := s.Save(ctx, "u2", "notes.txt", []byte("b"))
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", a)
	assert.Equal(t, "notes.txt", b)
}

func TestSave_TraversalAttemptsAreSanitizedOrRejected(t *testing.T) {
	s, root := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		requested  string
		wantStored string
	}{
		{"../../etc/passwd", "passwd"},
		{"/etc/shadow", "shadow"},
		{`..\..\windows\system32\cmd.exe`, "cmd.exe"},
		{"dir/inner.txt", "inner.txt"},
	}

	for _, tc := range tests {
		stored, err := s.Save(ctx, "u1", tc.requested, []byte("x"))
		require.NoError(t, err, "requested %q", tc.requested)
		assert.Equal(t, tc.wantStored, stored, "requested %q", tc.requested)

		// the blob really is under the scope dir
		_, statErr := os.Stat(filepath.Join(root, "u1", stored))
		assert.NoError(t, statErr)
	}

	for _, requested := range []string{"", ".", "..", "/", "a/.."} {
		_, err := s.Save(ctx, "u1", requested, []byte("x"))
		assert.ErrorIs(t, err, common.ErrPathViolation, "requested %q", requested)
	}
}

func TestSave_RejectsUnsafeScope(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, scope := range []string{"", "..", "../up", "a/b", "sp ace"} {
		_, err := s.Save(ctx, scope, "f.txt", []byte("x"))
		assert.ErrorIs(t, err, common.ErrPathViolation, "scope %q", scope)
	}
}

func TestSave_ConcurrentIdenticalNames(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	results := make([]string, writers)
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Save(ctx, "u1", "same.bin", []byte(fmt.Sprintf("payload-%d", i)))
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, writers)
	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		if _, dup := seen[results[i]]; dup {
			t.Fatalf("stored name %q produced twice", results[i])
		}
		seen[results[i]] = struct{}{}
	}

	// every writer's payload survived intact
	for i := 0; i < writers; i++ {
		data, err := s.Load(ctx, "u1", results[i])
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("payload-%d", i), string(data))
	}
}

func TestLoad_MissingBlob(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Load(context.Background(), "u1", "ghost.txt")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLoad_RejectsNonBareStoredName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "u1", "real.txt", []byte("x"))
	require.NoError(t, err)

	for _, name := range []string{"../u1/real.txt", "u1/../u1/real.txt", "/real.txt"} {
		_, err := s.Load(ctx, "u1", name)
		assert.ErrorIs(t, err, common.ErrPathViolation, "stored name %q", name)
	}
}

func TestDelete_IsRetrySafe(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Save(ctx, "u1", "gone.txt", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "u1", stored))
	require.NoError(t, s.Delete(ctx, "u1", stored), "second delete must succeed")

	_, err = s.Load(ctx, "u1", stored)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestResolver_SymlinkedScopeStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	s, err := NewStore(root)
	require.NoError(t, err)

	// plant a symlinked scope dir pointing outside the root
	link := filepath.Join(s.resolver.Root(), "evil")
	require.NoError(t, os.Symlink(outside, link))

	_, err = s.Save(context.Background(), "evil", "f.txt", []byte("x"))
	assert.ErrorIs(t, err, common.ErrPathViolation)
}

func TestSanitizeName(t *testing.T) {
	got, err := SanitizeName("  spaced name.txt")
	require.NoError(t, err)
	assert.Equal(t, "  spaced name.txt", got)

	got, err = SanitizeName("a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "c.txt", got)

	_, err = SanitizeName(strings.Repeat("../", 10))
	assert.ErrorIs(t, err, common.ErrPathViolation)
}

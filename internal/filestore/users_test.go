package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

func newUserStore(t *testing.T) (*UserStore, *flakyFile) {
	t.Helper()
	f := &flakyFile{LineFile: NewLineFile(filepath.Join(t.TempDir(), "users.txt"))}
	return NewUserStore(f, nil), f
}

func TestUserStoreEmptyFileBootstrap(t *testing.T) {
	s, f := newUserStore(t)
	require.NoError(t, os.WriteFile(f.Path(), nil, 0o644))

	_, err := s.Load()
	require.ErrorIs(t, err, types.ErrNothingLoaded)
	assert.Empty(t, s.All())

	admin := types.User{Name: "admin", Credential: "$2a$04$encrypted", Role: types.RoleAdmin}
	require.NoError(t, s.Add(admin))

	assert.Equal(t, "admin;$2a$04$encrypted;ADMIN\n", readFile(t, f.Path()))
	got, ok := s.Find("admin")
	require.True(t, ok)
	assert.Equal(t, admin, got)
}

func TestUserStoreAddDuplicateLeavesFile(t *testing.T) {
	s, f := newUserStore(t)
	require.NoError(t, s.Add(types.User{Name: "ana", Credential: "h1", Role: types.RoleView}))

	err := s.Add(types.User{Name: "ana", Credential: "h2", Role: types.RoleAdmin})
	assert.ErrorIs(t, err, types.ErrDuplicateIdentity)
	assert.Equal(t, "ana;h1;VIEW\n", readFile(t, f.Path()))
}

func TestUserStoreAddRejectsDelimiter(t *testing.T) {
	s, f := newUserStore(t)
	err := s.Add(types.User{Name: "a;b", Credential: "h", Role: types.RoleView})
	assert.ErrorIs(t, err, types.ErrDelimiterInField)
	assert.Empty(t, s.All())
	assert.NoFileExists(t, f.Path())
}

func TestUserStoreAppendFailureLeavesMemory(t *testing.T) {
	s, f := newUserStore(t)
	f.failAppend = true

	err := s.Add(types.User{Name: "ana", Credential: "h", Role: types.RoleView})
	assert.ErrorIs(t, err, types.ErrIO)
	_, ok := s.Find("ana")
	assert.False(t, ok)
}

func TestUserStoreRemoveRewritesFile(t *testing.T) {
	s, f := newUserStore(t)
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, s.Add(types.User{Name: n, Credential: "h" + n, Role: types.RoleView}))
	}

	require.NoError(t, s.Remove("b"))
	assert.Equal(t, "a;ha;VIEW\nc;hc;VIEW\n", readFile(t, f.Path()))
	_, ok := s.Find("b")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Remove("b"), types.ErrNotFound)
}

func TestUserStoreRemoveFailureLeavesBoth(t *testing.T) {
	s, f := newUserStore(t)
	require.NoError(t, s.Add(types.User{Name: "a", Credential: "h", Role: types.RoleView}))
	f.failWrite = true

	assert.ErrorIs(t, s.Remove("a"), types.ErrIO)
	_, ok := s.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "a;h;VIEW\n", readFile(t, f.Path()))
}

func TestUserStoreChangeCredential(t *testing.T) {
	s, f := newUserStore(t)
	require.NoError(t, s.Add(types.User{Name: "a", Credential: "old", Role: types.RoleAdmin}))
	require.NoError(t, s.Add(types.User{Name: "b", Credential: "keep", Role: types.RoleView}))

	require.NoError(t, s.ChangeCredential("a", "new"))
	assert.Equal(t, "a;new;ADMIN\nb;keep;VIEW\n", readFile(t, f.Path()))
	got, _ := s.Find("a")
	assert.Equal(t, "new", got.Credential)

	assert.ErrorIs(t, s.ChangeCredential("zed", "x"), types.ErrNotFound)
}

func TestUserStoreChangeCredentialFailureLeavesBoth(t *testing.T) {
	s, f := newUserStore(t)
	require.NoError(t, s.Add(types.User{Name: "a", Credential: "old", Role: types.RoleAdmin}))
	f.failWrite = true

	assert.ErrorIs(t, s.ChangeCredential("a", "new"), types.ErrIO)
	got, _ := s.Find("a")
	assert.Equal(t, "old", got.Credential)
	assert.Equal(t, "a;old;ADMIN\n", readFile(t, f.Path()))
}

func TestUserStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	content := "admin;h1;ADMIN\n" +
		"broken line\n" +
		"maria;h2;GESTION\n" +
		"admin;h3;VIEW\n" +
		"luis;h4;VIEW\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewUserStore(NewLineFile(path), nil)
	report, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, types.LoadReport{Path: path, Lines: 5, Loaded: 3, Skipped: 2}, report)

	admin, _ := s.Find("admin")
	assert.Equal(t, "h1", admin.Credential, "first occurrence wins")
	assert.Len(t, s.ByRole(types.RoleManagement), 1)
}

func TestUserStoreLoadMissingFile(t *testing.T) {
	s := NewUserStore(NewLineFile(filepath.Join(t.TempDir(), "absent.txt")), nil)
	_, err := s.Load()
	assert.ErrorIs(t, err, types.ErrNothingLoaded)
}

func TestUserStoreLoadUnreadable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s := NewUserStore(NewLineFile(filepath.Join(blocker, "users.txt")), nil)
	_, err := s.Load()
	assert.ErrorIs(t, err, types.ErrIO)
	assert.NotErrorIs(t, err, types.ErrNothingLoaded)
}

// internal/session/session_test.go
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"libraclient/internal/storage"
)

func newStore(t *testing.T) (*Store, *storage.FileStore) {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return Open(fs), fs
}

func TestSetUserAuthenticates(t *testing.T) {
	store, _ := newStore(t)

	u := &User{ID: "1", Email: "a@b.com", Name: "Ann", Role: RoleMember}
	require.NoError(t, store.SetUser(u))

	got, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, u, got)
	assert.True(t, store.Authenticated())
}

func TestSetUserNilClears(t *testing.T) {
	store, _ := newStore(t)

	require.NoError(t, store.SetUser(&User{ID: "1", Name: "Ann", Role: RoleMember}))
	require.NoError(t, store.SetUser(nil))

	got, ok := store.Current()
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, store.Authenticated())
}

func TestLogoutClearsUserAndToken(t *testing.T) {
	store, fs := newStore(t)

	require.NoError(t, store.SetUser(&User{ID: "1", Name: "Ann", Role: RoleMember}))
	require.NoError(t, store.SetToken("tok-123"))
	require.NoError(t, store.Logout())

	assert.False(t, store.Authenticated())
	assert.Empty(t, store.Token())

	_, err := fs.Read(TokenRecord)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestSessionSurvivesReopen(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	first := Open(fs)
	u := &User{ID: "42", Email: "staff@example.com", Name: "Sam", Role: RoleStaff}
	require.NoError(t, first.SetUser(u))

	second := Open(fs)
	got, ok := second.Current()
	assert.True(t, ok)
	assert.Equal(t, u, got)
}

func TestOpenWithoutRecordStartsLoggedOut(t *testing.T) {
	store, _ := newStore(t)
	assert.False(t, store.Authenticated())
}

func TestOpenWithCorruptRecordStartsLoggedOut(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fs.Write(SessionRecord, []byte("{not json")))

	store := Open(fs)
	assert.False(t, store.Authenticated())
}

func TestOpenIgnoresInconsistentRecord(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	// A user without the authenticated flag set must not log anyone in.
	require.NoError(t, fs.Write(SessionRecord, []byte(`{"user":{"id":"1","name":"Ann","role":"MEMBER"},"authenticated":false}`)))

	store := Open(fs)
	assert.False(t, store.Authenticated())
}

func TestTokenReadsThrough(t *testing.T) {
	store, fs := newStore(t)

	require.NoError(t, store.SetToken("tok-abc"))
	assert.Equal(t, "tok-abc", store.Token())

	// Removing the record out from under the store is seen on the next read.
	require.NoError(t, fs.Delete(TokenRecord))
	assert.Empty(t, store.Token())
}

func TestSessionRoundTripsThroughStorage(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	roles := []Role{RoleAdmin, RoleStaff, RoleMember}

	rapid.Check(t, func(t *rapid.T) {
		var u *User
		if rapid.Bool().Draw(t, "present") {
			u = &User{
				ID:    rapid.String().Draw(t, "id"),
				Email: rapid.String().Draw(t, "email"),
				Name:  rapid.String().Draw(t, "name"),
				Role:  roles[rapid.IntRange(0, len(roles)-1).Draw(t, "role")],
			}
		}

		if err := Open(fs).SetUser(u); err != nil {
			t.Fatalf("set user: %v", err)
		}

		got, ok := Open(fs).Current()
		if ok != (u != nil) {
			t.Fatalf("authenticated = %v, want %v", ok, u != nil)
		}
		if u != nil && *got != *u {
			t.Fatalf("rehydrated user %+v, want %+v", got, u)
		}
	})
}

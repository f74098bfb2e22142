package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allan-Sanchez/storefront-client/internal/localstore"
	"github.com/Allan-Sanchez/storefront-client/internal/models"
)

func newTestSession(t *testing.T) (*Store, *localstore.MemoryStore) {
	t.Helper()
	backend := localstore.NewMemoryStore()
	mirror := localstore.NewMirror(backend, slog.Default())
	return NewStore(mirror), backend
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func testAuthResponse() models.AuthResponse {
	return models.AuthResponse{
		AccessToken:  "a",
		RefreshToken: "b",
		User:         models.User{ID: 7, Email: "test@example.com", FirstName: "Ana"},
	}
}

func TestAnonymousByDefault(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.AccessToken())
}

func TestCompleteLogin(t *testing.T) {
	t.Parallel()

	s, backend := newTestSession(t)

	s.BeginLogin()
	assert.True(t, s.IsLoading())
	assert.False(t, s.IsAuthenticated())

	s.CompleteLogin(testAuthResponse())

	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsLoading())
	require.NotNil(t, s.User())
	assert.Equal(t, int64(7), s.User().ID)

	persisted, err := backend.Load(context.Background(), localstore.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a", string(persisted))
}

func TestFailLogin_StaysAnonymous(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	s.BeginLogin()
	s.FailLogin()

	assert.False(t, s.IsLoading())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestAuthenticatedIffTokenPresent(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	// The invariant holds across every transition.
	assert.Equal(t, s.AccessToken() != "", s.IsAuthenticated())

	s.BeginLogin()
	assert.Equal(t, s.AccessToken() != "", s.IsAuthenticated())

	s.CompleteLogin(testAuthResponse())
	assert.Equal(t, s.AccessToken() != "", s.IsAuthenticated())

	s.UpdateTokens("x", "y")
	assert.Equal(t, s.AccessToken() != "", s.IsAuthenticated())

	s.Logout()
	assert.Equal(t, s.AccessToken() != "", s.IsAuthenticated())
	assert.False(t, s.IsAuthenticated())
}

func TestSetUser_LeavesTokensUntouched(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)
	s.CompleteLogin(testAuthResponse())

	s.SetUser(models.User{ID: 7, Email: "nuevo@example.com", FirstName: "Ana"})

	assert.Equal(t, "a", s.AccessToken())
	assert.Equal(t, "b", s.RefreshToken())
	assert.Equal(t, "nuevo@example.com", s.User().Email)
}

func TestLogout_ErasesAllPersistedKeys(t *testing.T) {
	t.Parallel()

	s, backend := newTestSession(t)
	s.CompleteLogin(testAuthResponse())
	require.Equal(t, 3, backend.Len())

	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Equal(t, 0, backend.Len())
}

func TestHydrate_RestoresUserWhenTokenPresent(t *testing.T) {
	t.Parallel()

	backend := localstore.NewMemoryStore()
	mirror := localstore.NewMirror(backend, slog.Default())

	first := NewStore(mirror)
	first.CompleteLogin(testAuthResponse())

	restored := NewStore(mirror)
	restored.Hydrate()

	assert.True(t, restored.IsAuthenticated())
	require.NotNil(t, restored.User())
	assert.Equal(t, "test@example.com", restored.User().Email)
}

func TestHydrate_NoTokenStaysAnonymous(t *testing.T) {
	t.Parallel()

	backend := localstore.NewMemoryStore()
	mirror := localstore.NewMirror(backend, slog.Default())
	mirror.SaveJSON(localstore.KeyUser, models.User{ID: 7})

	s := NewStore(mirror)
	s.Hydrate()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestHydrate_CorruptSnapshotErasedAndAnonymousProfile(t *testing.T) {
	t.Parallel()

	backend := localstore.NewMemoryStore()
	require.NoError(t, backend.Save(context.Background(), localstore.KeyAccessToken, []byte("tok")))
	require.NoError(t, backend.Save(context.Background(), localstore.KeyUser, []byte("{broken")))
	mirror := localstore.NewMirror(backend, slog.Default())

	s := NewStore(mirror)
	s.Hydrate()

	assert.Nil(t, s.User())
	_, err := backend.Load(context.Background(), localstore.KeyUser)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestAccessTokenExpiresWithin(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	s.UpdateTokens(signedToken(t, time.Now().Add(30*time.Second)), "r")
	assert.True(t, s.AccessTokenExpiresWithin(time.Minute))

	s.UpdateTokens(signedToken(t, time.Now().Add(time.Hour)), "r")
	assert.False(t, s.AccessTokenExpiresWithin(time.Minute))
}

func TestAccessTokenExpiresWithin_OpaqueToken(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t)

	s.UpdateTokens("not-a-jwt", "r")
	assert.False(t, s.AccessTokenExpiresWithin(time.Minute))

	s.Logout()
	assert.False(t, s.AccessTokenExpiresWithin(time.Minute))
}

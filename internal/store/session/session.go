package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Allan-Sanchez/storefront-client/internal/localstore"
	"github.com/Allan-Sanchez/storefront-client/internal/models"
)

// Store holds the current session: the user profile and the token pair.
// Tokens are loaded eagerly at construction, the profile is restored by
// Hydrate. Authentication status is always derived from token presence.
type Store struct {
	mu           sync.RWMutex
	user         *models.User
	accessToken  string
	refreshToken string
	isLoading    bool
	mirror       *localstore.Mirror
}

func NewStore(mirror *localstore.Mirror) *Store {
	s := &Store{mirror: mirror}
	s.accessToken, _ = mirror.LoadString(localstore.KeyAccessToken)
	s.refreshToken, _ = mirror.LoadString(localstore.KeyRefreshToken)
	return s
}

// Hydrate restores the persisted profile when an access token is already
// present. A corrupt snapshot is erased and the session stays anonymous.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" {
		return
	}
	var user models.User
	if s.mirror.LoadJSON(localstore.KeyUser, &user) {
		s.user = &user
		return
	}
	s.mirror.Delete(localstore.KeyUser)
}

func (s *Store) BeginLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = true
}

func (s *Store) CompleteLogin(auth models.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := auth.User
	s.user = &user
	s.accessToken = auth.AccessToken
	s.refreshToken = auth.RefreshToken
	s.isLoading = false

	s.mirror.SaveString(localstore.KeyAccessToken, auth.AccessToken)
	s.mirror.SaveString(localstore.KeyRefreshToken, auth.RefreshToken)
	s.mirror.SaveJSON(localstore.KeyUser, auth.User)
}

func (s *Store) FailLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
}

// SetUser replaces the profile only, tokens are untouched.
func (s *Store) SetUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.mirror.SaveJSON(localstore.KeyUser, user)
}

func (s *Store) UpdateTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.mirror.SaveString(localstore.KeyAccessToken, accessToken)
	s.mirror.SaveString(localstore.KeyRefreshToken, refreshToken)
}

func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.isLoading = false

	s.mirror.Delete(localstore.KeyAccessToken)
	s.mirror.Delete(localstore.KeyRefreshToken)
	s.mirror.Delete(localstore.KeyUser)
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// AccessTokenExpiresWithin reports whether the access token carries an exp
// claim inside the given window. The signature is not checked, the client
// only needs the expiry to decide when to refresh; the backend still
// validates every request.
func (s *Store) AccessTokenExpiresWithin(d time.Duration) bool {
	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()

	if token == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < d
}

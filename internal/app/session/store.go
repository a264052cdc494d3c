// Package session holds the authenticated identity of one browser session.
//
// The token key in Storage is the source of truth: when it is absent the
// session is anonymous, whatever the in-memory copy says. Every mutation
// updates storage, saves it, updates memory and notifies subscribers while
// holding the store lock, so readers never see storage and memory disagree.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// Storage keys.
const (
	TokenKey   = "auth_token"
	ProfileKey = "fraudguard_user"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
}

// Expirer is implemented by storages whose lifetime can follow the token.
type Expirer interface {
	ExpireAt(t time.Time)
}

type Store struct {
	mu      sync.Mutex
	storage Storage
	auth    Authenticator
	logger  *zap.Logger

	current *models.Session
	subs    map[int]chan *models.Session
	nextSub int
}

// NewStore builds a store over storage, restoring any persisted session.
func NewStore(storage Storage, auth Authenticator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		auth:    auth,
		logger:  logger,
		subs:    map[int]chan *models.Session{},
	}
	s.current = s.hydrate()
	return s
}

func (s *Store) hydrate() *models.Session {
	token, ok := s.storage.Get(TokenKey)
	if !ok {
		return nil
	}
	sess := &models.Session{}
	if raw, ok := s.storage.Get(ProfileKey); ok {
		if err := json.Unmarshal([]byte(raw), sess); err != nil {
			s.logger.Warn("discarding unreadable session profile", zap.Error(err))
			sess = &models.Session{}
		}
	}
	sess.Token = token
	return sess
}

// Login authenticates against the backend and, on success, persists and
// publishes the new session. A failed login leaves the store untouched.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", models.ErrValidation)
	}

	sess, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	profile, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevToken, hadToken := s.storage.Get(TokenKey)
	prevProfile, hadProfile := s.storage.Get(ProfileKey)

	s.storage.Set(TokenKey, sess.Token)
	s.storage.Set(ProfileKey, string(profile))
	if exp, ok := TokenExpiry(sess.Token); ok {
		if e, ok := s.storage.(Expirer); ok {
			e.ExpireAt(exp)
		}
	}
	if err := s.storage.Save(); err != nil {
		restore(s.storage, TokenKey, prevToken, hadToken)
		restore(s.storage, ProfileKey, prevProfile, hadProfile)
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.current = sess
	s.publish(sess)
	return sess, nil
}

func restore(st Storage, key, value string, present bool) {
	if present {
		st.Set(key, value)
		return
	}
	st.Delete(key)
}

// Logout clears the persisted and in-memory session. Calling it on an
// anonymous store is a no-op apart from re-saving storage.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, hadToken := s.storage.Get(TokenKey)
	wasSignedIn := hadToken || s.current != nil

	s.storage.Delete(TokenKey)
	s.storage.Delete(ProfileKey)
	err := s.storage.Save()

	s.current = nil
	if wasSignedIn {
		s.publish(nil)
	}
	if err != nil {
		return fmt.Errorf("persist logout: %w", err)
	}
	return nil
}

// Current returns the signed-in session or nil.
func (s *Store) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Store) currentLocked() *models.Session {
	token, ok := s.storage.Get(TokenKey)
	if !ok {
		return nil
	}
	if s.current == nil || s.current.Token != token {
		s.current = s.hydrate()
	}
	return s.current
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.storage.Get(TokenKey)
	return ok
}

// HasRole reports whether the signed-in user has role, ignoring case.
func (s *Store) HasRole(role models.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.currentLocked()
	return cur != nil && cur.Role.Matches(role)
}

// Subscribe returns a stream of the current session, primed with the value
// at the time of the call. Only the latest value is buffered, so a slow
// reader misses intermediate states but never blocks the store. cancel
// closes the channel and may be called more than once.
func (s *Store) Subscribe() (<-chan *models.Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *models.Session, 1)
	ch <- s.currentLocked()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish must be called with s.mu held.
func (s *Store) publish(sess *models.Session) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- sess
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying it. The
// backend owns verification; the console only uses it to size the cookie.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

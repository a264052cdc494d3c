package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	args := m.Called(ctx, creds)
	if s := args.Get(0); s != nil {
		return s.(*models.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

var analyst = &models.Session{Token: "tok-1", UserID: 7, Username: "analyst", Role: models.RoleAnalyst, Email: "a@example.com"}

func newStore(t *testing.T) (*Store, *MemoryStorage, *MockAuthenticator) {
	t.Helper()
	st := NewMemoryStorage()
	auth := &MockAuthenticator{}
	return NewStore(st, auth, nil), st, auth
}

func TestStore_LoginPersistsAndPublishes(t *testing.T) {
	store, st, auth := newStore(t)
	creds := models.Credentials{Username: "analyst", Password: "pw"}
	auth.On("Login", mock.Anything, creds).Return(analyst, nil).Once()

	updates, cancel := store.Subscribe()
	defer cancel()
	assert.Nil(t, <-updates)

	s, err := store.Login(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, analyst, s)

	token, ok := st.Durable(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	profile, ok := st.Durable(ProfileKey)
	require.True(t, ok)
	assert.Contains(t, profile, `"username":"analyst"`)

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "analyst", store.Current().Username)
	assert.Equal(t, analyst, <-updates)
	auth.AssertExpectations(t)
}

func TestStore_FailedLoginLeavesStateUntouched(t *testing.T) {
	t.Run("backend rejects", func(t *testing.T) {
		store, st, auth := newStore(t)
		auth.On("Login", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("login: %w", models.ErrUnauthenticated))

		_, err := store.Login(context.Background(), models.Credentials{Username: "x", Password: "bad"})
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.False(t, store.IsAuthenticated())
		assert.Nil(t, store.Current())
		_, ok := st.Durable(TokenKey)
		assert.False(t, ok)
	})

	t.Run("empty fields never reach the backend", func(t *testing.T) {
		store, _, auth := newStore(t)
		_, err := store.Login(context.Background(), models.Credentials{Username: "  ", Password: "pw"})
		assert.ErrorIs(t, err, models.ErrValidation)
		auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("save failure rolls storage back", func(t *testing.T) {
		store, st, auth := newStore(t)
		auth.On("Login", mock.Anything, mock.Anything).Return(analyst, nil)
		st.SaveErr = errors.New("cookie too large")

		updates, cancel := store.Subscribe()
		defer cancel()
		<-updates

		_, err := store.Login(context.Background(), models.Credentials{Username: "analyst", Password: "pw"})
		require.Error(t, err)
		assert.False(t, store.IsAuthenticated())
		assert.Nil(t, store.Current())
		select {
		case s := <-updates:
			t.Fatalf("unexpected publish %+v", s)
		default:
		}
	})
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	store, st, auth := newStore(t)
	auth.On("Login", mock.Anything, mock.Anything).Return(analyst, nil)
	_, err := store.Login(context.Background(), models.Credentials{Username: "analyst", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, store.Logout())
	require.NoError(t, store.Logout())

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Current())
	_, ok := st.Durable(TokenKey)
	assert.False(t, ok)
	_, ok = st.Durable(ProfileKey)
	assert.False(t, ok)
}

func TestStore_StorageIsSourceOfTruth(t *testing.T) {
	store, st, auth := newStore(t)
	auth.On("Login", mock.Anything, mock.Anything).Return(analyst, nil)
	_, err := store.Login(context.Background(), models.Credentials{Username: "analyst", Password: "pw"})
	require.NoError(t, err)

	// Token removed behind the store's back, e.g. by another tab.
	st.Delete(TokenKey)
	require.NoError(t, st.Save())

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Current())
	assert.False(t, store.HasRole(models.RoleAnalyst))
}

func TestStore_HydratesFromStorage(t *testing.T) {
	st := NewMemoryStorage()
	st.Set(TokenKey, "tok-2")
	st.Set(ProfileKey, `{"token":"stale","userId":1,"username":"root","role":"admin","email":"r@example.com"}`)
	require.NoError(t, st.Save())

	store := NewStore(st, &MockAuthenticator{}, nil)
	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "tok-2", cur.Token)
	assert.Equal(t, "root", cur.Username)
	assert.True(t, store.HasRole(models.RoleAdmin), "role comparison ignores case")
	assert.False(t, store.HasRole(models.RoleAnalyst))

	t.Run("corrupt profile keeps the token", func(t *testing.T) {
		st := NewMemoryStorage()
		st.Set(TokenKey, "tok-3")
		st.Set(ProfileKey, "{not json")
		require.NoError(t, st.Save())

		store := NewStore(st, &MockAuthenticator{}, nil)
		assert.True(t, store.IsAuthenticated())
		assert.Equal(t, "tok-3", store.Current().Token)
		assert.False(t, store.HasRole(models.RoleAdmin))
	})
}

func TestStore_SubscribeKeepsOnlyLatest(t *testing.T) {
	store, _, auth := newStore(t)
	auth.On("Login", mock.Anything, mock.Anything).Return(analyst, nil)

	updates, cancel := store.Subscribe()
	<-updates

	for i := 0; i < 3; i++ {
		_, err := store.Login(context.Background(), models.Credentials{Username: "analyst", Password: "pw"})
		require.NoError(t, err)
		require.NoError(t, store.Logout())
	}

	assert.Nil(t, <-updates, "latest value after the final logout")
	select {
	case <-updates:
		t.Fatal("only one buffered value expected")
	default:
	}

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _, auth := newStore(t)
	auth.On("Login", mock.Anything, mock.Anything).Return(analyst, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Login(context.Background(), models.Credentials{Username: "analyst", Password: "pw"})
			_ = store.Logout()
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if cur := store.Current(); cur != nil {
					assert.Equal(t, "tok-1", cur.Token)
				}
				_ = store.HasRole(models.RoleAnalyst)
			}
		}()
	}
	wg.Wait()
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "analyst",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(token)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}

package session

import (
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
)

// Storage is the durable key/value backing of a Store. Set and Delete are
// staged; Save makes them durable.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Save() error
}

// CookieStorage keeps the session in the request's signed cookie.
type CookieStorage struct {
	s    sessions.Session
	opts sessions.Options
}

// NewCookieStorage wraps s. opts are the cookie attributes the router's
// cookie store was configured with.
func NewCookieStorage(s sessions.Session, opts sessions.Options) *CookieStorage {
	return &CookieStorage{s: s, opts: opts}
}

func (c *CookieStorage) Get(key string) (string, bool) {
	v, ok := c.s.Get(key).(string)
	return v, ok && v != ""
}

func (c *CookieStorage) Set(key, value string) { c.s.Set(key, value) }

func (c *CookieStorage) Delete(key string) { c.s.Delete(key) }

func (c *CookieStorage) Save() error { return c.s.Save() }

// ExpireAt shortens the cookie so it never outlives the token.
func (c *CookieStorage) ExpireAt(t time.Time) {
	maxAge := int(time.Until(t).Seconds())
	if maxAge <= 0 || (c.opts.MaxAge > 0 && maxAge >= c.opts.MaxAge) {
		return
	}
	opts := c.opts
	opts.MaxAge = maxAge
	c.s.Options(opts)
}

// MemoryStorage is a process-local Storage for tests and tooling.
type MemoryStorage struct {
	mu      sync.Mutex
	data    map[string]string
	pending map[string]*string
	SaveErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}, pending: map[string]*string{}}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pending[key]; ok {
		if p == nil {
			return "", false
		}
		return *p, *p != ""
	}
	v, ok := m.data[key]
	return v, ok && v != ""
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[key] = &value
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[key] = nil
}

// Save commits staged changes, or fails with SaveErr and keeps them staged.
func (m *MemoryStorage) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	for k, v := range m.pending {
		if v == nil {
			delete(m.data, k)
		} else {
			m.data[k] = *v
		}
	}
	clear(m.pending)
	return nil
}

// Durable reports the committed value, ignoring staged changes.
func (m *MemoryStorage) Durable(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

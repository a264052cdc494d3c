package simulator

import (
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// Result is one simulated submission as shown in the history list.
type Result struct {
	Transaction models.Transaction
	Scenario    string
	SubmittedAt time.Time
}

// History keeps each user's recent results, newest first, for ttl after the
// last change.
type History struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
	limit int
}

func NewHistory(ttl time.Duration, limit int) *History {
	return &History{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
		limit: limit,
	}
}

func (h *History) Prepend(user string, r Result) []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := append([]Result{r}, h.get(user)...)
	if h.limit > 0 && len(list) > h.limit {
		list = list[:h.limit]
	}
	h.cache.Set(user, list, h.ttl)
	return slices.Clone(list)
}

func (h *History) List(user string) []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.get(user))
}

func (h *History) Clear(user string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.Delete(user)
}

func (h *History) get(user string) []Result {
	if v, ok := h.cache.Get(user); ok {
		return v.([]Result)
	}
	return nil
}

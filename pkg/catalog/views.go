package catalog

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/kitchen-catalog/pkg/types"
)

var ErrViewNotFound = errors.New("view not found")

// View is one catalog page view with its own engine.
type View struct {
	Id         string
	mu         sync.Mutex
	engine     *Engine
	now        func() time.Time
	lastAccess atomic.Int64
}

type ViewState struct {
	Id         string                  `json:"id"`
	Selection  types.FilterSelection   `json:"selection"`
	OpenGroups map[types.GroupKey]bool `json:"openGroups"`
	Items      []types.CatalogItem     `json:"items"`
	Count      int                     `json:"count"`
}

func (v *View) touch() {
	v.lastAccess.Store(v.now().UnixNano())
}

func (v *View) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, v.lastAccess.Load()))
}

// Do runs fn with exclusive access to the view's engine.
func (v *View) Do(fn func(e *Engine) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	return fn(v.engine)
}

func (v *View) State(order SortOrder) ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
	return ViewState{
		Id:         v.Id,
		Selection:  v.engine.Selection(),
		OpenGroups: v.engine.OpenGroups(),
		Items:      SortItems(v.engine.Items(), order),
		Count:      v.engine.Count(),
	}
}

// ViewStore keeps one engine per view. Views share nothing but the
// product collection they were created from. Views idle for longer than
// ttl are dropped, a ttl of zero keeps them until deleted.
type ViewStore struct {
	mu        sync.RWMutex
	replaceMu sync.Mutex
	views     map[string]*View
	items     []types.CatalogItem
	config    types.FilterConfig
	ttl       time.Duration
	now       func() time.Time
}

func NewViewStore(items []types.CatalogItem, config types.FilterConfig, ttl time.Duration) *ViewStore {
	return &ViewStore{
		views:  make(map[string]*View),
		items:  items,
		config: config,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *ViewStore) Create() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictIdleLocked()
	v := &View{
		Id:     uuid.New().String(),
		engine: NewEngine(s.items, s.config),
		now:    s.now,
	}
	v.touch()
	s.views[v.Id] = v
	return v
}

func (s *ViewStore) Get(id string) (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

func (s *ViewStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[id]; !ok {
		return ErrViewNotFound
	}
	delete(s.views, id)
	return nil
}

func (s *ViewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// EvictIdle drops every view not used within the ttl and returns how many were dropped.
func (s *ViewStore) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictIdleLocked()
}

func (s *ViewStore) evictIdleLocked() int {
	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	evicted := 0
	for id, v := range s.views {
		if v.idleSince(now) > s.ttl {
			delete(s.views, id)
			evicted++
		}
	}
	return evicted
}

// RunEviction sweeps idle views every interval until ctx is done.
func (s *ViewStore) RunEviction(ctx context.Context, interval time.Duration, onEvict func(evicted int)) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				log.Printf("evicted %d idle views", n)
				if onEvict != nil {
					onEvict(n)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// Catalog returns the collection and config new views start from.
func (s *ViewStore) Catalog() ([]types.CatalogItem, types.FilterConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items, s.config
}

// ReplaceCatalog installs a new collection for future views and pushes it into
// every live view. Live views keep their original reset target. Replacements
// are serialised so live views always end on the latest collection.
func (s *ViewStore) ReplaceCatalog(items []types.CatalogItem, config types.FilterConfig) {
	s.replaceMu.Lock()
	defer s.replaceMu.Unlock()

	s.mu.Lock()
	s.items = items
	s.config = config
	views := make([]*View, 0, len(s.views))
	for _, v := range s.views {
		views = append(views, v)
	}
	s.mu.Unlock()

	// pushing a new collection is not user activity, so idle time is kept
	for _, v := range views {
		v.mu.Lock()
		v.engine.ReplaceItems(items)
		v.mu.Unlock()
	}
}

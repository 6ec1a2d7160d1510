package usecase

import (
	"context"
	"sync"
	"time"

	"marketing-site/internal/domain"
	"marketing-site/pkg/logger"
)

// PageStore keeps one ContactPage per browser session in memory
type PageStore struct {
	contactUC domain.ContactUsecase
	adminUC   domain.AdminUsecase
	ttl       time.Duration

	pages sync.Map // session id -> *ContactPage
}

func NewPageStore(contactUC domain.ContactUsecase, adminUC domain.AdminUsecase, ttl time.Duration) *PageStore {
	return &PageStore{
		contactUC: contactUC,
		adminUC:   adminUC,
		ttl:       ttl,
	}
}

// Get returns the page for sessionID, creating it on first use. A page
// evicted by a concurrent Sweep is replaced rather than returned.
func (s *PageStore) Get(sessionID string) *ContactPage {
	for {
		if v, ok := s.pages.Load(sessionID); ok {
			page := v.(*ContactPage)
			if page.touch() {
				return page
			}
			s.pages.CompareAndDelete(sessionID, page)
			continue
		}
		fresh := NewContactPage(s.contactUC, s.adminUC)
		if _, loaded := s.pages.LoadOrStore(sessionID, fresh); loaded {
			// Another request stored one first; go through touch again
			continue
		}
		return fresh
	}
}

// Sweep drops pages idle for longer than the TTL. Pages with a submit in
// flight are kept. It returns the number of evicted pages.
func (s *PageStore) Sweep(now time.Time) int {
	evicted := 0
	s.pages.Range(func(key, value interface{}) bool {
		page := value.(*ContactPage)
		if page.evict(now, s.ttl) {
			s.pages.CompareAndDelete(key, page)
			evicted++
		}
		return true
	})
	return evicted
}

// Run sweeps on every interval until ctx is done
func (s *PageStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				logger.Log.Debug("Evicted idle page sessions", "count", n)
			}
		}
	}
}

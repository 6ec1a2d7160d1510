package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration) *PageStore {
	return NewPageStore(nil, nil, ttl)
}

func stored(s *PageStore, id string) *ContactPage {
	v, ok := s.pages.Load(id)
	if !ok {
		return nil
	}
	return v.(*ContactPage)
}

func (p *ContactPage) isEvicted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.evicted
}

func TestPageStoreEviction(t *testing.T) {
	t.Run("Should replace a page evicted before it was removed", func(t *testing.T) {
		s := newTestStore(time.Minute)
		old := s.Get("a")

		// Sweep marked the page but has not deleted it yet
		require.True(t, old.evict(time.Now().Add(2*time.Minute), time.Minute))

		fresh := s.Get("a")
		assert.NotSame(t, old, fresh)
		assert.Same(t, fresh, stored(s, "a"))
		assert.False(t, fresh.isEvicted())
	})

	t.Run("Should not evict a page touched after the idle check", func(t *testing.T) {
		s := newTestStore(time.Minute)
		page := s.Get("a")

		page.mu.Lock()
		page.lastSeen = time.Now().Add(-time.Hour)
		page.mu.Unlock()
		assert.Same(t, page, s.Get("a"))

		// Get moved lastSeen to now
		assert.Equal(t, 0, s.Sweep(time.Now().Add(30*time.Second)))
		assert.Same(t, page, stored(s, "a"))
	})

	t.Run("Should never hand out a live page the store no longer holds", func(t *testing.T) {
		s := newTestStore(0)
		future := time.Now().Add(time.Hour)

		var (
			mu    sync.Mutex
			pages []*ContactPage
			wg    sync.WaitGroup
		)
		for i := 0; i < 4; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					p := s.Get("a")
					mu.Lock()
					pages = append(pages, p)
					mu.Unlock()
				}
			}()
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					s.Sweep(future)
				}
			}()
		}
		wg.Wait()

		current := stored(s, "a")
		for _, p := range pages {
			if !p.isEvicted() {
				assert.Same(t, current, p)
			}
		}
	})
}

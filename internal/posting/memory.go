package posting

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemory implements Store with in-process concurrency safety. It backs
// the httpapi tests and DSN-less runs; production uses the Postgres store.
type InMemory struct {
	mu     sync.RWMutex
	posts  map[int64]Post
	nextID int64
}

var _ Store = (*InMemory)(nil)

func NewInMemory() *InMemory {
	return &InMemory{posts: make(map[int64]Post)}
}

func (s *InMemory) Create(ctx context.Context, post Post) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	post.ID = s.nextID
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = post
	return post, nil
}

func (s *InMemory) GetByID(ctx context.Context, id int64) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return post, nil
}

func (s *InMemory) Update(ctx context.Context, post Post) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.posts[post.ID]
	if !ok {
		return Post{}, ErrNotFound
	}
	post.NgoID = stored.NgoID // owner is immutable
	post.CreatedAt = stored.CreatedAt
	post.UpdatedAt = time.Now().UTC()
	s.posts[post.ID] = post
	return post, nil
}

func (s *InMemory) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *InMemory) ListActive(ctx context.Context, page Page) ([]Post, int, error) {
	return s.list(page, func(p Post) bool {
		return p.Status == StatusActive
	})
}

func (s *InMemory) ListByNGO(ctx context.Context, ngoID int64, page Page) ([]Post, int, error) {
	return s.list(page, func(p Post) bool {
		return p.NgoID == ngoID
	})
}

func (s *InMemory) ListByDomain(ctx context.Context, domain string, page Page) ([]Post, int, error) {
	return s.list(page, func(p Post) bool {
		return strings.EqualFold(p.Domain, domain)
	})
}

func (s *InMemory) ListByCity(ctx context.Context, city string, page Page) ([]Post, int, error) {
	return s.list(page, func(p Post) bool {
		return strings.EqualFold(p.City, city)
	})
}

func (s *InMemory) Search(ctx context.Context, keyword string, page Page) ([]Post, int, error) {
	needle := strings.ToLower(keyword)
	return s.list(page, func(p Post) bool {
		if p.Status != StatusActive {
			return false
		}
		return strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	})
}

func (s *InMemory) ListUpcoming(ctx context.Context, from Date, page Page) ([]Post, int, error) {
	return s.list(page, func(p Post) bool {
		return p.Status == StatusActive && !p.StartDate.Before(from.Time)
	})
}

func (s *InMemory) list(page Page, match func(Post) bool) ([]Post, int, error) {
	page = page.Normalize()

	s.mu.RLock()
	var all []Post
	for _, p := range s.posts {
		if match(p) {
			all = append(all, p)
		}
	}
	s.mu.RUnlock()

	sortPosts(all, page.SortBy, page.SortDir)

	total := len(all)
	start := page.Offset()
	if start >= total {
		return []Post{}, total, nil
	}
	end := start + page.Size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func sortPosts(posts []Post, by, dir string) {
	less := func(a, b Post) bool {
		switch by {
		case "start_date":
			if !a.StartDate.Equal(b.StartDate.Time) {
				return a.StartDate.Before(b.StartDate.Time)
			}
		case "title":
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	}
	sort.Slice(posts, func(i, j int) bool {
		if dir == "asc" {
			return less(posts[i], posts[j])
		}
		return less(posts[j], posts[i])
	})
}

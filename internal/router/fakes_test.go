package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Shimizu-Technology/wows-catalog/internal/database"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// fakeStore is an in-memory handlers.Store. Wows are the read model; docs
// are the write model. They are kept separate, like the view and the table.
type fakeStore struct {
	mu         sync.Mutex
	wows       []models.WowRecord
	docs       map[int64][]byte
	nextID     int64
	lastFilter models.FilterSpec
	err        error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[int64][]byte{}, nextID: 1}
}

func (s *fakeStore) match(w models.WowRecord, f models.FilterSpec, adminOnly bool) bool {
	if !adminOnly {
		if f.Movie != "" {
			if f.MovieMatch == models.MovieFold {
				if !strings.EqualFold(w.Movie, f.Movie) {
					return false
				}
			} else if w.Movie != f.Movie {
				return false
			}
		}
		if f.Year != nil && (w.Year == nil || *w.Year != *f.Year) {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		hay := strings.ToLower(w.Movie + "\x00" + w.Director + "\x00" + w.RoleName + "\x00" + w.FullLine)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

func (s *fakeStore) list(f models.FilterSpec, adminOnly bool) (*models.WowPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = f
	if s.err != nil {
		return nil, s.err
	}

	var matched []models.WowRecord
	for _, w := range s.wows {
		if s.match(w, f, adminOnly) {
			matched = append(matched, w)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	items := []models.WowRecord{}
	start := database.Offset(f.Page, f.PerPage)
	for i := start; i < len(matched) && i < start+f.PerPage; i++ {
		items = append(items, matched[i])
	}
	return &models.WowPage{Total: len(matched), Items: items}, nil
}

func (s *fakeStore) ListWows(_ context.Context, f models.FilterSpec) (*models.WowPage, error) {
	return s.list(f, false)
}

func (s *fakeStore) ListAdminWows(_ context.Context, f models.FilterSpec) (*models.WowPage, error) {
	return s.list(f, true)
}

func (s *fakeStore) GetWow(_ context.Context, id int64) (*models.WowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wows {
		if w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeStore) DistinctMovies(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	movies := []string{}
	for _, w := range s.wows {
		if w.Movie != "" && !seen[w.Movie] {
			seen[w.Movie] = true
			movies = append(movies, w.Movie)
		}
	}
	sort.Strings(movies)
	return movies, nil
}

func (s *fakeStore) DistinctYears(context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[int]bool{}
	years := []int{}
	for _, w := range s.wows {
		if w.Year != nil && !seen[*w.Year] {
			seen[*w.Year] = true
			years = append(years, *w.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (s *fakeStore) CreateDocument(_ context.Context, payload []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	id := s.nextID
	s.nextID++
	s.docs[id] = append([]byte(nil), payload...)
	return id, nil
}

func (s *fakeStore) GetDocument(_ context.Context, id int64) (*models.DocumentRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &models.DocumentRow{ID: id, Data: data}, nil
}

func (s *fakeStore) UpdateDocument(_ context.Context, id int64, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return database.ErrNotFound
	}
	s.docs[id] = append([]byte(nil), payload...)
	return nil
}

func (s *fakeStore) DeleteDocument(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *fakeStore) HealthCheck(context.Context) error {
	return s.err
}

// memUsers is an in-memory accounts.UserStore.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.users) + 1)
	u.CreatedAt = time.Now()
	m.users[u.Username] = u
	return nil
}

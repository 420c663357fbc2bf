// Package repotest provides in-memory repositories for tests of the layers
// above the database.
package repotest

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stores is an in-memory repository.StoreRepository
type Stores struct {
	mu     sync.Mutex
	stores map[string]model.Store
	Err    error
}

var _ repository.StoreRepository = (*Stores)(nil)

// NewStores hashes each seed's code. Hashing uses bcrypt, so keep seeds few.
func NewStores(seeds ...model.StoreSeed) *Stores {
	s := &Stores{stores: make(map[string]model.Store)}
	for _, seed := range seeds {
		store := seed.Store
		if err := store.SetAccessCode(seed.AccessCode); err != nil {
			panic(err)
		}
		s.stores[store.ID] = store
	}
	return s
}

func (s *Stores) sorted() []model.Store {
	out := make([]model.Store, 0, len(s.stores))
	for _, st := range s.stores {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Stores) FindAll() ([]model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sorted(), nil
}

func (s *Stores) FindByID(id string) (*model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &st, nil
}

func (s *Stores) Search(query string) ([]model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Store, 0)
	for _, st := range s.sorted() {
		if strings.Contains(strings.ToLower(st.Name), q) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Stores) UpdateAccessCode(id, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if err := st.SetAccessCode(code); err != nil {
		return err
	}
	s.stores[id] = st
	return nil
}

func (s *Stores) SeedDefaults() error {
	return nil
}

// Sites is an in-memory repository.SiteRepository. Deleted sites disappear.
type Sites struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]model.Site
	order   []uuid.UUID
	FindErr error
}

var _ repository.SiteRepository = (*Sites)(nil)

func NewSites(sites ...model.Site) *Sites {
	s := &Sites{byID: make(map[uuid.UUID]model.Site)}
	for i := range sites {
		s.Create(&sites[i])
	}
	return s
}

func (s *Sites) Create(site *model.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	if _, ok := s.byID[site.ID]; !ok {
		s.order = append(s.order, site.ID)
	}
	s.byID[site.ID] = *site
	return nil
}

func (s *Sites) Update(site *model.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[site.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.byID[site.ID] = *site
	return nil
}

func (s *Sites) Delete(id uuid.UUID, deletedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

func (s *Sites) FindByID(id uuid.UUID) (*model.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &site, nil
}

// FindByStore returns sites in insertion order
func (s *Sites) FindByStore(storeID string) ([]model.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	out := make([]model.Site, 0)
	for _, id := range s.order {
		if site, ok := s.byID[id]; ok && site.StoreID == storeID {
			out = append(out, site)
		}
	}
	return out, nil
}

// Logs is an in-memory repository.InspectionLogRepository assigning Seq on append
type Logs struct {
	mu        sync.Mutex
	seq       uint64
	logs      []model.InspectionLog
	AppendErr error
}

var _ repository.InspectionLogRepository = (*Logs)(nil)

func NewLogs() *Logs {
	return &Logs{}
}

func (l *Logs) Append(entry *model.InspectionLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.AppendErr != nil {
		return l.AppendErr
	}
	l.seq++
	entry.Seq = l.seq
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	l.logs = append(l.logs, *entry)
	return nil
}

// FindByStore returns newest first
func (l *Logs) FindByStore(storeID string) ([]model.InspectionLog, error) {
	return l.FindByStoreAndRange(storeID, time.Time{}, time.Time{})
}

// FindByStoreAndRange treats zero bounds as open
func (l *Logs) FindByStoreAndRange(storeID string, from, to time.Time) ([]model.InspectionLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.InspectionLog, 0)
	for _, entry := range l.logs {
		if entry.StoreID != storeID {
			continue
		}
		if !from.IsZero() && entry.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !entry.Timestamp.Before(to) {
			continue
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

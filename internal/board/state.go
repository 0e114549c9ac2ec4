package board

import (
	"sync"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
)

// State is the flat, most-recent-first collection behind the board.
// Columns are derived from it on every read and never stored.
type State struct {
	mu      sync.RWMutex
	records []domain.JobApplication
}

// New creates a board holding records (duplicates dropped).
func New(records ...domain.JobApplication) (*State, error) {
	s := &State{}
	if err := s.Apply(Reset{Records: records}); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply runs a single mutation atomically.
func (s *State) Apply(m Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return m.apply(s)
}

// Get returns a copy of the record with id and its position in the flat collection.
func (s *State) Get(id string) (domain.JobApplication, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.JobApplication{}, -1, false
	}
	return s.records[i].Clone(), i, true
}

// Records returns a snapshot of the flat collection.
func (s *State) Records() []domain.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.JobApplication, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Columns groups the collection by status. Every status has an entry, and
// cards keep the relative order of the flat collection.
func (s *State) Columns() map[domain.Status][]domain.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return project(s.records)
}

func project(records []domain.JobApplication) map[domain.Status][]domain.JobApplication {
	cols := make(map[domain.Status][]domain.JobApplication, len(domain.Statuses))
	for _, st := range domain.Statuses {
		cols[st] = []domain.JobApplication{}
	}
	for _, rec := range records {
		cols[rec.Status] = append(cols[rec.Status], rec.Clone())
	}
	return cols
}

// indexOf requires s.mu to be held.
func (s *State) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

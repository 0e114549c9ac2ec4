package board

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
)

// ErrInvalidMutation is returned for malformed mutations. State is left untouched.
var ErrInvalidMutation = errors.New("invalid board mutation")

// Mutation is the closed set of changes the board accepts.
type Mutation interface {
	apply(s *State) error
}

// Insert puts a record at the front of the collection. A known id is replaced in place.
type Insert struct {
	Record domain.JobApplication
}

// Replace swaps the record with the given id. Unknown ids are ignored.
type Replace struct {
	ID     string
	Record domain.JobApplication
}

// Remove drops the record with the given id. Unknown ids are ignored.
type Remove struct {
	ID string
}

// PatchStatus moves a record to another column. Unknown ids are ignored.
type PatchStatus struct {
	ID     string
	Status domain.Status
}

// Restore puts a previously removed record back in front of Before.
// When Before is empty or gone, Index (clamped) is used instead.
type Restore struct {
	Record domain.JobApplication
	Before string
	Index  int
}

// Reset replaces the whole collection. Later duplicates of an id are dropped.
type Reset struct {
	Records []domain.JobApplication
}

func checkRecord(rec domain.JobApplication) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record without id", ErrInvalidMutation)
	}
	if !rec.Status.Valid() {
		return fmt.Errorf("%w: record %s has status %q", ErrInvalidMutation, rec.ID, rec.Status)
	}
	return nil
}

func (m Insert) apply(s *State) error {
	if err := checkRecord(m.Record); err != nil {
		return err
	}
	rec := m.Record.Clone()
	if i := s.indexOf(rec.ID); i >= 0 {
		s.records[i] = rec
		return nil
	}
	s.records = append([]domain.JobApplication{rec}, s.records...)
	return nil
}

func (m Replace) apply(s *State) error {
	if m.ID == "" {
		return fmt.Errorf("%w: replace without id", ErrInvalidMutation)
	}
	if m.Record.ID != m.ID {
		return fmt.Errorf("%w: replace %s with record %s", ErrInvalidMutation, m.ID, m.Record.ID)
	}
	if err := checkRecord(m.Record); err != nil {
		return err
	}
	if i := s.indexOf(m.ID); i >= 0 {
		s.records[i] = m.Record.Clone()
	}
	return nil
}

func (m Remove) apply(s *State) error {
	if m.ID == "" {
		return fmt.Errorf("%w: remove without id", ErrInvalidMutation)
	}
	if i := s.indexOf(m.ID); i >= 0 {
		s.records = append(s.records[:i], s.records[i+1:]...)
	}
	return nil
}

func (m PatchStatus) apply(s *State) error {
	if m.ID == "" {
		return fmt.Errorf("%w: status patch without id", ErrInvalidMutation)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidMutation, m.Status)
	}
	if i := s.indexOf(m.ID); i >= 0 {
		s.records[i].Status = m.Status
	}
	return nil
}

func (m Restore) apply(s *State) error {
	if err := checkRecord(m.Record); err != nil {
		return err
	}
	if s.indexOf(m.Record.ID) >= 0 {
		return nil
	}
	pos := -1
	if m.Before != "" {
		pos = s.indexOf(m.Before)
	}
	if pos < 0 {
		pos = min(max(m.Index, 0), len(s.records))
	}
	s.records = append(s.records, domain.JobApplication{})
	copy(s.records[pos+1:], s.records[pos:])
	s.records[pos] = m.Record.Clone()
	return nil
}

func (m Reset) apply(s *State) error {
	for _, rec := range m.Records {
		if err := checkRecord(rec); err != nil {
			return err
		}
	}
	seen := make(map[string]struct{}, len(m.Records))
	records := make([]domain.JobApplication, 0, len(m.Records))
	for _, rec := range m.Records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec.Clone())
	}
	s.records = records
	return nil
}

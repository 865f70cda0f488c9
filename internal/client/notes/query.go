package notes

import (
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

func deletedAt(n models.Note) time.Time {
	if n.DeletedAt == nil {
		return time.Time{}
	}
	return *n.DeletedAt
}

// Get looks id up in Active, then in the recycle bin.
func (s *Store) Get(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return models.Note{}, false
	}
	id = NormalizeNoteID(id)
	if n, ok := s.st.active[id]; ok {
		return n.Clone(), true
	}
	if n, ok := s.st.tier1[id]; ok {
		return n.Clone(), true
	}
	return models.Note{}, false
}

// Active returns copies of the Active notes, newest datestamp first.
func (s *Store) Active() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return nil
	}
	return s.st.activeSorted()
}

// RecycleBin returns copies of the restorable deleted notes, most recently
// deleted first.
func (s *Store) RecycleBin() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return nil
	}
	return s.st.tier1Sorted()
}

func (s *Store) Tier2IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return nil
	}
	return s.st.tier2.sorted()
}

func (s *Store) DeletedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return nil
	}
	return s.st.deleted.sorted()
}

// Search returns Active notes whose title or content contains query,
// ignoring case. An empty query matches everything.
func (s *Store) Search(query string) []models.Note {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.Active()
	if q == "" {
		return all
	}
	out := all[:0]
	for _, n := range all {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// ByDate returns Active notes filed between from and to, inclusive.
// Either bound may be empty.
func (s *Store) ByDate(from, to string) ([]models.Note, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from != "" && !IsValidDatestamp(from) {
		return nil, &ValidationError{Field: "from", Reason: "must be a YYYY-MM-DD date"}
	}
	if to != "" && !IsValidDatestamp(to) {
		return nil, &ValidationError{Field: "to", Reason: "must be a YYYY-MM-DD date"}
	}

	all := s.Active()
	out := all[:0]
	for _, n := range all {
		if from != "" && n.Datestamp < from {
			continue
		}
		if to != "" && n.Datestamp > to {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

type DateCount struct {
	Datestamp string
	Count     int
}

// Dates lists the datestamps that have Active notes, newest first.
func (s *Store) Dates() []DateCount {
	counts := map[string]int{}
	for _, n := range s.Active() {
		counts[n.Datestamp]++
	}
	out := make([]DateCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DateCount{Datestamp: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datestamp > out[j].Datestamp })
	return out
}

type Counts struct {
	Active     int
	RecycleBin int
	Tombstones int
	DeletedIDs int
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return Counts{}
	}
	return Counts{
		Active:     len(s.st.active),
		RecycleBin: len(s.st.tier1),
		Tombstones: len(s.st.tier2),
		DeletedIDs: len(s.st.deleted),
	}
}

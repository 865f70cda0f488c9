package notes

import (
	"sort"

	"github.com/dmitrijs2005/notekeeper/internal/client/localstore"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type idSet map[string]struct{}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// state holds the four buckets of one user. Operations mutate a clone and
// swap it in only after it has been persisted.
type state struct {
	active  map[string]models.Note
	tier1   map[string]models.Note
	tier2   idSet
	deleted idSet
}

func newState() *state {
	return &state{
		active:  map[string]models.Note{},
		tier1:   map[string]models.Note{},
		tier2:   idSet{},
		deleted: idSet{},
	}
}

func (st *state) clone() *state {
	c := &state{
		active:  make(map[string]models.Note, len(st.active)),
		tier1:   make(map[string]models.Note, len(st.tier1)),
		tier2:   make(idSet, len(st.tier2)),
		deleted: make(idSet, len(st.deleted)),
	}
	for id, n := range st.active {
		c.active[id] = n.Clone()
	}
	for id, n := range st.tier1 {
		c.tier1[id] = n.Clone()
	}
	for id := range st.tier2 {
		c.tier2[id] = struct{}{}
	}
	for id := range st.deleted {
		c.deleted[id] = struct{}{}
	}
	return c
}

// known reports whether id is in any bucket or guard set.
func (st *state) known(id string) bool {
	_, a := st.active[id]
	_, b := st.tier1[id]
	return a || b || st.tier2.has(id) || st.deleted.has(id)
}

func (st *state) activeSorted() []models.Note {
	out := make([]models.Note, 0, len(st.active))
	for _, n := range st.active {
		out = append(out, n.Clone())
	}
	sortActive(out)
	return out
}

func (st *state) tier1Sorted() []models.Note {
	out := make([]models.Note, 0, len(st.tier1))
	for _, n := range st.tier1 {
		out = append(out, n.Clone())
	}
	sortRecycleBin(out)
	return out
}

func (st *state) snapshot() localstore.Snapshot {
	return localstore.Snapshot{
		Active:       st.activeSorted(),
		RecycleTier1: st.tier1Sorted(),
		RecycleTier2: st.tier2.sorted(),
		DeletedIDs:   st.deleted.sorted(),
	}
}

// sortActive orders by datestamp desc, then most recently updated.
func sortActive(ns []models.Note) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].Datestamp != ns[j].Datestamp {
			return ns[i].Datestamp > ns[j].Datestamp
		}
		if !ns[i].UpdatedAt.Equal(ns[j].UpdatedAt) {
			return ns[i].UpdatedAt.After(ns[j].UpdatedAt)
		}
		return ns[i].ID < ns[j].ID
	})
}

func sortRecycleBin(ns []models.Note) {
	sort.SliceStable(ns, func(i, j int) bool {
		di, dj := deletedAt(ns[i]), deletedAt(ns[j])
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return ns[i].ID < ns[j].ID
	})
}

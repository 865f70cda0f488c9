package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type ImportMode int

const (
	// ImportReplace discards Active, the recycle bin and the deleted-id
	// guard and adopts the file's records.
	ImportReplace ImportMode = iota
	// ImportMerge only adds records whose id is not known locally.
	ImportMerge
)

func (m ImportMode) String() string {
	switch m {
	case ImportReplace:
		return "replace"
	case ImportMerge:
		return "merge"
	}
	return fmt.Sprintf("ImportMode(%d)", int(m))
}

func ParseImportMode(s string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		return ImportReplace, nil
	case "merge", "":
		return ImportMerge, nil
	}
	return 0, &ValidationError{Field: "mode", Reason: "must be replace or merge"}
}

type ImportResult struct {
	Active  int
	Deleted int
	// Dropped counts records rejected as malformed or duplicated in the file.
	Dropped int
	// Skipped counts valid records a merge did not add.
	Skipped int
}

// ExportFileName is the conventional name of an export taken at now.
func ExportFileName(now time.Time) string {
	return "notes-backup-" + now.Format(models.DateLayout) + ".json"
}

// Export serializes Active then recycle-bin notes as an indented JSON array.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return nil, ErrNotLoaded
	}
	if len(s.st.active)+len(s.st.tier1) == 0 {
		return nil, ErrNothingToExport
	}

	recs := make([]models.ExportRecord, 0, len(s.st.active)+len(s.st.tier1))
	for _, n := range s.st.activeSorted() {
		u := n.UpdatedAt
		recs = append(recs, models.ExportRecord{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Datestamp: n.Datestamp,
			CreatedAt: n.CreatedAt,
			UpdatedAt: &u,
		})
	}
	for _, n := range s.st.tier1Sorted() {
		u := n.UpdatedAt
		recs = append(recs, models.ExportRecord{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Datestamp: n.Datestamp,
			CreatedAt: n.CreatedAt,
			UpdatedAt: &u,
			DeletedAt: n.DeletedAt,
			IsDeleted: true,
		})
	}

	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	s.log.Info(ctx, "notes exported", "user", s.userKey, "records", len(recs))
	return b, nil
}

// Import reads an export file. Records without a UUID-v4 id, non-empty
// content and a valid datestamp are dropped, as are repeats of an id
// already seen in the file. A file that is not a JSON array or holds no
// valid record fails with a *MalformedImportError and changes nothing.
func (s *Store) Import(ctx context.Context, data []byte, mode ImportMode) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return ImportResult{}, ErrNotLoaded
	}
	if mode != ImportReplace && mode != ImportMerge {
		return ImportResult{}, &ValidationError{Field: "mode", Reason: "unknown import mode"}
	}

	notes, dropped, err := parseImport(data, s.stamp())
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Dropped: dropped}
	var next *state

	switch mode {
	case ImportReplace:
		next = s.st.clone()
		next.active = map[string]models.Note{}
		next.tier1 = map[string]models.Note{}
		next.deleted = idSet{}
		for _, n := range notes {
			delete(next.tier2, n.ID)
			if n.DeletedAt != nil {
				next.tier1[n.ID] = n
				next.deleted[n.ID] = struct{}{}
				res.Deleted++
			} else {
				next.active[n.ID] = n
				res.Active++
			}
		}

	case ImportMerge:
		next = s.st.clone()
		for _, n := range notes {
			_, inActive := next.active[n.ID]
			_, inTier1 := next.tier1[n.ID]
			tomb := next.tier2.has(n.ID)

			if n.DeletedAt != nil {
				if inActive || inTier1 || tomb {
					res.Skipped++
					continue
				}
				next.tier1[n.ID] = n
				next.deleted[n.ID] = struct{}{}
				res.Deleted++
				continue
			}

			if inActive || inTier1 || tomb || next.deleted.has(n.ID) {
				res.Skipped++
				continue
			}
			next.active[n.ID] = n
			res.Active++
		}

		if res.Active+res.Deleted == 0 {
			s.log.Info(ctx, "import merged nothing new", "user", s.userKey, "skipped", res.Skipped)
			return res, nil
		}
	}

	if err := s.commit(ctx, next); err != nil {
		return ImportResult{}, err
	}

	s.log.Info(ctx, "notes imported", "user", s.userKey, "mode", mode.String(),
		"active", res.Active, "deleted", res.Deleted, "dropped", res.Dropped, "skipped", res.Skipped)
	return res, nil
}

// parseImport returns the valid records as notes; deleted records carry a
// DeletedAt.
func parseImport(data []byte, now time.Time) ([]models.Note, int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, &MalformedImportError{Reason: "not a JSON array", Err: err}
	}

	seen := map[string]struct{}{}
	out := make([]models.Note, 0, len(raws))
	dropped := 0

	for _, raw := range raws {
		var rec models.ExportRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			dropped++
			continue
		}
		rec.ID = NormalizeNoteID(rec.ID)
		rec.Datestamp = strings.TrimSpace(rec.Datestamp)
		if !IsValidNoteID(rec.ID) || strings.TrimSpace(rec.Content) == "" || !IsValidDatestamp(rec.Datestamp) {
			dropped++
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			dropped++
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, noteFromExport(rec, now))
	}

	if len(out) == 0 {
		return nil, dropped, &MalformedImportError{Reason: "no valid records found"}
	}
	return out, dropped, nil
}

func noteFromExport(r models.ExportRecord, now time.Time) models.Note {
	created := r.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := created
	if r.UpdatedAt != nil && !r.UpdatedAt.IsZero() {
		updated = *r.UpdatedAt
	}

	n := models.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Datestamp: r.Datestamp,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	if r.IsDeleted {
		d := updated
		if r.DeletedAt != nil && !r.DeletedAt.IsZero() {
			d = *r.DeletedAt
		}
		n.DeletedAt = &d
	}
	return n
}

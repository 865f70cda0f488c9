package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/notes"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// headline is the title, or the first content line for untitled notes.
func headline(n models.Note) string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return truncate(t, 50)
	}
	first, _, _ := strings.Cut(n.Content, "\n")
	return truncate(strings.TrimSpace(first), 50)
}

func noteLine(n models.Note) string {
	return fmt.Sprintf("%s  %s  %s", shortID(n.ID), n.Datestamp, headline(n))
}

func binLine(n models.Note) string {
	deleted := ""
	if n.DeletedAt != nil {
		deleted = n.DeletedAt.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s  %s  deleted %s  %s", shortID(n.ID), n.Datestamp, deleted, headline(n))
}

// resolveID accepts a full id or a unique prefix of one of the candidates.
func resolveID(ref string, candidates []models.Note) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", fmt.Errorf("%w: id is required", notes.ErrNotFound)
	}

	var match string
	for _, n := range candidates {
		id := strings.ToLower(n.ID)
		if id == ref {
			return n.ID, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("ambiguous id %q", ref)
			}
			match = n.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", notes.ErrNotFound, ref)
	}
	return match, nil
}

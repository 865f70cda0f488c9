package notes

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

var noteIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsValidNoteID reports whether id has the UUID-v4 shape, ignoring case.
func IsValidNoteID(id string) bool {
	return noteIDPattern.MatchString(strings.ToLower(id))
}

// NormalizeNoteID is the canonical form every id takes inside the store.
// Buckets and guard sets compare ids as exact strings.
func NormalizeNoteID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// GenerateNoteID returns a random (version 4) UUID string.
func GenerateNoteID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func IsValidDatestamp(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func validateInput(in models.NoteInput) (models.NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Datestamp = strings.TrimSpace(in.Datestamp)

	if strings.TrimSpace(in.Content) == "" {
		return in, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if in.Datestamp == "" {
		return in, &ValidationError{Field: "datestamp", Reason: "is required"}
	}
	if !IsValidDatestamp(in.Datestamp) {
		return in, &ValidationError{Field: "datestamp", Reason: "must be a YYYY-MM-DD date"}
	}
	return in, nil
}

// Package models defines the client-side note types shared by the store,
// the transport and the CLI.
package models

import "time"

// DateLayout is the calendar-date format of Note.Datestamp.
const DateLayout = "2006-01-02"

// Note is a single user memo as kept in local storage.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Datestamp string     `json:"datestamp"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Clone returns a deep copy; DeletedAt is not shared.
func (n Note) Clone() Note {
	if n.DeletedAt != nil {
		d := *n.DeletedAt
		n.DeletedAt = &d
	}
	return n
}

// NoteInput carries the user-editable fields of a note.
type NoteInput struct {
	Title     string
	Content   string
	Datestamp string
}

// RemoteNote is a row of the hosted note store.
type RemoteNote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Datestamp string    `json:"datestamp"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportRecord is one element of an export/import file.
type ExportRecord struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Datestamp string     `json:"datestamp"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	IsDeleted bool       `json:"isDeleted"`
}

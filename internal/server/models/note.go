package models

import "time"

// Note is one row of the hosted note table. IsDeleted rows are recycle-bin
// copies uploaded by a backup; UpdatedAt then holds the deletion time.
type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Datestamp string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

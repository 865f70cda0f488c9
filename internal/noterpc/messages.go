package noterpc

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	CanBackup   bool      `json:"can_backup"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// Note is one row of the hosted note table.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Datestamp string    `json:"datestamp"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListNotesRequest struct {
	UserID string `json:"user_id"`
}

type ListNotesResponse struct {
	Notes []Note `json:"notes"`
}

type DeleteAllNotesRequest struct {
	UserID string `json:"user_id"`
}

type DeleteAllNotesResponse struct {
	Deleted int64 `json:"deleted"`
}

type InsertNotesRequest struct {
	Notes []Note `json:"notes"`
}

type InsertNotesResponse struct {
	Inserted int64 `json:"inserted"`
}

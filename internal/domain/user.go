package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password,omitempty"` // Save to DB but omit from responses when empty
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncProfile is the per-user revision ledger row. LatestSyncRev starts at
// 0 and advances by exactly one per successful sync batch.
type SyncProfile struct {
	Owner         string `json:"owner"`
	LatestSyncRev int64  `json:"latest_sync_rev"`
}

// UserMeta is the read shape of the user endpoint: profile names, a
// reference to the note collection and the current ledger value.
type UserMeta struct {
	FirstName          string  `json:"first-name"`
	LastName           string  `json:"last-name"`
	NotesRef           NoteRef `json:"notes-ref"`
	LatestSyncRevision int64   `json:"latest-sync-revision"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

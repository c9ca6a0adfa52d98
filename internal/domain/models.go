package domain

import "time"

// Client is a contact/account record owned by the backend.
// The CLI and console only ever hold a transient, possibly stale copy.
type Client struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Details     string `json:"details"`
	Active      bool   `json:"active"`
	Location    string `json:"location"`
}

// RecordID returns the backend identity of the client
func (c Client) RecordID() int64 { return c.ID }

// Draft is a provisional client that has not been posted yet
type Draft struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email"`
	Details        string    `json:"details"`
	Active         bool      `json:"active"`
	Location       string    `json:"location"`
	CreatedByEmail string    `json:"createdByEmail"`
	CreatedByName  string    `json:"createdByName"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RecordID returns the backend identity of the draft
func (d Draft) RecordID() int64 { return d.ID }

// AuditLog is a read-only, backend-authored audit entry
type AuditLog struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   int64     `json:"entityId"`
	ActorEmail string    `json:"actorEmail"`
	ActorName  string    `json:"actorName"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecordID returns the backend identity of the log entry
func (l AuditLog) RecordID() int64 { return l.ID }

// User is the signed-in operator profile cached with the session
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// LoginResponse is returned by POST /api/auth/login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

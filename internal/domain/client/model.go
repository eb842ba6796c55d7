package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("client record not found")

// Client maps to the client table. Identity is the UUID; legacy external
// identifiers are normalized to it at ingestion.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ContactStatus tracks the follow-up state of a contact-history entry.
type ContactStatus string

const (
	ContactOpen     ContactStatus = "open"
	ContactPending  ContactStatus = "pending"
	ContactResolved ContactStatus = "resolved"
	ContactClosed   ContactStatus = "closed"
)

// Valid reports whether s is one of the known contact statuses.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactOpen, ContactPending, ContactResolved, ContactClosed:
		return true
	}
	return false
}

// ContactEntry maps to the contact_history table.
type ContactEntry struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	ClientID   uuid.UUID     `db:"client_id" json:"client_id"`
	Channel    string        `db:"channel" json:"channel"`
	Subject    string        `db:"subject" json:"subject"`
	Note       *string       `db:"note" json:"note,omitempty"`
	Status     ContactStatus `db:"status" json:"status"`
	OccurredAt time.Time     `db:"occurred_at" json:"occurred_at"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

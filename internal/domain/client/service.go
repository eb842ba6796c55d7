package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	clients  Repository
	contacts ContactRepository
}

func NewService(clients Repository, contacts ContactRepository) *Service {
	return &Service{clients: clients, contacts: contacts}
}

// -- Clients --

func (s *Service) Create(ctx context.Context, c *Client) error {
	if c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.clients.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Client) error {
	return s.clients.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.clients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Client, int, error) {
	return s.clients.List(ctx, activeOnly, limit, offset)
}

// -- Contact history --

func (s *Service) AddContactEntry(ctx context.Context, e *ContactEntry) error {
	if e.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if e.Channel == "" {
		return fmt.Errorf("channel is required")
	}
	if e.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if e.Status == "" {
		e.Status = ContactOpen
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid contact status: %s", e.Status)
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if _, err := s.clients.GetByID(ctx, e.ClientID); err != nil {
		return err
	}
	return s.contacts.Create(ctx, e)
}

func (s *Service) ListContactHistory(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*ContactEntry, int, error) {
	return s.contacts.ListByClient(ctx, clientID, limit, offset)
}

// BulkUpdateContactStatus moves each entry to status independently and
// returns how many changed. A missing entry never aborts the rest.
func (s *Service) BulkUpdateContactStatus(ctx context.Context, ids []uuid.UUID, status ContactStatus) (int, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("invalid contact status: %s", status)
	}
	modified := 0
	for _, id := range ids {
		if err := s.contacts.UpdateStatus(ctx, id, status); err == nil {
			modified++
		}
	}
	return modified, nil
}

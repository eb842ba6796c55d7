package client

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mocks --

type mockRepo struct {
	items map[uuid.UUID]*Client
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Client)}
}

func (m *mockRepo) Create(_ context.Context, c *Client) error {
	c.ID = uuid.New()
	m.items[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Client, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) Update(_ context.Context, c *Client) error {
	m.items[c.ID] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*Client, int, error) {
	var result []*Client
	for _, c := range m.items {
		if activeOnly && !c.Active {
			continue
		}
		result = append(result, c)
	}
	return result, len(result), nil
}

type mockContactRepo struct {
	items map[uuid.UUID]*ContactEntry
}

func newMockContactRepo() *mockContactRepo {
	return &mockContactRepo{items: make(map[uuid.UUID]*ContactEntry)}
}

func (m *mockContactRepo) Create(_ context.Context, e *ContactEntry) error {
	e.ID = uuid.New()
	m.items[e.ID] = e
	return nil
}

func (m *mockContactRepo) GetByID(_ context.Context, id uuid.UUID) (*ContactEntry, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *mockContactRepo) ListByClient(_ context.Context, clientID uuid.UUID, limit, offset int) ([]*ContactEntry, int, error) {
	var result []*ContactEntry
	for _, e := range m.items {
		if e.ClientID == clientID {
			result = append(result, e)
		}
	}
	return result, len(result), nil
}

func (m *mockContactRepo) UpdateStatus(_ context.Context, id uuid.UUID, status ContactStatus) error {
	e, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = status
	return nil
}

func newTestService() (*Service, *mockRepo, *mockContactRepo) {
	clients := newMockRepo()
	contacts := newMockContactRepo()
	return NewService(clients, contacts), clients, contacts
}

func seedClient(t *testing.T, svc *Service) *Client {
	t.Helper()
	c := &Client{FirstName: "Jordan", LastName: "Blake", Active: true}
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

// -- Tests --

func TestCreate_RequiresName(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Create(context.Background(), &Client{FirstName: "Jordan"}); err == nil {
		t.Error("expected error for missing last_name")
	}
}

func TestAddContactEntry(t *testing.T) {
	svc, _, contacts := newTestService()
	c := seedClient(t, svc)

	e := &ContactEntry{ClientID: c.ID, Channel: "phone", Subject: "Reschedule request"}
	if err := svc.AddContactEntry(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != ContactOpen {
		t.Errorf("expected default status open, got %s", e.Status)
	}
	if e.OccurredAt.IsZero() {
		t.Error("expected occurred_at to default")
	}
	if len(contacts.items) != 1 {
		t.Errorf("expected one entry stored, got %d", len(contacts.items))
	}
}

func TestAddContactEntry_UnknownClient(t *testing.T) {
	svc, _, _ := newTestService()
	e := &ContactEntry{ClientID: uuid.New(), Channel: "phone", Subject: "x"}
	if err := svc.AddContactEntry(context.Background(), e); err == nil {
		t.Error("expected error for unknown client")
	}
}

func TestBulkUpdateContactStatus_PartialSuccess(t *testing.T) {
	svc, _, contacts := newTestService()
	c := seedClient(t, svc)

	ids := make([]uuid.UUID, 0, 5)
	for i := 0; i < 4; i++ {
		e := &ContactEntry{ClientID: c.ID, Channel: "email", Subject: "Follow up", OccurredAt: time.Now()}
		if err := svc.AddContactEntry(context.Background(), e); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
		ids = append(ids, e.ID)
	}
	ids = append(ids, uuid.New())

	modified, err := svc.BulkUpdateContactStatus(context.Background(), ids, ContactResolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if modified != 4 {
		t.Errorf("expected modified count 4, got %d", modified)
	}
	for _, id := range ids[:4] {
		if contacts.items[id].Status != ContactResolved {
			t.Errorf("entry %s not updated", id)
		}
	}
}

func TestBulkUpdateContactStatus_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.BulkUpdateContactStatus(context.Background(), []uuid.UUID{uuid.New()}, "archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

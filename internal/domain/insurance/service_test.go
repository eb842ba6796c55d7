package insurance

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// -- Mocks --

type mockPayerRepo struct {
	items map[uuid.UUID]*Payer
}

func newMockPayerRepo() *mockPayerRepo {
	return &mockPayerRepo{items: make(map[uuid.UUID]*Payer)}
}

func (m *mockPayerRepo) Create(_ context.Context, p *Payer) error {
	p.ID = uuid.New()
	m.items[p.ID] = p
	return nil
}

func (m *mockPayerRepo) GetByID(_ context.Context, id uuid.UUID) (*Payer, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPayerRepo) Update(_ context.Context, p *Payer) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockPayerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockPayerRepo) List(_ context.Context, limit, offset int) ([]*Payer, int, error) {
	var result []*Payer
	for _, p := range m.items {
		result = append(result, p)
	}
	return result, len(result), nil
}

type mockPlanRepo struct {
	items map[uuid.UUID]*Plan
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{items: make(map[uuid.UUID]*Plan)}
}

func (m *mockPlanRepo) Create(_ context.Context, p *Plan) error {
	p.ID = uuid.New()
	m.items[p.ID] = p
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id uuid.UUID) (*Plan, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPlanRepo) Update(_ context.Context, p *Plan) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockPlanRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockPlanRepo) ListByPayer(_ context.Context, payerID uuid.UUID, limit, offset int) ([]*Plan, int, error) {
	var result []*Plan
	for _, p := range m.items {
		if p.PayerID == payerID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockPlanRepo) List(_ context.Context, limit, offset int) ([]*Plan, int, error) {
	var result []*Plan
	for _, p := range m.items {
		result = append(result, p)
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockPayerRepo(), newMockPlanRepo())
}

func seedPayer(t *testing.T, svc *Service) *Payer {
	t.Helper()
	p := &Payer{Name: "Acme Health", PayerCode: "ACME"}
	if err := svc.CreatePayer(context.Background(), p); err != nil {
		t.Fatalf("seed payer: %v", err)
	}
	return p
}

// -- Tests --

func TestCreatePayer_Validation(t *testing.T) {
	svc := newTestService()
	if err := svc.CreatePayer(context.Background(), &Payer{Name: "Acme Health"}); err == nil {
		t.Error("expected error for missing payer_code")
	}
}

func TestCreatePlan(t *testing.T) {
	svc := newTestService()
	payer := seedPayer(t, svc)
	copay := 20.0

	p := &Plan{PayerID: payer.ID, Name: "Gold PPO", PlanCode: "GOLD", CopayAmount: &copay, COBOrder: 1}
	if err := svc.CreatePlan(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plans, total, err := svc.ListPlans(context.Background(), &payer.ID, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || plans[0].PlanCode != "GOLD" {
		t.Errorf("unexpected plans: total=%d", total)
	}
}

func TestCreatePlan_Validation(t *testing.T) {
	svc := newTestService()
	payer := seedPayer(t, svc)
	amount := 20.0
	pct := 10.0
	badPct := 150.0

	cases := []struct {
		name string
		p    Plan
	}{
		{"missing payer", Plan{Name: "x"}},
		{"unknown payer", Plan{PayerID: uuid.New(), Name: "x"}},
		{"both copay fields", Plan{PayerID: payer.ID, Name: "x", CopayAmount: &amount, CopayPercentage: &pct}},
		{"percentage out of range", Plan{PayerID: payer.ID, Name: "x", CopayPercentage: &badPct}},
		{"negative cob order", Plan{PayerID: payer.ID, Name: "x", COBOrder: -1}},
	}
	for _, tc := range cases {
		if err := svc.CreatePlan(context.Background(), &tc.p); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

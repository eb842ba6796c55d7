package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	items map[uuid.UUID]*Order
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Order)}
}

func copyOrder(o *Order) *Order {
	dup := *o
	dup.Items = append([]OrderItem(nil), o.Items...)
	return &dup
}

func (m *mockRepo) Create(_ context.Context, o *Order) error {
	o.ID = uuid.New()
	o.VersionID = 1
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	m.items[o.ID] = copyOrder(o)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *mockRepo) GetByOrderNumber(_ context.Context, number string) (*Order, error) {
	for _, o := range m.items {
		if o.OrderNumber == number {
			return copyOrder(o), nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, o *Order) error {
	stored, ok := m.items[o.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.VersionID != o.VersionID {
		return fmt.Errorf("%w: order %s", ErrVersionConflict, o.ID)
	}
	o.VersionID++
	dup := copyOrder(o)
	dup.Items = stored.Items
	m.items[o.ID] = dup
	return nil
}

func (m *mockRepo) ReplaceItems(_ context.Context, o *Order) error {
	stored, ok := m.items[o.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.VersionID != o.VersionID {
		return fmt.Errorf("%w: order %s", ErrVersionConflict, o.ID)
	}
	o.VersionID++
	m.items[o.ID] = copyOrder(o)
	return nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter, limit, offset int) ([]*Order, int, error) {
	var result []*Order
	for _, o := range m.items {
		if filter.ClientID != nil && o.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		result = append(result, copyOrder(o))
	}
	return result, len(result), nil
}

func (m *mockRepo) ListReadyForBilling(_ context.Context, limit, offset int) ([]*Order, int, error) {
	var result []*Order
	for _, o := range m.items {
		if o.AwaitingInvoice() {
			result = append(result, copyOrder(o))
		}
	}
	return result, len(result), nil
}

type mockCatalog struct {
	products map[string]*Product
}

func (m *mockCatalog) Product(_ context.Context, key string) (*Product, error) {
	p, ok := m.products[key]
	if !ok {
		return nil, fmt.Errorf("unknown product %q", key)
	}
	return p, nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	catalog := &mockCatalog{products: map[string]*Product{
		"massage-60": {Key: "massage-60", Name: "Massage 60min", UnitPrice: 50, DurationMinutes: 60},
		"consult":    {Key: "consult", Name: "Consultation", UnitPrice: 25, DurationMinutes: 30},
	}}
	return NewService(repo, catalog), repo
}

func seedOrder(t *testing.T, svc *Service, status OrderStatus, total float64) *Order {
	t.Helper()
	o := &Order{
		ClientID:   uuid.New(),
		ClientName: "Jordan Blake",
		ClinicName: "Downtown Clinic",
		Items:      []OrderItem{{ProductKey: "massage-60", Quantity: 1, UnitPrice: total}},
	}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if status != StatusScheduled {
		path := map[OrderStatus][]OrderStatus{
			StatusInProgress: {StatusInProgress},
			StatusCompleted:  {StatusInProgress, StatusCompleted},
			StatusCancelled:  {StatusCancelled},
			StatusNoShow:     {StatusNoShow},
		}[status]
		for _, next := range path {
			var err error
			if o, err = svc.UpdateStatus(context.Background(), o.ID.String(), next); err != nil {
				t.Fatalf("seed transition to %s: %v", next, err)
			}
		}
	}
	return o
}

// -- Create --

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestService()
	o := &Order{ClientID: uuid.New(), ClientName: "Jordan Blake"}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", o.Status)
	}
	if o.PaymentStatus != PaymentPending {
		t.Errorf("expected pending, got %s", o.PaymentStatus)
	}
	if !strings.HasPrefix(o.OrderNumber, "ORD-") {
		t.Errorf("expected ORD- order number, got %q", o.OrderNumber)
	}
	if o.OrderDate.IsZero() {
		t.Error("expected order date to be set")
	}
}

func TestCreate_OrderNumberFromAppointment(t *testing.T) {
	svc, _ := newTestService()
	apptID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	o := &Order{ClientID: uuid.New(), ClientName: "Jordan Blake", AppointmentID: &apptID}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.OrderNumber != "ORD-A1B2C3D4" {
		t.Errorf("expected ORD-A1B2C3D4, got %q", o.OrderNumber)
	}
}

func TestCreate_ComputesTotalFromItems(t *testing.T) {
	svc, _ := newTestService()
	o := &Order{
		ClientID:   uuid.New(),
		ClientName: "Jordan Blake",
		Items: []OrderItem{
			{ProductKey: "massage-60", Quantity: 2, UnitPrice: 50},
			{ProductKey: "consult", Quantity: 1, UnitPrice: 25},
		},
	}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.TotalAmount != 125 {
		t.Errorf("expected total 125, got %v", o.TotalAmount)
	}
}

func TestCreate_EnrichesItemsFromCatalog(t *testing.T) {
	svc, _ := newTestService()
	o := &Order{
		ClientID:   uuid.New(),
		ClientName: "Jordan Blake",
		Items:      []OrderItem{{ProductKey: "massage-60", Quantity: 2}},
	}
	if err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item := o.Items[0]
	if item.ProductName != "Massage 60min" || item.UnitPrice != 50 || item.DurationMinutes != 60 {
		t.Errorf("item not enriched from catalog: %+v", item)
	}
	if o.TotalAmount != 100 {
		t.Errorf("expected total 100, got %v", o.TotalAmount)
	}
}

func TestCreate_UnknownProduct(t *testing.T) {
	svc, _ := newTestService()
	o := &Order{
		ClientID:   uuid.New(),
		ClientName: "Jordan Blake",
		Items:      []OrderItem{{ProductKey: "nope", Quantity: 1}},
	}
	if err := svc.Create(context.Background(), o); err == nil {
		t.Error("expected error for unknown product key")
	}
}

func TestCreate_RequiresClient(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Create(context.Background(), &Order{ClientName: "Jordan Blake"}); err == nil {
		t.Error("expected error for missing client_id")
	}
}

// -- Resolve --

func TestResolve_ByOrderNumber(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	got, err := svc.Get(context.Background(), o.OrderNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != o.ID {
		t.Errorf("resolved wrong order")
	}
}

func TestResolve_BadRef(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// -- UpdateStatus --

func TestUpdateStatus_TransitionClosure(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			svc, repo := newTestService()
			o := seedOrder(t, svc, from, 100)

			_, err := svc.UpdateStatus(context.Background(), o.ID.String(), to)
			if CanTransition(from, to) {
				if err != nil {
					t.Errorf("%s -> %s: unexpected error: %v", from, to, err)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
			stored := repo.items[o.ID]
			if stored.Status != from {
				t.Errorf("%s -> %s: status changed on failed transition: %s", from, to, stored.Status)
			}
		}
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)
	if _, err := svc.UpdateStatus(context.Background(), o.ID.String(), "archived"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatus_CompletionSetsReadyToBill(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	o, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o, err = svc.UpdateStatus(context.Background(), o.ID.String(), StatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.ReadyToBill {
		t.Error("expected ready_to_bill after completing a pending order")
	}
}

func TestUpdateStatus_CompletionSkipsReadyWhenNotPending(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusInProgress, 100)
	if _, err := svc.ProcessPayment(context.Background(), o.ID.String(), 40, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ReadyToBill {
		t.Error("partially paid order should not be flagged ready on completion")
	}
}

func TestUpdateStatus_CancellationRefunds(t *testing.T) {
	for _, from := range []OrderStatus{StatusScheduled, StatusInProgress, StatusCompleted} {
		svc, _ := newTestService()
		o := seedOrder(t, svc, from, 100)

		o, err := svc.UpdateStatus(context.Background(), o.ID.String(), StatusCancelled)
		if err != nil {
			t.Fatalf("%s -> cancelled: unexpected error: %v", from, err)
		}
		if o.PaymentStatus != PaymentRefunded {
			t.Errorf("%s -> cancelled: expected refunded, got %s", from, o.PaymentStatus)
		}
	}
}

// -- Cancel --

func TestCancel_AppendsReason(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	o, err := svc.Cancel(context.Background(), o.ID.String(), "client moved away")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusCancelled || o.PaymentStatus != PaymentRefunded {
		t.Errorf("unexpected state after cancel: %s / %s", o.Status, o.PaymentStatus)
	}
	if o.Description == nil || !strings.Contains(*o.Description, "client moved away") {
		t.Errorf("reason not recorded on description: %v", o.Description)
	}
}

func TestCancel_Terminal(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusCancelled, 100)
	if _, err := svc.Cancel(context.Background(), o.ID.String(), ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on cancelled order, got %v", err)
	}
}

// -- Billing gate --

func TestMarkReadyForBilling_RequiresCompleted(t *testing.T) {
	for _, st := range []OrderStatus{StatusScheduled, StatusInProgress, StatusNoShow} {
		svc, repo := newTestService()
		o := seedOrder(t, svc, st, 100)

		if _, err := svc.MarkReadyForBilling(context.Background(), o.ID.String()); !errors.Is(err, ErrNotCompleted) {
			t.Errorf("%s: expected ErrNotCompleted, got %v", st, err)
		}
		if repo.items[o.ID].ReadyToBill && st != StatusCompleted {
			t.Errorf("%s: ready_to_bill set despite failure", st)
		}
	}
}

func TestMarkReadyForBilling_Idempotent(t *testing.T) {
	svc, repo := newTestService()
	o := seedOrder(t, svc, StatusCompleted, 100)

	// Completion of a pending order already flags it; clear for the gate.
	stored := repo.items[o.ID]
	stored.ReadyToBill = false

	first, err := svc.MarkReadyForBilling(context.Background(), o.ID.String())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !first.ReadyToBill {
		t.Error("expected ready_to_bill after first call")
	}
	version := repo.items[o.ID].VersionID

	second, err := svc.MarkReadyForBilling(context.Background(), o.ID.String())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !second.ReadyToBill {
		t.Error("expected ready_to_bill to remain set")
	}
	if repo.items[o.ID].VersionID != version {
		t.Error("idempotent call should not write")
	}
}

func TestBulkMarkReadyForBilling_PartialSuccess(t *testing.T) {
	svc, _ := newTestService()
	refs := make([]string, 0, 5)
	for i := 0; i < 4; i++ {
		o := seedOrder(t, svc, StatusCompleted, 100)
		refs = append(refs, o.ID.String())
	}
	refs = append(refs, uuid.New().String())

	if modified := svc.BulkMarkReadyForBilling(context.Background(), refs); modified != 4 {
		t.Errorf("expected modified count 4, got %d", modified)
	}
}

// -- Payments --

func TestProcessPayment_FullPayment(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	o, err := svc.ProcessPayment(context.Background(), o.ID.String(), 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.PaymentStatus != PaymentPaid {
		t.Errorf("expected paid, got %s", o.PaymentStatus)
	}
	if o.BillDate == nil {
		t.Error("expected bill date to be stamped on full payment")
	}
}

func TestProcessPayment_PartialPayment(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	o, err := svc.ProcessPayment(context.Background(), o.ID.String(), 40, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.PaymentStatus != PaymentPartial {
		t.Errorf("expected partial, got %s", o.PaymentStatus)
	}
	if o.BillDate != nil {
		t.Error("bill date should stay unset on partial payment")
	}
}

func TestProcessPayment_Cumulative(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	if _, err := svc.ProcessPayment(context.Background(), o.ID.String(), 40, nil); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	o, err := svc.ProcessPayment(context.Background(), o.ID.String(), 40, nil)
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if o.PaymentStatus != PaymentPartial {
		t.Errorf("two partials below total should stay partial, got %s", o.PaymentStatus)
	}
	if o.AmountPaid != 80 {
		t.Errorf("expected amount_paid 80, got %v", o.AmountPaid)
	}

	o, err = svc.ProcessPayment(context.Background(), o.ID.String(), 20, nil)
	if err != nil {
		t.Fatalf("third payment: %v", err)
	}
	if o.PaymentStatus != PaymentPaid || o.BillDate == nil {
		t.Errorf("expected paid with bill date once cumulative total reached, got %s", o.PaymentStatus)
	}
}

func TestProcessPayment_ExplicitDate(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)
	when := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	o, err := svc.ProcessPayment(context.Background(), o.ID.String(), 100, &when)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.BillDate == nil || !o.BillDate.Equal(when) {
		t.Errorf("expected bill date %v, got %v", when, o.BillDate)
	}
}

func TestProcessPayment_RejectsNonPositive(t *testing.T) {
	svc, repo := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	for _, amount := range []float64{-5, 0} {
		if _, err := svc.ProcessPayment(context.Background(), o.ID.String(), amount, nil); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	stored := repo.items[o.ID]
	if stored.AmountPaid != 0 || stored.PaymentStatus != PaymentPending {
		t.Errorf("order changed by rejected payment: %+v", stored)
	}
}

// -- Items --

func TestReplaceItems_RecomputesTotal(t *testing.T) {
	svc, _ := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	o, err := svc.ReplaceItems(context.Background(), o.ID.String(), []OrderItem{
		{ProductKey: "massage-60", Quantity: 2, UnitPrice: 50},
		{ProductKey: "consult", Quantity: 1, UnitPrice: 25},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.TotalAmount != 125 {
		t.Errorf("expected total 125, got %v", o.TotalAmount)
	}
	if len(o.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(o.Items))
	}
}

func TestReplaceItems_RejectsNegative(t *testing.T) {
	svc, repo := newTestService()
	o := seedOrder(t, svc, StatusScheduled, 100)

	if _, err := svc.ReplaceItems(context.Background(), o.ID.String(), []OrderItem{
		{ProductKey: "massage-60", Quantity: -2, UnitPrice: 50},
	}); err == nil {
		t.Error("expected error for negative quantity")
	}
	if repo.items[o.ID].TotalAmount != 100 {
		t.Error("total changed by rejected replacement")
	}
}

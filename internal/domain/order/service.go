package order

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product is a billable catalog entry used to enrich order line items.
type Product struct {
	Key             string
	Name            string
	UnitPrice       float64
	DurationMinutes int
}

// ProductLookup resolves a product key against the service catalog.
type ProductLookup interface {
	Product(ctx context.Context, key string) (*Product, error)
}

type Service struct {
	orders   Repository
	products ProductLookup
}

// NewService builds the order service. products may be nil; line items are
// then taken as submitted.
func NewService(orders Repository, products ProductLookup) *Service {
	return &Service{orders: orders, products: products}
}

// Resolve finds an order by UUID or by ORD-prefixed order number.
func (s *Service) Resolve(ctx context.Context, ref string) (*Order, error) {
	if strings.HasPrefix(ref, "ORD-") {
		return s.orders.GetByOrderNumber(ctx, ref)
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is neither an id nor an order number", ErrNotFound, ref)
	}
	return s.orders.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, o *Order) error {
	if o.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if o.ClientName == "" {
		return fmt.Errorf("client_name is required")
	}
	if o.Status == "" {
		o.Status = StatusScheduled
	}
	if !o.Status.Valid() {
		return fmt.Errorf("invalid order status: %s", o.Status)
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber(o.AppointmentID)
	}
	if err := s.prepareItems(ctx, o); err != nil {
		return err
	}
	return s.orders.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, ref string) (*Order, error) {
	return s.Resolve(ctx, ref)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Order, int, error) {
	return s.orders.List(ctx, filter, limit, offset)
}

func (s *Service) ListReadyForBilling(ctx context.Context, limit, offset int) ([]*Order, int, error) {
	return s.orders.ListReadyForBilling(ctx, limit, offset)
}

// UpdateStatus moves the order along the transition graph, applying the
// completion and cancellation side effects, and persists it.
func (s *Service) UpdateStatus(ctx context.Context, ref string, newStatus OrderStatus) (*Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}
	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := applyTransition(o, newStatus); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// applyTransition validates the edge and mutates status plus its side
// effects. Nothing else changes here.
func applyTransition(o *Order, to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	switch to {
	case StatusCompleted:
		if o.PaymentStatus == PaymentPending {
			o.ReadyToBill = true
		}
	case StatusCancelled:
		o.PaymentStatus = PaymentRefunded
	}
	return nil
}

// Cancel transitions the order to cancelled, recording the reason on the
// description.
func (s *Service) Cancel(ctx context.Context, ref, reason string) (*Order, error) {
	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := applyTransition(o, StatusCancelled); err != nil {
		return nil, err
	}
	if reason != "" {
		note := "Cancelled: " + reason
		if o.Description == nil || *o.Description == "" {
			o.Description = &note
		} else {
			combined := *o.Description + "\n" + note
			o.Description = &combined
		}
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkReadyForBilling flags a completed order for invoicing. Calling it on
// an already-ready order is a no-op success.
func (s *Service) MarkReadyForBilling(ctx context.Context, ref string) (*Order, error) {
	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: status is %s", ErrNotCompleted, o.Status)
	}
	if o.ReadyToBill {
		return o, nil
	}
	o.ReadyToBill = true
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// BulkMarkReadyForBilling applies MarkReadyForBilling to each ref
// independently and returns how many succeeded. A failing ref never aborts
// the rest.
func (s *Service) BulkMarkReadyForBilling(ctx context.Context, refs []string) int {
	modified := 0
	for _, ref := range refs {
		if _, err := s.MarkReadyForBilling(ctx, ref); err == nil {
			modified++
		}
	}
	return modified
}

// ProcessPayment applies amount against the order's running total. The
// payment status derives from the cumulative amount paid; the bill date is
// stamped when the order becomes fully paid.
func (s *Service) ProcessPayment(ctx context.Context, ref string, amount float64, paymentDate *time.Time) (*Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAmount, amount)
	}
	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	when := time.Now().UTC()
	if paymentDate != nil {
		when = *paymentDate
	}
	o.AmountPaid += amount
	if o.AmountPaid >= o.TotalAmount {
		o.PaymentStatus = PaymentPaid
		if o.BillDate == nil {
			o.BillDate = &when
		}
	} else {
		o.PaymentStatus = PaymentPartial
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ReplaceItems swaps the order's line items and recomputes its total.
func (s *Service) ReplaceItems(ctx context.Context, ref string, items []OrderItem) (*Order, error) {
	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	o.Items = items
	if err := s.prepareItems(ctx, o); err != nil {
		return nil, err
	}
	if err := s.orders.ReplaceItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// prepareItems enriches items from the catalog and recomputes subtotals and
// the order total.
func (s *Service) prepareItems(ctx context.Context, o *Order) error {
	for i := range o.Items {
		item := &o.Items[i]
		if item.ProductKey == "" {
			return fmt.Errorf("item %d: product_key is required", i)
		}
		if s.products != nil && (item.ProductName == "" || item.UnitPrice == 0) {
			p, err := s.products.Product(ctx, item.ProductKey)
			if err != nil {
				return fmt.Errorf("item %q: %w", item.ProductKey, err)
			}
			if item.ProductName == "" {
				item.ProductName = p.Name
			}
			if item.UnitPrice == 0 {
				item.UnitPrice = p.UnitPrice
			}
			if item.DurationMinutes == 0 {
				item.DurationMinutes = p.DurationMinutes
			}
		}
	}
	return o.RecomputeTotal()
}

// NewOrderNumber derives a human-readable order number. Orders converted
// from an appointment reuse its short id; ad-hoc orders get a timestamp with
// a random suffix.
func NewOrderNumber(appointmentID *uuid.UUID) string {
	if appointmentID != nil {
		return "ORD-" + strings.ToUpper(strings.SplitN(appointmentID.String(), "-", 2)[0])
	}
	return fmt.Sprintf("ORD-%s%04d", time.Now().UTC().Format("20060102150405"), rand.Intn(10000))
}

package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusScheduled  OrderStatus = "scheduled"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusNoShow     OrderStatus = "no_show"
)

// PaymentStatus tracks how much of an order has been settled.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentRefunded PaymentStatus = "refunded"
)

// Sentinel errors raised by the order service and mapped to HTTP codes at
// the handler boundary.
var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotCompleted      = errors.New("order is not completed")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
	ErrVersionConflict   = errors.New("order was modified concurrently")
)

// Order maps to the orders table. TotalAmount is always the sum of the item
// subtotals; AmountPaid accumulates across payments.
type Order struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	OrderNumber   string        `db:"order_number" json:"order_number"`
	AppointmentID *uuid.UUID    `db:"appointment_id" json:"appointment_id,omitempty"`
	ClientID      uuid.UUID     `db:"client_id" json:"client_id"`
	ClientName    string        `db:"client_name" json:"client_name"`
	ClinicName    string        `db:"clinic_name" json:"clinic_name"`
	Description   *string       `db:"description" json:"description,omitempty"`
	Status        OrderStatus   `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	OrderDate     time.Time     `db:"order_date" json:"order_date"`
	ServiceDate   *time.Time    `db:"service_date" json:"service_date,omitempty"`
	EndDate       *time.Time    `db:"end_date" json:"end_date,omitempty"`
	BillDate      *time.Time    `db:"bill_date" json:"bill_date,omitempty"`
	InvoiceDate   *time.Time    `db:"invoice_date" json:"invoice_date,omitempty"`
	ReadyToBill   bool          `db:"ready_to_bill" json:"ready_to_bill"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	AmountPaid    float64       `db:"amount_paid" json:"amount_paid"`
	Items         []OrderItem   `json:"items"`
	VersionID     int           `db:"version_id" json:"version_id"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// OrderItem is one line of an order. Subtotal is quantity times unit price.
type OrderItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	OrderID         uuid.UUID `db:"order_id" json:"order_id"`
	ProductKey      string    `db:"product_key" json:"product_key"`
	ProductName     string    `db:"product_name" json:"product_name"`
	Quantity        int       `db:"quantity" json:"quantity"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	UnitPrice       float64   `db:"unit_price" json:"unit_price"`
	Subtotal        float64   `db:"subtotal" json:"subtotal"`
	Position        int       `db:"position" json:"position"`
}

// RecomputeTotal derives each item subtotal and the order total. It must run
// before persisting any order whose items changed, including on creation.
func (o *Order) RecomputeTotal() error {
	total := 0.0
	for i := range o.Items {
		item := &o.Items[i]
		if item.Quantity < 0 {
			return fmt.Errorf("item %q: quantity must not be negative", item.ProductKey)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("item %q: unit price must not be negative", item.ProductKey)
		}
		item.Subtotal = float64(item.Quantity) * item.UnitPrice
		item.Position = i
		total += item.Subtotal
	}
	o.TotalAmount = total
	return nil
}

// AwaitingInvoice reports whether the order is in the canonical
// ready-for-billing set: flagged ready, never billed, and still in a status
// where an invoice makes sense.
func (o *Order) AwaitingInvoice() bool {
	return o.ReadyToBill &&
		o.BillDate == nil &&
		(o.Status == StatusCompleted || o.Status == StatusInProgress)
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the scheduling state of an appointment.
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusArrived   AppointmentStatus = "arrived"
	StatusFulfilled AppointmentStatus = "fulfilled"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrNotFulfilled     = errors.New("appointment is not fulfilled")
	ErrAlreadyConverted = errors.New("appointment already has an order")
)

// Appointment maps to the appointment table. OrderID is set once the
// appointment has been converted into an order.
type Appointment struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	ClientID       uuid.UUID         `db:"client_id" json:"client_id"`
	ClientName     string            `db:"client_name" json:"client_name"`
	PractitionerID *uuid.UUID        `db:"practitioner_id" json:"practitioner_id,omitempty"`
	ClinicName     string            `db:"clinic_name" json:"clinic_name"`
	ServiceKey     string            `db:"service_key" json:"service_key"`
	Status         AppointmentStatus `db:"status" json:"status"`
	StartTime      time.Time         `db:"start_time" json:"start_time"`
	EndTime        time.Time         `db:"end_time" json:"end_time"`
	Notes          *string           `db:"notes" json:"notes,omitempty"`
	OrderID        *uuid.UUID        `db:"order_id" json:"order_id,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// Valid reports whether s is one of the known appointment statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusArrived, StatusFulfilled, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

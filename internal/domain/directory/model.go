package directory

import (
	"time"

	"github.com/google/uuid"
)

// Clinic maps to the clinic table. Slug is the URL-safe identifier used by
// external systems; Name is the canonical display name.
type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Practitioner maps to the practitioner table.
type Practitioner struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Role      string     `db:"role" json:"role"`
	ClinicID  *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// CatalogItem maps to the service_catalog table. Key is the stable product
// key order line items reference.
type CatalogItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Key             string    `db:"key" json:"key"`
	Name            string    `db:"name" json:"name"`
	UnitPrice       float64   `db:"unit_price" json:"unit_price"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

package insurance

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("insurance record not found")

// Payer maps to the insurance_payer table.
type Payer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	PayerCode string    `db:"payer_code" json:"payer_code"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Plan maps to the insurance_plan table. CopayAmount and CopayPercentage are
// alternatives; COBOrder ranks the plan in coordination of benefits, primary
// first.
type Plan struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PayerID         uuid.UUID `db:"payer_id" json:"payer_id"`
	Name            string    `db:"name" json:"name"`
	PlanCode        string    `db:"plan_code" json:"plan_code"`
	CopayAmount     *float64  `db:"copay_amount" json:"copay_amount,omitempty"`
	CopayPercentage *float64  `db:"copay_percentage" json:"copay_percentage,omitempty"`
	COBOrder        int       `db:"cob_order" json:"cob_order"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

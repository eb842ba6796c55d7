package insurance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// =========== Payer Repository ===========

type payerRepoPG struct{ pool *pgxpool.Pool }

func NewPayerRepoPG(pool *pgxpool.Pool) PayerRepository { return &payerRepoPG{pool: pool} }

const payerCols = `id, name, payer_code, phone, created_at, updated_at`

func scanPayer(row pgx.Row) (*Payer, error) {
	var p Payer
	err := row.Scan(&p.ID, &p.Name, &p.PayerCode, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *payerRepoPG) Create(ctx context.Context, p *Payer) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO insurance_payer (id, name, payer_code, phone)
		VALUES ($1,$2,$3,$4)`,
		p.ID, p.Name, p.PayerCode, p.Phone)
	return err
}

func (r *payerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payer, error) {
	return scanPayer(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+payerCols+` FROM insurance_payer WHERE id = $1`, id))
}

func (r *payerRepoPG) Update(ctx context.Context, p *Payer) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE insurance_payer SET name=$2, payer_code=$3, phone=$4, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.PayerCode, p.Phone)
	return err
}

func (r *payerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM insurance_payer WHERE id = $1`, id)
	return err
}

func (r *payerRepoPG) List(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM insurance_payer`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+payerCols+` FROM insurance_payer ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	payers := []*Payer{}
	for rows.Next() {
		p, err := scanPayer(rows)
		if err != nil {
			return nil, 0, err
		}
		payers = append(payers, p)
	}
	return payers, total, rows.Err()
}

// =========== Plan Repository ===========

type planRepoPG struct{ pool *pgxpool.Pool }

func NewPlanRepoPG(pool *pgxpool.Pool) PlanRepository { return &planRepoPG{pool: pool} }

const planCols = `id, payer_id, name, plan_code, copay_amount, copay_percentage, cob_order, created_at, updated_at`

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.PayerID, &p.Name, &p.PlanCode, &p.CopayAmount, &p.CopayPercentage,
		&p.COBOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *planRepoPG) Create(ctx context.Context, p *Plan) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO insurance_plan (id, payer_id, name, plan_code, copay_amount, copay_percentage, cob_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.PayerID, p.Name, p.PlanCode, p.CopayAmount, p.CopayPercentage, p.COBOrder)
	return err
}

func (r *planRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return scanPlan(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+planCols+` FROM insurance_plan WHERE id = $1`, id))
}

func (r *planRepoPG) Update(ctx context.Context, p *Plan) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE insurance_plan SET payer_id=$2, name=$3, plan_code=$4, copay_amount=$5,
			copay_percentage=$6, cob_order=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.PayerID, p.Name, p.PlanCode, p.CopayAmount, p.CopayPercentage, p.COBOrder)
	return err
}

func (r *planRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM insurance_plan WHERE id = $1`, id)
	return err
}

func (r *planRepoPG) ListByPayer(ctx context.Context, payerID uuid.UUID, limit, offset int) ([]*Plan, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM insurance_plan WHERE payer_id = $1`, payerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+planCols+` FROM insurance_plan WHERE payer_id = $1 ORDER BY cob_order, name LIMIT $2 OFFSET $3`,
		payerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPlans(rows, total)
}

func (r *planRepoPG) List(ctx context.Context, limit, offset int) ([]*Plan, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM insurance_plan`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+planCols+` FROM insurance_plan ORDER BY cob_order, name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPlans(rows, total)
}

func collectPlans(rows pgx.Rows, total int) ([]*Plan, int, error) {
	plans := []*Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, p)
	}
	return plans, total, rows.Err()
}

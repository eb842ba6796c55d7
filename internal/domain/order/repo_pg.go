package order

import (
	"context"
	"errors"
	"fmt"

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const orderCols = `id, order_number, appointment_id, client_id, client_name, clinic_name,
	description, status, payment_status,
	order_date, service_date, end_date, bill_date, invoice_date,
	ready_to_bill, total_amount, amount_paid,
	version_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.AppointmentID, &o.ClientID, &o.ClientName, &o.ClinicName,
		&o.Description, &o.Status, &o.PaymentStatus,
		&o.OrderDate, &o.ServiceDate, &o.EndDate, &o.BillDate, &o.InvoiceDate,
		&o.ReadyToBill, &o.TotalAmount, &o.AmountPaid,
		&o.VersionID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &o, err
}

const itemCols = `id, order_id, product_key, product_name, quantity, duration_minutes, unit_price, subtotal, position`

func (r *repoPG) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+itemCols+` FROM order_item WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductKey, &it.ProductName,
			&it.Quantity, &it.DurationMinutes, &it.UnitPrice, &it.Subtotal, &it.Position); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *repoPG) insertItems(ctx context.Context, o *Order) error {
	for i := range o.Items {
		it := &o.Items[i]
		it.ID = uuid.New()
		it.OrderID = o.ID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO order_item (id, order_id, product_key, product_name, quantity, duration_minutes, unit_price, subtotal, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			it.ID, it.OrderID, it.ProductKey, it.ProductName,
			it.Quantity, it.DurationMinutes, it.UnitPrice, it.Subtotal, it.Position); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	o.VersionID = 1
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO orders (id, order_number, appointment_id, client_id, client_name, clinic_name,
				description, status, payment_status,
				order_date, service_date, end_date, bill_date, invoice_date,
				ready_to_bill, total_amount, amount_paid, version_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
			o.ID, o.OrderNumber, o.AppointmentID, o.ClientID, o.ClientName, o.ClinicName,
			o.Description, o.Status, o.PaymentStatus,
			o.OrderDate, o.ServiceDate, o.EndDate, o.BillDate, o.InvoiceDate,
			o.ReadyToBill, o.TotalAmount, o.AmountPaid, o.VersionID); err != nil {
			return err
		}
		return r.insertItems(ctx, o)
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repoPG) GetByOrderNumber(ctx context.Context, number string) (*Order, error) {
	o, err := scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE order_number = $1`, number))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// updateRow writes the mutable order columns guarded by the version check.
func (r *repoPG) updateRow(ctx context.Context, o *Order) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE orders SET client_name=$3, clinic_name=$4, description=$5,
			status=$6, payment_status=$7,
			service_date=$8, end_date=$9, bill_date=$10, invoice_date=$11,
			ready_to_bill=$12, total_amount=$13, amount_paid=$14,
			version_id = version_id + 1, updated_at = NOW()
		WHERE id = $1 AND version_id = $2`,
		o.ID, o.VersionID, o.ClientName, o.ClinicName, o.Description,
		o.Status, o.PaymentStatus,
		o.ServiceDate, o.EndDate, o.BillDate, o.InvoiceDate,
		o.ReadyToBill, o.TotalAmount, o.AmountPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, o.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return fmt.Errorf("%w: order %s", ErrVersionConflict, o.ID)
	}
	o.VersionID++
	return nil
}

func (r *repoPG) Update(ctx context.Context, o *Order) error {
	return r.updateRow(ctx, o)
}

func (r *repoPG) ReplaceItems(ctx context.Context, o *Order) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		if err := r.updateRow(ctx, o); err != nil {
			return err
		}
		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM order_item WHERE order_id = $1`, o.ID); err != nil {
			return err
		}
		return r.insertItems(ctx, o)
	})
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Order, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		where += fmt.Sprintf(` AND client_id = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+orderCols+` FROM orders `+where+
		` ORDER BY order_date DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.listOrders(ctx, query, args, total)
}

func (r *repoPG) ListReadyForBilling(ctx context.Context, limit, offset int) ([]*Order, int, error) {
	const where = `WHERE ready_to_bill AND bill_date IS NULL AND status IN ('completed', 'in_progress')`

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + orderCols + ` FROM orders ` + where + ` ORDER BY order_date DESC LIMIT $1 OFFSET $2`
	return r.listOrders(ctx, query, []interface{}{limit, offset}, total)
}

func (r *repoPG) listOrders(ctx context.Context, query string, args []interface{}, total int) ([]*Order, int, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

package directory

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

// ErrNotFound covers all directory lookups.
var ErrNotFound = errors.New("directory record not found")

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

// =========== Clinic Repository ===========

type clinicRepoPG struct{ pool *pgxpool.Pool }

func NewClinicRepoPG(pool *pgxpool.Pool) ClinicRepository { return &clinicRepoPG{pool: pool} }

const clinicCols = `id, slug, name, address, phone, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *clinicRepoPG) Create(ctx context.Context, c *Clinic) error {
	c.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinic (id, slug, name, address, phone)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Slug, c.Name, c.Address, c.Phone)
	return err
}

func (r *clinicRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return scanClinic(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinic WHERE id = $1`, id))
}

func (r *clinicRepoPG) GetBySlug(ctx context.Context, slug string) (*Clinic, error) {
	return scanClinic(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinic WHERE slug = $1`, slug))
}

func (r *clinicRepoPG) Update(ctx context.Context, c *Clinic) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE clinic SET slug=$2, name=$3, address=$4, phone=$5, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Slug, c.Name, c.Address, c.Phone)
	return err
}

func (r *clinicRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM clinic WHERE id = $1`, id)
	return err
}

func (r *clinicRepoPG) List(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM clinic`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+clinicCols+` FROM clinic ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	clinics := []*Clinic{}
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, 0, err
		}
		clinics = append(clinics, c)
	}
	return clinics, total, rows.Err()
}

// =========== Practitioner Repository ===========

type practitionerRepoPG struct{ pool *pgxpool.Pool }

func NewPractitionerRepoPG(pool *pgxpool.Pool) PractitionerRepository {
	return &practitionerRepoPG{pool: pool}
}

const practitionerCols = `id, name, role, clinic_id, active, created_at, updated_at`

func scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var p Practitioner
	err := row.Scan(&p.ID, &p.Name, &p.Role, &p.ClinicID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *practitionerRepoPG) Create(ctx context.Context, p *Practitioner) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO practitioner (id, name, role, clinic_id, active)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.Role, p.ClinicID, p.Active)
	return err
}

func (r *practitionerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return scanPractitioner(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+practitionerCols+` FROM practitioner WHERE id = $1`, id))
}

func (r *practitionerRepoPG) Update(ctx context.Context, p *Practitioner) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE practitioner SET name=$2, role=$3, clinic_id=$4, active=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Role, p.ClinicID, p.Active)
	return err
}

func (r *practitionerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM practitioner WHERE id = $1`, id)
	return err
}

func (r *practitionerRepoPG) List(ctx context.Context, clinicID *uuid.UUID, activeOnly bool, limit, offset int) ([]*Practitioner, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	if clinicID != nil {
		args = append(args, *clinicID)
		where += fmt.Sprintf(` AND clinic_id = $%d`, len(args))
	}
	if activeOnly {
		where += ` AND active`
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM practitioner `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := conn(ctx, r.pool).Query(ctx, fmt.Sprintf(
		`SELECT `+practitionerCols+` FROM practitioner `+where+` ORDER BY name LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	practitioners := []*Practitioner{}
	for rows.Next() {
		p, err := scanPractitioner(rows)
		if err != nil {
			return nil, 0, err
		}
		practitioners = append(practitioners, p)
	}
	return practitioners, total, rows.Err()
}

// =========== Catalog Repository ===========

type catalogRepoPG struct{ pool *pgxpool.Pool }

func NewCatalogRepoPG(pool *pgxpool.Pool) CatalogRepository { return &catalogRepoPG{pool: pool} }

const catalogCols = `id, key, name, unit_price, duration_minutes, active, created_at, updated_at`

func scanCatalogItem(row pgx.Row) (*CatalogItem, error) {
	var item CatalogItem
	err := row.Scan(&item.ID, &item.Key, &item.Name, &item.UnitPrice, &item.DurationMinutes,
		&item.Active, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *catalogRepoPG) Create(ctx context.Context, item *CatalogItem) error {
	item.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO service_catalog (id, key, name, unit_price, duration_minutes, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		item.ID, item.Key, item.Name, item.UnitPrice, item.DurationMinutes, item.Active)
	return err
}

func (r *catalogRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	return scanCatalogItem(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+catalogCols+` FROM service_catalog WHERE id = $1`, id))
}

func (r *catalogRepoPG) GetByKey(ctx context.Context, key string) (*CatalogItem, error) {
	return scanCatalogItem(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+catalogCols+` FROM service_catalog WHERE key = $1`, key))
}

func (r *catalogRepoPG) Update(ctx context.Context, item *CatalogItem) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE service_catalog SET key=$2, name=$3, unit_price=$4, duration_minutes=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		item.ID, item.Key, item.Name, item.UnitPrice, item.DurationMinutes, item.Active)
	return err
}

func (r *catalogRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM service_catalog WHERE id = $1`, id)
	return err
}

func (r *catalogRepoPG) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*CatalogItem, int, error) {
	where := ``
	if activeOnly {
		where = `WHERE active`
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM service_catalog `+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+catalogCols+` FROM service_catalog `+where+` ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*CatalogItem{}
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

package company

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bienestar/bienestar/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const companyCols = `id, name, tax_id, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, co *Company) error {
	co.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO company (id, name, tax_id) VALUES ($1,$2,$3)`,
		co.ID, co.Name, co.TaxID,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return scanCompany(r.conn(ctx).QueryRow(ctx, `SELECT `+companyCols+` FROM company WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, co *Company) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE company SET name=$2, tax_id=$3, updated_at=NOW() WHERE id = $1`,
		co.ID, co.Name, co.TaxID,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM company WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM company`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+companyCols+` FROM company ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cos []*Company
	for rows.Next() {
		var co Company
		if err := rows.Scan(&co.ID, &co.Name, &co.TaxID, &co.CreatedAt, &co.UpdatedAt); err != nil {
			return nil, 0, err
		}
		cos = append(cos, &co)
	}
	return cos, total, rows.Err()
}

func scanCompany(row pgx.Row) (*Company, error) {
	var co Company
	if err := row.Scan(&co.ID, &co.Name, &co.TaxID, &co.CreatedAt, &co.UpdatedAt); err != nil {
		return nil, err
	}
	return &co, nil
}

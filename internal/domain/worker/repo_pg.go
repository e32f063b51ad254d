package worker

import (
	"context"
	"strconv"
	"time"

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

const workerCols = `id, cedula, name, site, company_id, subcontractor_id,
	emergency_contact_name, emergency_contact_phone, closure_date,
	professional_id, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, w *Worker) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO worker (
			id, cedula, name, site, company_id, subcontractor_id,
			emergency_contact_name, emergency_contact_phone, closure_date,
			professional_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		w.ID, w.Cedula, w.Name, w.Site, w.CompanyID, w.SubcontractorID,
		w.EmergencyContactName, w.EmergencyContactPhone, w.ClosureDate,
		w.ProfessionalID,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Worker, error) {
	return scanWorker(r.conn(ctx).QueryRow(ctx, `SELECT `+workerCols+` FROM worker WHERE id = $1`, id))
}

func (r *repoPG) GetByCedula(ctx context.Context, cedula string) (*Worker, error) {
	return scanWorker(r.conn(ctx).QueryRow(ctx, `SELECT `+workerCols+` FROM worker WHERE cedula = $1`, cedula))
}

func (r *repoPG) Update(ctx context.Context, w *Worker) error {
	// professional_id is deliberately not updatable: ownership is fixed at
	// registration.
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE worker SET
			cedula=$2, name=$3, site=$4, company_id=$5, subcontractor_id=$6,
			emergency_contact_name=$7, emergency_contact_phone=$8, closure_date=$9,
			updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.Cedula, w.Name, w.Site, w.CompanyID, w.SubcontractorID,
		w.EmergencyContactName, w.EmergencyContactPhone, w.ClosureDate,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM worker WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Worker, int, error) {
	// Fixed statement variants selected by the filter shape; all values are
	// bound parameters.
	where := ``
	args := []interface{}{}
	switch {
	case f.ProfessionalID != nil && f.Search != "":
		where = `WHERE professional_id = $1 AND (cedula LIKE $2 || '%' OR name ILIKE '%' || $2 || '%')`
		args = []interface{}{*f.ProfessionalID, f.Search}
	case f.ProfessionalID != nil:
		where = `WHERE professional_id = $1`
		args = []interface{}{*f.ProfessionalID}
	case f.Search != "":
		where = `WHERE cedula LIKE $1 || '%' OR name ILIKE '%' || $1 || '%'`
		args = []interface{}{f.Search}
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM worker `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	dataArgs := append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+workerCols+` FROM worker `+where+
			` ORDER BY name LIMIT $`+itoa(n+1)+` OFFSET $`+itoa(n+2),
		dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var workers []*Worker
	for rows.Next() {
		w, err := scanWorkerRow(rows)
		if err != nil {
			return nil, 0, err
		}
		workers = append(workers, w)
	}
	return workers, total, rows.Err()
}

func (r *repoPG) SetClosureDate(ctx context.Context, id uuid.UUID, date *time.Time) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE worker SET closure_date=$2, updated_at=NOW() WHERE id = $1`, id, date)
	return err
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func scanWorker(row pgx.Row) (*Worker, error) {
	var w Worker
	err := row.Scan(
		&w.ID, &w.Cedula, &w.Name, &w.Site, &w.CompanyID, &w.SubcontractorID,
		&w.EmergencyContactName, &w.EmergencyContactPhone, &w.ClosureDate,
		&w.ProfessionalID, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWorkerRow(rows pgx.Rows) (*Worker, error) {
	var w Worker
	err := rows.Scan(
		&w.ID, &w.Cedula, &w.Name, &w.Site, &w.CompanyID, &w.SubcontractorID,
		&w.EmergencyContactName, &w.EmergencyContactPhone, &w.ClosureDate,
		&w.ProfessionalID, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

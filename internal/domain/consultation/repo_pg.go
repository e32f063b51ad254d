package consultation

import (
	"context"
	"strconv"

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

const consultCols = `id, worker_id, date, modality, reason, status, notes, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, s *Consultation) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultation (id, worker_id, date, modality, reason, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.WorkerID, s.Date, s.Modality, s.Reason, s.Status, s.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return scanConsult(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultCols+` FROM consultation WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *Consultation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation SET date=$2, modality=$3, reason=$4, status=$5, notes=$6, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Date, s.Modality, s.Reason, s.Status, s.Notes,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultation WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*Consultation, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+consultCols+` FROM consultation WHERE worker_id = $1 ORDER BY date`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectConsults(rows)
}

func (r *repoPG) ListByCase(ctx context.Context, key CaseKey) ([]*Consultation, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+consultCols+` FROM consultation WHERE worker_id = $1 AND reason = $2 ORDER BY date`,
		key.WorkerID, key.Reason)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectConsults(rows)
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Consultation, int, error) {
	// WHERE fragments are fixed strings; every value travels as a bound
	// parameter.
	where := ` WHERE 1=1`
	args := []interface{}{}
	if f.ProfessionalID != nil {
		args = append(args, *f.ProfessionalID)
		where += ` AND c.worker_id IN (SELECT id FROM worker WHERE professional_id = $` + strconv.Itoa(len(args)) + `)`
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += ` AND c.date >= $` + strconv.Itoa(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += ` AND c.date <= $` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += ` AND c.status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultation c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT c.id, c.worker_id, c.date, c.modality, c.reason, c.status, c.notes, c.created_at, c.updated_at
		 FROM consultation c`+where+
			` ORDER BY c.date DESC LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	consults, err := collectConsults(rows)
	return consults, total, err
}

func scanConsult(row pgx.Row) (*Consultation, error) {
	var s Consultation
	err := row.Scan(&s.ID, &s.WorkerID, &s.Date, &s.Modality, &s.Reason, &s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectConsults(rows pgx.Rows) ([]*Consultation, error) {
	var consults []*Consultation
	for rows.Next() {
		var s Consultation
		if err := rows.Scan(&s.ID, &s.WorkerID, &s.Date, &s.Modality, &s.Reason, &s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		consults = append(consults, &s)
	}
	return consults, rows.Err()
}

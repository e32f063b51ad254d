package sve

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

func (r *repoPG) CreateWorkTable(ctx context.Context, wt *WorkTable) error {
	wt.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO work_table (id, worker_id, inclusion_criterion, diagnosis)
		VALUES ($1,$2,$3,$4)`,
		wt.ID, wt.WorkerID, wt.InclusionCriterion, wt.Diagnosis,
	)
	return err
}

func (r *repoPG) GetWorkTableByWorker(ctx context.Context, workerID uuid.UUID) (*WorkTable, error) {
	var wt WorkTable
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, worker_id, inclusion_criterion, diagnosis, created_at, updated_at
		FROM work_table WHERE worker_id = $1`, workerID).
		Scan(&wt.ID, &wt.WorkerID, &wt.InclusionCriterion, &wt.Diagnosis, &wt.CreatedAt, &wt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *repoPG) UpdateWorkTable(ctx context.Context, wt *WorkTable) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE work_table SET inclusion_criterion=$2, diagnosis=$3, updated_at=NOW()
		WHERE id = $1`,
		wt.ID, wt.InclusionCriterion, wt.Diagnosis,
	)
	return err
}

const sveCols = `id, worker_id, date, modality, notes, created_at, updated_at`

func (r *repoPG) CreateSession(ctx context.Context, s *Consultation) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO sve_consultation (id, worker_id, date, modality, notes)
		VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.WorkerID, s.Date, s.Modality, s.Notes,
	)
	return err
}

func (r *repoPG) GetSessionByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	var s Consultation
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+sveCols+` FROM sve_consultation WHERE id = $1`, id).
		Scan(&s.ID, &s.WorkerID, &s.Date, &s.Modality, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) UpdateSession(ctx context.Context, s *Consultation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE sve_consultation SET date=$2, modality=$3, notes=$4, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Date, s.Modality, s.Notes,
	)
	return err
}

func (r *repoPG) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sve_consultation WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListSessionsByWorker(ctx context.Context, workerID uuid.UUID) ([]*Consultation, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+sveCols+` FROM sve_consultation WHERE worker_id = $1 ORDER BY date`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Consultation
	for rows.Next() {
		var s Consultation
		if err := rows.Scan(&s.ID, &s.WorkerID, &s.Date, &s.Modality, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

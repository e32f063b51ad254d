package sve

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Work tables
	CreateWorkTable(ctx context.Context, wt *WorkTable) error
	GetWorkTableByWorker(ctx context.Context, workerID uuid.UUID) (*WorkTable, error)
	UpdateWorkTable(ctx context.Context, wt *WorkTable) error

	// Sessions
	CreateSession(ctx context.Context, s *Consultation) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	UpdateSession(ctx context.Context, s *Consultation) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	ListSessionsByWorker(ctx context.Context, workerID uuid.UUID) ([]*Consultation, error)
}

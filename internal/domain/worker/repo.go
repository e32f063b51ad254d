package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows worker listings. A nil ProfessionalID means no scope
// restriction (admin view); Search matches cedula prefix or name substring.
type Filter struct {
	ProfessionalID *uuid.UUID
	Search         string
}

type Repository interface {
	Create(ctx context.Context, w *Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	GetByCedula(ctx context.Context, cedula string) (*Worker, error)
	Update(ctx context.Context, w *Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Worker, int, error)
	SetClosureDate(ctx context.Context, id uuid.UUID, date *time.Time) error
}

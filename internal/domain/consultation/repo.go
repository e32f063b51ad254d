package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows session listings. ProfessionalID scopes through the owning
// worker; From/To bound the session date.
type Filter struct {
	ProfessionalID *uuid.UUID
	From           *time.Time
	To             *time.Time
	Status         string
}

type Repository interface {
	Create(ctx context.Context, s *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Update(ctx context.Context, s *Consultation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*Consultation, error)
	ListByCase(ctx context.Context, key CaseKey) ([]*Consultation, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Consultation, int, error)
}

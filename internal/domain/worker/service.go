package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotOwner is returned when a professional touches a worker registered by
// someone else.
var ErrNotOwner = fmt.Errorf("worker belongs to another professional")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) RegisterWorker(ctx context.Context, w *Worker) error {
	w.Cedula = strings.TrimSpace(w.Cedula)
	w.Name = strings.TrimSpace(w.Name)
	if w.Cedula == "" {
		return fmt.Errorf("cedula is required")
	}
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	if w.Site == "" {
		return fmt.Errorf("site is required")
	}
	if w.ProfessionalID == uuid.Nil {
		return fmt.Errorf("professional_id is required")
	}
	if existing, err := s.repo.GetByCedula(ctx, w.Cedula); err == nil && existing != nil {
		return fmt.Errorf("a worker with cedula %s already exists", w.Cedula)
	}
	return s.repo.Create(ctx, w)
}

// authorize returns the worker when the caller may act on it. Admins may act
// on any worker; professionals only on their own.
func (s *Service) authorize(ctx context.Context, id uuid.UUID, callerID uuid.UUID, isAdmin bool) (*Worker, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && w.ProfessionalID != callerID {
		return nil, ErrNotOwner
	}
	return w, nil
}

func (s *Service) GetWorker(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*Worker, error) {
	return s.authorize(ctx, id, callerID, isAdmin)
}

func (s *Service) UpdateWorker(ctx context.Context, w *Worker, callerID uuid.UUID, isAdmin bool) error {
	current, err := s.authorize(ctx, w.ID, callerID, isAdmin)
	if err != nil {
		return err
	}
	if w.Cedula == "" {
		return fmt.Errorf("cedula is required")
	}
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	// Ownership never changes after registration.
	w.ProfessionalID = current.ProfessionalID
	return s.repo.Update(ctx, w)
}

func (s *Service) DeleteWorker(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	if _, err := s.authorize(ctx, id, callerID, isAdmin); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CloseCase records the case-closure date; a nil date reopens the case.
func (s *Service) CloseCase(ctx context.Context, id, callerID uuid.UUID, isAdmin bool, date *time.Time) error {
	if _, err := s.authorize(ctx, id, callerID, isAdmin); err != nil {
		return err
	}
	return s.repo.SetClosureDate(ctx, id, date)
}

func (s *Service) ListWorkers(ctx context.Context, f Filter, limit, offset int) ([]*Worker, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

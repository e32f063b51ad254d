package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotOwner mirrors the worker package's ownership error for sessions
// reached through a worker the caller does not own.
var ErrNotOwner = fmt.Errorf("worker belongs to another professional")

// ErrInvalid tags client input failures so handlers can keep storage
// errors out of responses.
var ErrInvalid = fmt.Errorf("invalid input")

// WorkerDirectory resolves a worker's owning professional. Implemented in
// cmd by an adapter over the worker service to avoid a package cycle.
type WorkerDirectory interface {
	OwnerOf(ctx context.Context, workerID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	repo    Repository
	workers WorkerDirectory
}

func NewService(repo Repository, workers WorkerDirectory) *Service {
	return &Service{repo: repo, workers: workers}
}

func (s *Service) authorize(ctx context.Context, workerID, callerID uuid.UUID, isAdmin bool) error {
	owner, err := s.workers.OwnerOf(ctx, workerID)
	if err != nil {
		return fmt.Errorf("%w: worker not found", ErrInvalid)
	}
	if !isAdmin && owner != callerID {
		return ErrNotOwner
	}
	return nil
}

func (s *Service) CreateSession(ctx context.Context, cs *Consultation, callerID uuid.UUID, isAdmin bool) error {
	if cs.WorkerID == uuid.Nil {
		return fmt.Errorf("%w: worker_id is required", ErrInvalid)
	}
	cs.Reason = strings.TrimSpace(cs.Reason)
	if cs.Reason == "" {
		return fmt.Errorf("%w: motivo is required", ErrInvalid)
	}
	if cs.Modality == "" {
		cs.Modality = ModalityInPerson
	}
	if !ValidModality(cs.Modality) {
		return fmt.Errorf("%w: modalidad %s", ErrInvalid, cs.Modality)
	}
	if cs.Status == "" {
		cs.Status = StatusOpen
	}
	if !ValidStatus(cs.Status) {
		return fmt.Errorf("%w: estado %s", ErrInvalid, cs.Status)
	}
	if cs.Date.IsZero() {
		cs.Date = time.Now().UTC()
	}

	if err := s.authorize(ctx, cs.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	return s.repo.Create(ctx, cs)
}

func (s *Service) GetSession(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*Consultation, error) {
	cs, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, cs.WorkerID, callerID, isAdmin); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *Service) UpdateSession(ctx context.Context, cs *Consultation, callerID uuid.UUID, isAdmin bool) error {
	current, err := s.repo.GetByID(ctx, cs.ID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, current.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	// A session never moves between workers. Omitted fields keep their
	// stored value; in particular an omitted motivo must not rewrite the
	// (worker, motivo) case key.
	cs.WorkerID = current.WorkerID
	cs.Reason = strings.TrimSpace(cs.Reason)
	if cs.Reason == "" {
		cs.Reason = current.Reason
	}
	if cs.Modality == "" {
		cs.Modality = current.Modality
	}
	if !ValidModality(cs.Modality) {
		return fmt.Errorf("%w: modalidad %s", ErrInvalid, cs.Modality)
	}
	if cs.Status == "" {
		cs.Status = current.Status
	}
	if !ValidStatus(cs.Status) {
		return fmt.Errorf("%w: estado %s", ErrInvalid, cs.Status)
	}
	if cs.Date.IsZero() {
		cs.Date = current.Date
	}
	if cs.Notes == nil {
		cs.Notes = current.Notes
	}
	return s.repo.Update(ctx, cs)
}

func (s *Service) DeleteSession(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	cs, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, cs.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListWorkerSessions returns a worker's sessions in chronological order.
func (s *Service) ListWorkerSessions(ctx context.Context, workerID, callerID uuid.UUID, isAdmin bool) ([]*Consultation, error) {
	if err := s.authorize(ctx, workerID, callerID, isAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByWorker(ctx, workerID)
}

// ListWorkerCases derives the case read-model for one worker.
func (s *Service) ListWorkerCases(ctx context.Context, workerID, callerID uuid.UUID, isAdmin bool) ([]Case, error) {
	sessions, err := s.ListWorkerSessions(ctx, workerID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	return GroupCases(sessions), nil
}

func (s *Service) ListSessions(ctx context.Context, f Filter, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

package sve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotOwner    = fmt.Errorf("worker belongs to another professional")
	ErrInvalid     = fmt.Errorf("invalid input")
	ErrNoWorkTable = fmt.Errorf("worker has no work table")
	ErrWorkTable   = fmt.Errorf("worker already has a work table")
)

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

// CreateWorkTable opens a worker's surveillance track. A worker carries at
// most one work table; a second create is rejected.
func (s *Service) CreateWorkTable(ctx context.Context, wt *WorkTable, callerID uuid.UUID, isAdmin bool) error {
	if wt.WorkerID == uuid.Nil {
		return fmt.Errorf("%w: worker_id is required", ErrInvalid)
	}
	wt.InclusionCriterion = strings.TrimSpace(wt.InclusionCriterion)
	if wt.InclusionCriterion == "" {
		return fmt.Errorf("%w: criterio_inclusion is required", ErrInvalid)
	}
	wt.Diagnosis = strings.TrimSpace(wt.Diagnosis)
	if wt.Diagnosis == "" {
		return fmt.Errorf("%w: diagnostico is required", ErrInvalid)
	}
	if err := s.authorize(ctx, wt.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetWorkTableByWorker(ctx, wt.WorkerID); err == nil {
		return ErrWorkTable
	}
	return s.repo.CreateWorkTable(ctx, wt)
}

func (s *Service) GetWorkTable(ctx context.Context, workerID, callerID uuid.UUID, isAdmin bool) (*WorkTable, error) {
	if err := s.authorize(ctx, workerID, callerID, isAdmin); err != nil {
		return nil, err
	}
	return s.repo.GetWorkTableByWorker(ctx, workerID)
}

func (s *Service) UpdateWorkTable(ctx context.Context, wt *WorkTable, callerID uuid.UUID, isAdmin bool) error {
	current, err := s.repo.GetWorkTableByWorker(ctx, wt.WorkerID)
	if err != nil {
		return ErrNoWorkTable
	}
	if err := s.authorize(ctx, wt.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	wt.ID = current.ID
	if wt.InclusionCriterion = strings.TrimSpace(wt.InclusionCriterion); wt.InclusionCriterion == "" {
		return fmt.Errorf("%w: criterio_inclusion is required", ErrInvalid)
	}
	if wt.Diagnosis = strings.TrimSpace(wt.Diagnosis); wt.Diagnosis == "" {
		return fmt.Errorf("%w: diagnostico is required", ErrInvalid)
	}
	return s.repo.UpdateWorkTable(ctx, wt)
}

// CreateSession records a surveillance session. The worker must already have
// a work table.
func (s *Service) CreateSession(ctx context.Context, cs *Consultation, callerID uuid.UUID, isAdmin bool) error {
	if cs.WorkerID == uuid.Nil {
		return fmt.Errorf("%w: worker_id is required", ErrInvalid)
	}
	if cs.Modality == "" {
		cs.Modality = ModalityInPerson
	}
	if !ValidModality(cs.Modality) {
		return fmt.Errorf("%w: modalidad %s", ErrInvalid, cs.Modality)
	}
	if cs.Date.IsZero() {
		cs.Date = time.Now().UTC()
	}
	if err := s.authorize(ctx, cs.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetWorkTableByWorker(ctx, cs.WorkerID); err != nil {
		return ErrNoWorkTable
	}
	return s.repo.CreateSession(ctx, cs)
}

func (s *Service) GetSession(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*Consultation, error) {
	cs, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, cs.WorkerID, callerID, isAdmin); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *Service) UpdateSession(ctx context.Context, cs *Consultation, callerID uuid.UUID, isAdmin bool) error {
	current, err := s.repo.GetSessionByID(ctx, cs.ID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, current.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	// A session never moves between workers. Omitted fields keep their
	// stored value.
	cs.WorkerID = current.WorkerID
	if cs.Modality == "" {
		cs.Modality = current.Modality
	}
	if !ValidModality(cs.Modality) {
		return fmt.Errorf("%w: modalidad %s", ErrInvalid, cs.Modality)
	}
	if cs.Date.IsZero() {
		cs.Date = current.Date
	}
	if cs.Notes == nil {
		cs.Notes = current.Notes
	}
	return s.repo.UpdateSession(ctx, cs)
}

func (s *Service) DeleteSession(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	cs, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, cs.WorkerID, callerID, isAdmin); err != nil {
		return err
	}
	return s.repo.DeleteSession(ctx, id)
}

// ListWorkerSessions returns a worker's surveillance sessions in
// chronological order.
func (s *Service) ListWorkerSessions(ctx context.Context, workerID, callerID uuid.UUID, isAdmin bool) ([]*Consultation, error) {
	if err := s.authorize(ctx, workerID, callerID, isAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListSessionsByWorker(ctx, workerID)
}

package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bienestar/bienestar/internal/domain/company"
	"github.com/bienestar/bienestar/internal/domain/consultation"
	"github.com/bienestar/bienestar/internal/domain/worker"
)

var (
	ErrNotOwner   = fmt.Errorf("worker belongs to another professional")
	ErrNoSessions = fmt.Errorf("case has no sessions")
)

// WorkerSource, SessionSource and CompanySource are the narrow read slices
// of their domain repositories the renderer needs.
type WorkerSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*worker.Worker, error)
}

type SessionSource interface {
	ListByCase(ctx context.Context, key consultation.CaseKey) ([]*consultation.Consultation, error)
}

type CompanySource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*company.Company, error)
}

type Service struct {
	workers   WorkerSource
	sessions  SessionSource
	companies CompanySource
	now       func() time.Time
}

func NewService(workers WorkerSource, sessions SessionSource, companies CompanySource) *Service {
	return &Service{workers: workers, sessions: sessions, companies: companies, now: time.Now}
}

// CaseReport assembles the document for one (worker, reason) case.
func (s *Service) CaseReport(ctx context.Context, workerID uuid.UUID, reason string, callerID uuid.UUID, isAdmin bool) (*CaseReport, error) {
	w, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("worker not found: %w", err)
	}
	if !isAdmin && w.ProfessionalID != callerID {
		return nil, ErrNotOwner
	}

	sessions, err := s.sessions.ListByCase(ctx, consultation.CaseKey{WorkerID: workerID, Reason: reason})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Date.Before(sessions[j].Date) })

	r := &CaseReport{
		WorkerID:      w.ID,
		WorkerName:    w.Name,
		Cedula:        w.Cedula,
		Site:          w.Site,
		Reason:        reason,
		Status:        consultation.StatusOpen,
		OpenedAt:      sessions[0].Date,
		ClosedAt:      w.ClosureDate,
		TotalSessions: len(sessions),
		GeneratedAt:   s.now(),
	}
	for _, cs := range sessions {
		if cs.Status == consultation.StatusClosed {
			r.Status = consultation.StatusClosed
		}
		r.Sessions = append(r.Sessions, SessionEntry{
			Date:     cs.Date,
			Modality: cs.Modality,
			Status:   cs.Status,
			Notes:    cs.Notes,
		})
	}

	if w.CompanyID != nil {
		co, err := s.companies.GetByID(ctx, *w.CompanyID)
		if err == nil {
			r.Company = co.Name
		}
	}
	return r, nil
}

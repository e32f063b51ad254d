package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bienestar/bienestar/internal/domain/company"
	"github.com/bienestar/bienestar/internal/domain/consultation"
	"github.com/bienestar/bienestar/internal/domain/worker"
)

type fixture struct {
	worker   *worker.Worker
	sessions []*consultation.Consultation
	company  *company.Company
}

func (f *fixture) GetByID(_ context.Context, id uuid.UUID) (*worker.Worker, error) {
	if f.worker != nil && f.worker.ID == id {
		return f.worker, nil
	}
	return nil, fmt.Errorf("not found")
}

func (f *fixture) ListByCase(_ context.Context, key consultation.CaseKey) ([]*consultation.Consultation, error) {
	var out []*consultation.Consultation
	for _, s := range f.sessions {
		if s.WorkerID == key.WorkerID && s.Reason == key.Reason {
			out = append(out, s)
		}
	}
	return out, nil
}

type companyFixture struct{ co *company.Company }

func (f companyFixture) GetByID(_ context.Context, id uuid.UUID) (*company.Company, error) {
	if f.co != nil && f.co.ID == id {
		return f.co, nil
	}
	return nil, fmt.Errorf("not found")
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func newFixture() (*fixture, uuid.UUID) {
	prof := uuid.New()
	co := &company.Company{ID: uuid.New(), Name: "Acme"}
	w := &worker.Worker{
		ID:             uuid.New(),
		Cedula:         "12345678",
		Name:           "Maria Lopez",
		Site:           "Planta Norte",
		CompanyID:      &co.ID,
		ProfessionalID: prof,
	}
	f := &fixture{
		worker:  w,
		company: co,
		sessions: []*consultation.Consultation{
			{WorkerID: w.ID, Reason: "Estres", Date: day(10), Modality: "Virtual", Status: "Cerrado"},
			{WorkerID: w.ID, Reason: "Estres", Date: day(3), Modality: "Presencial", Status: "Abierto"},
			{WorkerID: w.ID, Reason: "Otro", Date: day(5), Modality: "Virtual", Status: "Abierto"},
		},
	}
	return f, prof
}

func TestCaseReport(t *testing.T) {
	f, prof := newFixture()
	svc := NewService(f, f, companyFixture{f.company})

	r, err := svc.CaseReport(context.Background(), f.worker.ID, "Estres", prof, false)
	if err != nil {
		t.Fatal(err)
	}
	if r.TotalSessions != 2 {
		t.Fatalf("sessions = %d, want 2 (other case excluded)", r.TotalSessions)
	}
	if !r.OpenedAt.Equal(day(3)) {
		t.Fatalf("opened = %v, want first session date", r.OpenedAt)
	}
	if !r.Sessions[0].Date.Before(r.Sessions[1].Date) {
		t.Fatal("session history must be chronological")
	}
	if r.Status != "Cerrado" {
		t.Fatalf("status = %q, want Cerrado (one closed session closes the case)", r.Status)
	}
	if r.Company != "Acme" {
		t.Fatalf("company = %q, want Acme", r.Company)
	}
}

func TestCaseReportOwnership(t *testing.T) {
	f, _ := newFixture()
	svc := NewService(f, f, companyFixture{f.company})

	stranger := uuid.New()
	if _, err := svc.CaseReport(context.Background(), f.worker.ID, "Estres", stranger, false); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("got %v, want ErrNotOwner", err)
	}
	if _, err := svc.CaseReport(context.Background(), f.worker.ID, "Estres", stranger, true); err != nil {
		t.Fatalf("admin access: %v", err)
	}
}

func TestCaseReportNoSessions(t *testing.T) {
	f, prof := newFixture()
	svc := NewService(f, f, companyFixture{f.company})

	if _, err := svc.CaseReport(context.Background(), f.worker.ID, "Inexistente", prof, false); !errors.Is(err, ErrNoSessions) {
		t.Fatalf("got %v, want ErrNoSessions", err)
	}
}

func TestRenderHTMLEscapesNotes(t *testing.T) {
	f, prof := newFixture()
	notes := `<script>alert("x")</script>`
	f.sessions[0].Notes = &notes
	svc := NewService(f, f, companyFixture{f.company})

	r, err := svc.CaseReport(context.Background(), f.worker.ID, "Estres", prof, false)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := RenderHTML(&sb, r); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if strings.Contains(out, "<script>") {
		t.Fatal("notes must be escaped in the printable rendering")
	}
	if !strings.Contains(out, "Maria Lopez") || !strings.Contains(out, "Acme") {
		t.Fatal("rendering should include the worker header")
	}
}

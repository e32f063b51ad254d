package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mocks --

// mockRepo serves canned aggregates and records the limits it was asked for.
type mockRepo struct {
	summary   SummaryRaw
	profRows  []*ProfessionalRaw
	virtual   int
	inPerson  int
	reasons   []ReasonCount
	open      int
	closed    int
	evolution []MonthCount
	bySite    []SiteCount
	byCompany []CompanyCount
	quality   QualityRaw

	sveTotals    SVETotalsRaw
	sveCriteria  []CriterionCount
	sveEvolution []SVEMonthCount

	reasonsLimit int
	companyLimit int
	failOn       string
}

func (m *mockRepo) err(name string) error {
	if m.failOn == name {
		return fmt.Errorf("%s query failed", name)
	}
	return nil
}

func (m *mockRepo) Summary(_ context.Context, _ Filter) (*SummaryRaw, error) {
	s := m.summary
	return &s, m.err("summary")
}

func (m *mockRepo) ProfessionalRows(_ context.Context, _ Filter) ([]*ProfessionalRaw, error) {
	return m.profRows, m.err("professionals")
}

func (m *mockRepo) ModalitySplit(_ context.Context, _ Filter) (int, int, error) {
	return m.virtual, m.inPerson, m.err("modality")
}

func (m *mockRepo) TopReasons(_ context.Context, _ Filter, limit int) ([]ReasonCount, error) {
	m.reasonsLimit = limit
	if len(m.reasons) > limit {
		return m.reasons[:limit], m.err("reasons")
	}
	return m.reasons, m.err("reasons")
}

func (m *mockRepo) StatusDistribution(_ context.Context, _ Filter) (int, int, error) {
	return m.open, m.closed, m.err("statuses")
}

func (m *mockRepo) MonthlyEvolution(_ context.Context, _ Scope, _ int) ([]MonthCount, error) {
	return m.evolution, m.err("evolution")
}

func (m *mockRepo) BySite(_ context.Context, _ Filter) ([]SiteCount, error) {
	return m.bySite, m.err("sites")
}

func (m *mockRepo) ByCompany(_ context.Context, _ Filter, limit int) ([]CompanyCount, error) {
	m.companyLimit = limit
	if len(m.byCompany) > limit {
		return m.byCompany[:limit], m.err("companies")
	}
	return m.byCompany, m.err("companies")
}

func (m *mockRepo) Quality(_ context.Context, _ Filter) (*QualityRaw, error) {
	q := m.quality
	return &q, m.err("quality")
}

func (m *mockRepo) SVETotals(_ context.Context, _ Scope) (*SVETotalsRaw, error) {
	t := m.sveTotals
	return &t, m.err("sve-totals")
}

func (m *mockRepo) SVECriteria(_ context.Context, _ Scope) ([]CriterionCount, error) {
	return m.sveCriteria, m.err("sve-criteria")
}

func (m *mockRepo) SVEEvolution(_ context.Context, _ Scope, _ int) ([]SVEMonthCount, error) {
	return m.sveEvolution, m.err("sve-evolution")
}

func newService(repo *mockRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

// -- Tests --

func TestDashboardEmptyScopeYieldsZeros(t *testing.T) {
	repo := &mockRepo{}
	stats, err := newService(repo).Dashboard(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Summary.ClosedCasesPercent != 0 {
		t.Fatalf("closed percent = %d, want 0", stats.Summary.ClosedCasesPercent)
	}
	if stats.Quality.AvgSessionsPerCase != 0 || stats.Quality.AvgCaseDays != 0 {
		t.Fatalf("quality ratios = %+v, want zeros", stats.Quality)
	}
	if stats.Quality.EmergencyContactPercent != 0 {
		t.Fatal("contact percent must be 0 with no workers in scope")
	}
	// Charts still get a dense six-month series.
	if len(stats.Evolution) != evolutionMonths {
		t.Fatalf("evolution entries = %d, want %d", len(stats.Evolution), evolutionMonths)
	}
	for _, mc := range stats.Evolution {
		if mc.Sessions != 0 {
			t.Fatalf("month %s = %d, want 0", mc.Month, mc.Sessions)
		}
	}
}

func TestDashboardSummaryPartition(t *testing.T) {
	repo := &mockRepo{
		summary: SummaryRaw{TotalWorkers: 12, TotalCases: 8, TotalSessions: 20, ClosedCases: 3},
	}
	stats, err := newService(repo).Dashboard(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	s := stats.Summary
	if s.OpenCases+s.ClosedCases != s.TotalCases {
		t.Fatalf("open %d + closed %d != total %d", s.OpenCases, s.ClosedCases, s.TotalCases)
	}
	if s.TotalCases > s.TotalSessions {
		t.Fatal("case count must never exceed session count")
	}
	// 3/8 = 37.5 rounds to 38.
	if s.ClosedCasesPercent != 38 {
		t.Fatalf("closed percent = %d, want 38", s.ClosedCasesPercent)
	}
}

func TestDashboardLimits(t *testing.T) {
	repo := &mockRepo{}
	for i := 0; i < 9; i++ {
		repo.reasons = append(repo.reasons, ReasonCount{Reason: fmt.Sprintf("motivo %d", i), Cases: 9 - i})
	}
	for i := 0; i < 14; i++ {
		repo.byCompany = append(repo.byCompany, CompanyCount{Company: fmt.Sprintf("empresa %d", i), Workers: 14 - i})
	}

	stats, err := newService(repo).Dashboard(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if repo.reasonsLimit != 5 || len(stats.TopReasons) > 5 {
		t.Fatalf("top reasons limit = %d, entries = %d", repo.reasonsLimit, len(stats.TopReasons))
	}
	if repo.companyLimit != 10 || len(stats.ByCompany) > 10 {
		t.Fatalf("company limit = %d, entries = %d", repo.companyLimit, len(stats.ByCompany))
	}
	for i := 1; i < len(stats.TopReasons); i++ {
		if stats.TopReasons[i].Cases > stats.TopReasons[i-1].Cases {
			t.Fatal("top reasons must be sorted descending")
		}
	}
}

func TestProfessionalDetail(t *testing.T) {
	profA := &ProfessionalRaw{
		ID: uuid.New(), Name: "Ana", Workers: 4,
		Cases: 2, Sessions: 3, Virtual: 2, InPerson: 1, OpenCases: 1, ClosedCases: 1,
	}
	profB := &ProfessionalRaw{ID: uuid.New(), Name: "Berta", Workers: 1}
	profIdle := &ProfessionalRaw{ID: uuid.New(), Name: "Carlos"}
	repo := &mockRepo{profRows: []*ProfessionalRaw{profB, profA, profIdle}}

	stats, err := newService(repo).Dashboard(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.ProfessionalDetail) != 2 {
		t.Fatalf("detail rows = %d, want 2 (idle professional dropped)", len(stats.ProfessionalDetail))
	}
	// Ordered descending by case count, so Ana comes first.
	a, b := stats.ProfessionalDetail[0], stats.ProfessionalDetail[1]
	if a.Name != "Ana" || b.Name != "Berta" {
		t.Fatalf("order = %s, %s; want Ana, Berta", a.Name, b.Name)
	}
	if a.VirtualPercent != 67 || a.InPersonPercent != 33 {
		t.Fatalf("modality percents = %d/%d, want 67/33", a.VirtualPercent, a.InPersonPercent)
	}
	if a.AvgSessions != 1.5 {
		t.Fatalf("avg sessions = %v, want 1.5", a.AvgSessions)
	}
	if b.Workers != 1 || b.Sessions != 0 || b.AvgSessions != 0 {
		t.Fatalf("idle-but-assigned row = %+v, want zero counts with trabajadores=1", b)
	}
}

func TestQualityRounding(t *testing.T) {
	repo := &mockRepo{
		quality: QualityRaw{
			AvgCaseDays:        10,
			ClosedCaseCount:    1,
			AvgSessionsPerCase: 2.25,
			WorkersInScope:     4,
			WorkersWithContact: 3,
			StaleOpenCases:     2,
		},
	}
	stats, err := newService(repo).Dashboard(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	q := stats.Quality
	if q.AvgCaseDays != 10 {
		t.Fatalf("avg days = %d, want 10", q.AvgCaseDays)
	}
	if q.AvgSessionsPerCase != 2.3 {
		t.Fatalf("avg sessions = %v, want 2.3", q.AvgSessionsPerCase)
	}
	if q.EmergencyContactPercent != 75 {
		t.Fatalf("contact percent = %d, want 75", q.EmergencyContactPercent)
	}
	if q.StaleOpenCases != 2 {
		t.Fatalf("stale open = %d, want 2", q.StaleOpenCases)
	}

	// A fractional average rounds up to the next whole day.
	repo.quality.AvgCaseDays = 9.2
	stats, err = newService(repo).Dashboard(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Quality.AvgCaseDays != 10 {
		t.Fatalf("avg days = %d, want 10 (rounded up)", stats.Quality.AvgCaseDays)
	}
}

func TestDashboardAllOrNothing(t *testing.T) {
	for _, name := range []string{"summary", "professionals", "modality", "reasons",
		"statuses", "evolution", "sites", "companies", "quality"} {
		t.Run(name, func(t *testing.T) {
			repo := &mockRepo{failOn: name}
			if _, err := newService(repo).Dashboard(context.Background(), Filter{}); err == nil {
				t.Fatal("expected failure to abort the whole aggregation")
			}
		})
	}
}

func TestEvolutionFillsMissingMonths(t *testing.T) {
	repo := &mockRepo{
		evolution: []MonthCount{
			{Month: "2026-04", Sessions: 3},
			{Month: "2026-07", Sessions: 5},
		},
	}
	stats, err := newService(repo).Dashboard(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	want := []MonthCount{
		{Month: "2026-03"}, {Month: "2026-04", Sessions: 3}, {Month: "2026-05"},
		{Month: "2026-06"}, {Month: "2026-07", Sessions: 5}, {Month: "2026-08"},
	}
	if len(stats.Evolution) != len(want) {
		t.Fatalf("entries = %d, want %d", len(stats.Evolution), len(want))
	}
	for i := range want {
		if stats.Evolution[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, stats.Evolution[i], want[i])
		}
	}
}

func TestSVEDashboard(t *testing.T) {
	repo := &mockRepo{
		sveTotals: SVETotalsRaw{
			TotalCases: 10, NewCases30d: 2, TotalSessions: 25,
			Virtual: 15, InPerson: 10, ClosedCases: 4,
		},
		sveCriteria: []CriterionCount{
			{Criterion: "Ruido", Cases: 6},
			{Criterion: "Quimico", Cases: 4},
		},
	}
	stats, err := newService(repo).SVEDashboard(context.Background(), Scope{})
	if err != nil {
		t.Fatal(err)
	}
	s := stats.Summary
	if s.OpenCases != 6 || s.ClosedCases != 4 {
		t.Fatalf("open/closed = %d/%d, want 6/4", s.OpenCases, s.ClosedCases)
	}
	if s.ClosureRate != 40 {
		t.Fatalf("closure rate = %d, want 40", s.ClosureRate)
	}
	if s.AvgSessionsPerCase != 2.5 {
		t.Fatalf("avg sessions = %v, want 2.5", s.AvgSessionsPerCase)
	}
	if stats.Criteria[0].Percent != 60 || stats.Criteria[1].Percent != 40 {
		t.Fatalf("criterion shares = %+v, want 60/40", stats.Criteria)
	}
	if len(stats.Evolution) != sveEvolutionMonths {
		t.Fatalf("evolution entries = %d, want %d", len(stats.Evolution), sveEvolutionMonths)
	}
}

func TestSVEDashboardEmpty(t *testing.T) {
	stats, err := newService(&mockRepo{}).SVEDashboard(context.Background(), Scope{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Summary.ClosureRate != 0 || stats.Summary.AvgSessionsPerCase != 0 {
		t.Fatalf("empty scope ratios = %+v, want zeros", stats.Summary)
	}
}

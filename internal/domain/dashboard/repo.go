package dashboard

import (
	"context"

	"github.com/google/uuid"
)

// SummaryRaw carries the unshaped summary aggregates. Ratio shaping happens
// in the service.
type SummaryRaw struct {
	TotalWorkers  int
	TotalCases    int
	TotalSessions int
	ClosedCases   int
}

// ProfessionalRaw is one active professional's unshaped aggregates. Workers
// is a date-unscoped headcount; the remaining counts honor the filter.
type ProfessionalRaw struct {
	ID          uuid.UUID
	Name        string
	Workers     int
	Cases       int
	Sessions    int
	Virtual     int
	InPerson    int
	OpenCases   int
	ClosedCases int
}

type QualityRaw struct {
	// Per-case day spans are floored at 1 in the query, so a same-day
	// closure still counts as one day.
	AvgCaseDays        float64
	ClosedCaseCount    int
	AvgSessionsPerCase float64
	WorkersInScope     int
	WorkersWithContact int
	StaleOpenCases     int
}

type SVETotalsRaw struct {
	TotalCases    int
	NewCases30d   int
	TotalSessions int
	Virtual       int
	InPerson      int
	ClosedCases   int
}

type CriterionCount struct {
	Criterion string
	Cases     int
}

// Repository exposes one read-only method per aggregation sub-computation.
// Every implementation must bind filter values as parameters, never splice
// them into SQL text.
type Repository interface {
	Summary(ctx context.Context, f Filter) (*SummaryRaw, error)
	ProfessionalRows(ctx context.Context, f Filter) ([]*ProfessionalRaw, error)
	ModalitySplit(ctx context.Context, f Filter) (virtual, inPerson int, err error)
	TopReasons(ctx context.Context, f Filter, limit int) ([]ReasonCount, error)
	StatusDistribution(ctx context.Context, f Filter) (open, closed int, err error)
	MonthlyEvolution(ctx context.Context, scope Scope, months int) ([]MonthCount, error)
	BySite(ctx context.Context, f Filter) ([]SiteCount, error)
	ByCompany(ctx context.Context, f Filter, limit int) ([]CompanyCount, error)
	Quality(ctx context.Context, f Filter) (*QualityRaw, error)

	SVETotals(ctx context.Context, scope Scope) (*SVETotalsRaw, error)
	SVECriteria(ctx context.Context, scope Scope) ([]CriterionCount, error)
	SVEEvolution(ctx context.Context, scope Scope, months int) ([]SVEMonthCount, error)
}

package dashboard

import (
	"context"
	"math"
	"sort"
	"time"
)

const (
	topReasonsLimit    = 5
	byCompanyLimit     = 10
	evolutionMonths    = 6
	sveEvolutionMonths = 12
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// percent returns n/d as a whole percentage rounded to nearest, 0 when the
// denominator is zero.
func percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(d)))
}

// round1 keeps one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ratio1 returns n/d to one decimal, 0 when the denominator is zero.
func ratio1(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round1(float64(n) / float64(d))
}

// Dashboard computes the full statistics document. Sub-queries run
// sequentially and any failure aborts the whole request; no partial
// document is ever produced.
func (s *Service) Dashboard(ctx context.Context, f Filter) (*Stats, error) {
	summary, err := s.repo.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	profRows, err := s.repo.ProfessionalRows(ctx, f)
	if err != nil {
		return nil, err
	}
	virtual, inPerson, err := s.repo.ModalitySplit(ctx, f)
	if err != nil {
		return nil, err
	}
	topReasons, err := s.repo.TopReasons(ctx, f, topReasonsLimit)
	if err != nil {
		return nil, err
	}
	open, closed, err := s.repo.StatusDistribution(ctx, f)
	if err != nil {
		return nil, err
	}
	evolution, err := s.repo.MonthlyEvolution(ctx, f.Scope, evolutionMonths)
	if err != nil {
		return nil, err
	}
	bySite, err := s.repo.BySite(ctx, f)
	if err != nil {
		return nil, err
	}
	byCompany, err := s.repo.ByCompany(ctx, f, byCompanyLimit)
	if err != nil {
		return nil, err
	}
	quality, err := s.repo.Quality(ctx, f)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Summary: Summary{
			TotalWorkers:       summary.TotalWorkers,
			TotalCases:         summary.TotalCases,
			TotalSessions:      summary.TotalSessions,
			OpenCases:          summary.TotalCases - summary.ClosedCases,
			ClosedCases:        summary.ClosedCases,
			ClosedCasesPercent: percent(summary.ClosedCases, summary.TotalCases),
		},
		Modality:   Modality{Virtual: virtual, InPerson: inPerson},
		TopReasons: topReasons,
		Statuses:   StatusDistribution{Open: open, Closed: closed},
		Evolution:  fillMonths(s.now(), evolutionMonths, evolution),
		BySite:     bySite,
		ByCompany:  byCompany,
		Quality: Quality{
			AvgCaseDays:             ceilDays(quality.AvgCaseDays, quality.ClosedCaseCount),
			AvgSessionsPerCase:      round1(quality.AvgSessionsPerCase),
			EmergencyContactPercent: percent(quality.WorkersWithContact, quality.WorkersInScope),
			StaleOpenCases:          quality.StaleOpenCases,
		},
	}
	stats.ByProfessional, stats.ProfessionalDetail = shapeProfessionals(profRows)
	return stats, nil
}

// ceilDays rounds the average case duration up to whole days; zero cases
// yields zero.
func ceilDays(avg float64, cases int) int {
	if cases == 0 {
		return 0
	}
	return int(math.Ceil(avg))
}

// shapeProfessionals drops professionals with neither sessions nor assigned
// workers, derives the per-professional ratios, and orders descending by
// case count.
func shapeProfessionals(raw []*ProfessionalRaw) ([]ProfessionalCount, []ProfessionalRow) {
	counts := []ProfessionalCount{}
	detail := []ProfessionalRow{}
	for _, p := range raw {
		if p.Sessions == 0 && p.Workers == 0 {
			continue
		}
		counts = append(counts, ProfessionalCount{
			ProfessionalID: p.ID,
			Name:           p.Name,
			Cases:          p.Cases,
			Sessions:       p.Sessions,
		})
		detail = append(detail, ProfessionalRow{
			ProfessionalID:  p.ID,
			Name:            p.Name,
			Workers:         p.Workers,
			Cases:           p.Cases,
			Sessions:        p.Sessions,
			Virtual:         p.Virtual,
			InPerson:        p.InPerson,
			VirtualPercent:  percent(p.Virtual, p.Sessions),
			InPersonPercent: percent(p.InPerson, p.Sessions),
			OpenCases:       p.OpenCases,
			ClosedCases:     p.ClosedCases,
			AvgSessions:     ratio1(p.Sessions, p.Cases),
		})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Cases > counts[j].Cases })
	sort.SliceStable(detail, func(i, j int) bool { return detail[i].Cases > detail[j].Cases })
	return counts, detail
}

// fillMonths expands the sparse month rows into a dense trailing window so
// charts always receive exactly `months` chronological entries.
func fillMonths(now time.Time, months int, raw []MonthCount) []MonthCount {
	byMonth := make(map[string]int, len(raw))
	for _, r := range raw {
		byMonth[r.Month] = r.Sessions
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)
	out := make([]MonthCount, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0).Format("2006-01")
		out = append(out, MonthCount{Month: m, Sessions: byMonth[m]})
	}
	return out
}

func fillSVEMonths(now time.Time, months int, raw []SVEMonthCount) []SVEMonthCount {
	byMonth := make(map[string]SVEMonthCount, len(raw))
	for _, r := range raw {
		byMonth[r.Month] = r
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)
	out := make([]SVEMonthCount, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0).Format("2006-01")
		mc := byMonth[m]
		mc.Month = m
		out = append(out, mc)
	}
	return out
}

// SVEDashboard computes the surveillance-track statistics document.
func (s *Service) SVEDashboard(ctx context.Context, scope Scope) (*SVEStats, error) {
	totals, err := s.repo.SVETotals(ctx, scope)
	if err != nil {
		return nil, err
	}
	criteria, err := s.repo.SVECriteria(ctx, scope)
	if err != nil {
		return nil, err
	}
	evolution, err := s.repo.SVEEvolution(ctx, scope, sveEvolutionMonths)
	if err != nil {
		return nil, err
	}

	shares := []CriterionShare{}
	for _, c := range criteria {
		shares = append(shares, CriterionShare{
			Criterion: c.Criterion,
			Cases:     c.Cases,
			Percent:   percent(c.Cases, totals.TotalCases),
		})
	}

	return &SVEStats{
		Summary: SVESummary{
			TotalCases:         totals.TotalCases,
			NewCases30d:        totals.NewCases30d,
			TotalSessions:      totals.TotalSessions,
			OpenCases:          totals.TotalCases - totals.ClosedCases,
			ClosedCases:        totals.ClosedCases,
			AvgSessionsPerCase: ratio1(totals.TotalSessions, totals.TotalCases),
			ClosureRate:        percent(totals.ClosedCases, totals.TotalCases),
		},
		Modality:  Modality{Virtual: totals.Virtual, InPerson: totals.InPerson},
		Criteria:  shares,
		Evolution: fillSVEMonths(s.now(), sveEvolutionMonths, evolution),
	}, nil
}

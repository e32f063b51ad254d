package dashboard

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bienestar/bienestar/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// predicates renders the date and scope conditions against a consultation
// table aliased c joined to worker aliased w. Every value is bound as a
// parameter; the SQL fragments themselves are fixed text.
func predicates(f Filter, args *[]interface{}) string {
	var clauses []string

	*args = append(*args, f.Range.From)
	clauses = append(clauses, "c.date >= $"+strconv.Itoa(len(*args)))
	if f.Range.To != nil {
		*args = append(*args, *f.Range.To)
		clauses = append(clauses, "c.date < $"+strconv.Itoa(len(*args)))
	}
	if f.Scope.ProfessionalID != nil {
		*args = append(*args, *f.Scope.ProfessionalID)
		clauses = append(clauses, "w.professional_id = $"+strconv.Itoa(len(*args)))
	}
	return strings.Join(clauses, " AND ")
}

// caseSubquery groups in-scope sessions into (worker, reason) cases with
// per-case session and modality counts plus the any-session-closed flag.
func caseSubquery(f Filter, args *[]interface{}) string {
	return `
		SELECT w.professional_id AS pid, c.worker_id, c.reason,
		       COUNT(*) AS n,
		       COUNT(*) FILTER (WHERE c.modality = 'Virtual') AS virt,
		       COUNT(*) FILTER (WHERE c.modality = 'Presencial') AS pres,
		       BOOL_OR(c.status = 'Cerrado') AS closed
		FROM consultation c
		JOIN worker w ON w.id = c.worker_id
		WHERE ` + predicates(f, args) + `
		GROUP BY w.professional_id, c.worker_id, c.reason`
}

func (r *repoPG) Summary(ctx context.Context, f Filter) (*SummaryRaw, error) {
	q := r.conn(ctx)
	var raw SummaryRaw

	var args []interface{}
	workerSQL := `SELECT COUNT(*) FROM worker w WHERE w.closure_date IS NULL`
	if f.Scope.ProfessionalID != nil {
		args = append(args, *f.Scope.ProfessionalID)
		workerSQL += ` AND w.professional_id = $1`
	}
	if err := q.QueryRow(ctx, workerSQL, args...).Scan(&raw.TotalWorkers); err != nil {
		return nil, err
	}

	args = nil
	caseSQL := `
		SELECT COUNT(*), COALESCE(SUM(n), 0), COUNT(*) FILTER (WHERE closed)
		FROM (` + caseSubquery(f, &args) + `) k`
	if err := q.QueryRow(ctx, caseSQL, args...).
		Scan(&raw.TotalCases, &raw.TotalSessions, &raw.ClosedCases); err != nil {
		return nil, err
	}
	return &raw, nil
}

func (r *repoPG) ProfessionalRows(ctx context.Context, f Filter) ([]*ProfessionalRaw, error) {
	var args []interface{}
	inner := caseSubquery(f, &args)

	sql := `
		SELECT u.id, u.name,
		       (SELECT COUNT(*) FROM worker w2
		        WHERE w2.professional_id = u.id AND w2.closure_date IS NULL),
		       COALESCE(cs.cases, 0), COALESCE(cs.sessions, 0),
		       COALESCE(cs.virtual, 0), COALESCE(cs.in_person, 0),
		       COALESCE(cs.open_cases, 0), COALESCE(cs.closed_cases, 0)
		FROM app_user u
		LEFT JOIN (
			SELECT pid,
			       COUNT(*) AS cases,
			       SUM(n) AS sessions,
			       SUM(virt) AS virtual,
			       SUM(pres) AS in_person,
			       COUNT(*) FILTER (WHERE NOT closed) AS open_cases,
			       COUNT(*) FILTER (WHERE closed) AS closed_cases
			FROM (` + inner + `) k
			GROUP BY pid
		) cs ON cs.pid = u.id
		WHERE u.role = 'profesional' AND u.active`
	if f.Scope.ProfessionalID != nil {
		args = append(args, *f.Scope.ProfessionalID)
		sql += ` AND u.id = $` + strconv.Itoa(len(args))
	}
	sql += ` ORDER BY u.name`

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ProfessionalRaw
	for rows.Next() {
		var p ProfessionalRaw
		if err := rows.Scan(&p.ID, &p.Name, &p.Workers, &p.Cases, &p.Sessions,
			&p.Virtual, &p.InPerson, &p.OpenCases, &p.ClosedCases); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

func (r *repoPG) ModalitySplit(ctx context.Context, f Filter) (int, int, error) {
	var args []interface{}
	sql := `
		SELECT COUNT(*) FILTER (WHERE c.modality = 'Virtual'),
		       COUNT(*) FILTER (WHERE c.modality = 'Presencial')
		FROM consultation c
		JOIN worker w ON w.id = c.worker_id
		WHERE ` + predicates(f, &args)

	var virtual, inPerson int
	err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&virtual, &inPerson)
	return virtual, inPerson, err
}

func (r *repoPG) TopReasons(ctx context.Context, f Filter, limit int) ([]ReasonCount, error) {
	var args []interface{}
	where := predicates(f, &args)
	args = append(args, limit)
	sql := `
		SELECT c.reason, COUNT(DISTINCT c.worker_id)
		FROM consultation c
		JOIN worker w ON w.id = c.worker_id
		WHERE ` + where + `
		GROUP BY c.reason
		ORDER BY 2 DESC, 1
		LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []ReasonCount{}
	for rows.Next() {
		var rc ReasonCount
		if err := rows.Scan(&rc.Reason, &rc.Cases); err != nil {
			return nil, err
		}
		result = append(result, rc)
	}
	return result, rows.Err()
}

func (r *repoPG) StatusDistribution(ctx context.Context, f Filter) (int, int, error) {
	var args []interface{}
	sql := `
		SELECT COUNT(*) FILTER (WHERE NOT closed), COUNT(*) FILTER (WHERE closed)
		FROM (` + caseSubquery(f, &args) + `) k`

	var open, closed int
	err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&open, &closed)
	return open, closed, err
}

func (r *repoPG) MonthlyEvolution(ctx context.Context, scope Scope, months int) ([]MonthCount, error) {
	args := []interface{}{months}
	sql := `
		SELECT to_char(date_trunc('month', c.date), 'YYYY-MM'), COUNT(*)
		FROM consultation c
		JOIN worker w ON w.id = c.worker_id
		WHERE c.date >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)`
	if scope.ProfessionalID != nil {
		args = append(args, *scope.ProfessionalID)
		sql += ` AND w.professional_id = $` + strconv.Itoa(len(args))
	}
	sql += ` GROUP BY 1 ORDER BY 1`

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Sessions); err != nil {
			return nil, err
		}
		result = append(result, mc)
	}
	return result, rows.Err()
}

func (r *repoPG) BySite(ctx context.Context, f Filter) ([]SiteCount, error) {
	var args []interface{}
	sql := `
		SELECT w.site, COUNT(DISTINCT w.id)
		FROM worker w
		JOIN consultation c ON c.worker_id = w.id
		WHERE ` + predicates(f, &args) + `
		GROUP BY w.site
		ORDER BY 2 DESC, 1`

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []SiteCount{}
	for rows.Next() {
		var sc SiteCount
		if err := rows.Scan(&sc.Site, &sc.Workers); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (r *repoPG) ByCompany(ctx context.Context, f Filter, limit int) ([]CompanyCount, error) {
	var args []interface{}
	where := predicates(f, &args)
	args = append(args, limit)
	sql := `
		SELECT co.name, COUNT(DISTINCT w.id)
		FROM worker w
		JOIN consultation c ON c.worker_id = w.id
		JOIN company co ON co.id = w.company_id
		WHERE ` + where + `
		GROUP BY co.name
		ORDER BY 2 DESC, 1
		LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []CompanyCount{}
	for rows.Next() {
		var cc CompanyCount
		if err := rows.Scan(&cc.Company, &cc.Workers); err != nil {
			return nil, err
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}

func (r *repoPG) Quality(ctx context.Context, f Filter) (*QualityRaw, error) {
	q := r.conn(ctx)
	var raw QualityRaw

	// Case duration and sessions-per-case over closure-dated cases. The
	// GREATEST floor keeps a same-day closure at one day, not zero.
	var args []interface{}
	durSQL := `
		SELECT COUNT(*),
		       COALESCE(AVG(GREATEST(days, 1)), 0),
		       COALESCE(AVG(n), 0)
		FROM (
			SELECT c.worker_id, c.reason, COUNT(*) AS n,
			       w.closure_date::date - MIN(c.date)::date AS days
			FROM consultation c
			JOIN worker w ON w.id = c.worker_id
			WHERE ` + predicates(f, &args) + ` AND w.closure_date IS NOT NULL
			GROUP BY c.worker_id, c.reason, w.closure_date
		) k`
	if err := q.QueryRow(ctx, durSQL, args...).
		Scan(&raw.ClosedCaseCount, &raw.AvgCaseDays, &raw.AvgSessionsPerCase); err != nil {
		return nil, err
	}

	args = nil
	contactSQL := `
		SELECT COUNT(DISTINCT w.id),
		       COUNT(DISTINCT w.id) FILTER (WHERE COALESCE(w.emergency_contact_phone, '') <> '')
		FROM worker w
		JOIN consultation c ON c.worker_id = w.id
		WHERE ` + predicates(f, &args)
	if err := q.QueryRow(ctx, contactSQL, args...).
		Scan(&raw.WorkersInScope, &raw.WorkersWithContact); err != nil {
		return nil, err
	}

	// Stale open cases ignore the period filter; only the scope applies.
	args = nil
	staleSQL := `
		SELECT COUNT(*)
		FROM (
			SELECT c.worker_id, c.reason
			FROM consultation c
			JOIN worker w ON w.id = c.worker_id`
	if f.Scope.ProfessionalID != nil {
		args = append(args, *f.Scope.ProfessionalID)
		staleSQL += `
			WHERE w.professional_id = $1`
	}
	staleSQL += `
			GROUP BY c.worker_id, c.reason
			HAVING NOT BOOL_OR(c.status = 'Cerrado')
			   AND MAX(c.date) < NOW() - INTERVAL '30 days'
		) s`
	if err := q.QueryRow(ctx, staleSQL, args...).Scan(&raw.StaleOpenCases); err != nil {
		return nil, err
	}
	return &raw, nil
}

func (r *repoPG) SVETotals(ctx context.Context, scope Scope) (*SVETotalsRaw, error) {
	q := r.conn(ctx)
	var raw SVETotalsRaw

	var args []interface{}
	scopeSQL := ""
	if scope.ProfessionalID != nil {
		args = append(args, *scope.ProfessionalID)
		scopeSQL = ` AND w.professional_id = $1`
	}

	caseSQL := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE wt.created_at >= NOW() - INTERVAL '30 days'),
		       COUNT(*) FILTER (WHERE w.closure_date IS NOT NULL)
		FROM work_table wt
		JOIN worker w ON w.id = wt.worker_id
		WHERE TRUE` + scopeSQL
	if err := q.QueryRow(ctx, caseSQL, args...).
		Scan(&raw.TotalCases, &raw.NewCases30d, &raw.ClosedCases); err != nil {
		return nil, err
	}

	sessSQL := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE s.modality = 'Virtual'),
		       COUNT(*) FILTER (WHERE s.modality = 'Presencial')
		FROM sve_consultation s
		JOIN worker w ON w.id = s.worker_id
		WHERE TRUE` + scopeSQL
	if err := q.QueryRow(ctx, sessSQL, args...).
		Scan(&raw.TotalSessions, &raw.Virtual, &raw.InPerson); err != nil {
		return nil, err
	}
	return &raw, nil
}

func (r *repoPG) SVECriteria(ctx context.Context, scope Scope) ([]CriterionCount, error) {
	var args []interface{}
	sql := `
		SELECT wt.inclusion_criterion, COUNT(*)
		FROM work_table wt
		JOIN worker w ON w.id = wt.worker_id
		WHERE TRUE`
	if scope.ProfessionalID != nil {
		args = append(args, *scope.ProfessionalID)
		sql += ` AND w.professional_id = $1`
	}
	sql += ` GROUP BY 1 ORDER BY 2 DESC, 1`

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CriterionCount
	for rows.Next() {
		var cc CriterionCount
		if err := rows.Scan(&cc.Criterion, &cc.Cases); err != nil {
			return nil, err
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}

func (r *repoPG) SVEEvolution(ctx context.Context, scope Scope, months int) ([]SVEMonthCount, error) {
	args := []interface{}{months}
	sql := `
		SELECT to_char(date_trunc('month', s.date), 'YYYY-MM'),
		       COUNT(*) FILTER (WHERE s.modality = 'Virtual'),
		       COUNT(*) FILTER (WHERE s.modality = 'Presencial')
		FROM sve_consultation s
		JOIN worker w ON w.id = s.worker_id
		WHERE s.date >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)`
	if scope.ProfessionalID != nil {
		args = append(args, *scope.ProfessionalID)
		sql += ` AND w.professional_id = $` + strconv.Itoa(len(args))
	}
	sql += ` GROUP BY 1 ORDER BY 1`

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SVEMonthCount
	for rows.Next() {
		var mc SVEMonthCount
		if err := rows.Scan(&mc.Month, &mc.Virtual, &mc.InPerson); err != nil {
			return nil, err
		}
		result = append(result, mc)
	}
	return result, rows.Err()
}

package dashboard

import "github.com/google/uuid"

// Stats is the consolidated statistics document returned by the dashboard
// endpoint. Field names match what the frontend charts consume.
type Stats struct {
	Summary            Summary             `json:"summary"`
	ByProfessional     []ProfessionalCount `json:"byProfesional"`
	Modality           Modality            `json:"modalidad"`
	TopReasons         []ReasonCount       `json:"topMotivos"`
	Statuses           StatusDistribution  `json:"estados"`
	Evolution          []MonthCount        `json:"evolucion"`
	BySite             []SiteCount         `json:"bySede"`
	ByCompany          []CompanyCount      `json:"byEmpresa"`
	ProfessionalDetail []ProfessionalRow   `json:"detalleProfesionales"`
	Quality            Quality             `json:"calidad"`
}

type Summary struct {
	TotalWorkers       int `json:"totalTrabajadores"`
	TotalCases         int `json:"totalCasos"`
	TotalSessions      int `json:"totalSesiones"`
	OpenCases          int `json:"casosAbiertos"`
	ClosedCases        int `json:"casosCerrados"`
	ClosedCasesPercent int `json:"casosCerradosPercent"`
}

// ProfessionalCount is the compact per-professional series used by the
// overview chart.
type ProfessionalCount struct {
	ProfessionalID uuid.UUID `json:"profesionalId"`
	Name           string    `json:"nombre"`
	Cases          int       `json:"casos"`
	Sessions       int       `json:"sesiones"`
}

// ProfessionalRow is the full per-professional detail table.
type ProfessionalRow struct {
	ProfessionalID  uuid.UUID `json:"profesionalId"`
	Name            string    `json:"nombre"`
	Workers         int       `json:"trabajadores"`
	Cases           int       `json:"casos"`
	Sessions        int       `json:"sesiones"`
	Virtual         int       `json:"virtual"`
	InPerson        int       `json:"presencial"`
	VirtualPercent  int       `json:"virtualPercent"`
	InPersonPercent int       `json:"presencialPercent"`
	OpenCases       int       `json:"casosAbiertos"`
	ClosedCases     int       `json:"casosCerrados"`
	AvgSessions     float64   `json:"promedioSesiones"`
}

type Modality struct {
	Virtual  int `json:"virtual"`
	InPerson int `json:"presencial"`
}

type ReasonCount struct {
	Reason string `json:"motivo"`
	Cases  int    `json:"casos"`
}

type StatusDistribution struct {
	Open   int `json:"abiertos"`
	Closed int `json:"cerrados"`
}

type MonthCount struct {
	Month    string `json:"mes"`
	Sessions int    `json:"sesiones"`
}

type SiteCount struct {
	Site    string `json:"sede"`
	Workers int    `json:"trabajadores"`
}

type CompanyCount struct {
	Company string `json:"empresa"`
	Workers int    `json:"trabajadores"`
}

type Quality struct {
	// AvgCaseDays is the mean span in days between a case's first session and
	// the worker's closure date, over closure-dated cases only.
	AvgCaseDays             int     `json:"tiempoPromedio"`
	AvgSessionsPerCase      float64 `json:"sesionesPromedio"`
	EmergencyContactPercent int     `json:"contactoEmergenciaPercent"`
	StaleOpenCases          int     `json:"casosSinSeguimiento"`
}

// SVEStats is the surveillance-track dashboard document.
type SVEStats struct {
	Summary   SVESummary       `json:"summary"`
	Modality  Modality         `json:"modalidad"`
	Criteria  []CriterionShare `json:"criterios"`
	Evolution []SVEMonthCount  `json:"evolucion"`
}

type SVESummary struct {
	TotalCases         int     `json:"totalCasos"`
	NewCases30d        int     `json:"casosNuevos"`
	TotalSessions      int     `json:"totalSesiones"`
	OpenCases          int     `json:"casosAbiertos"`
	ClosedCases        int     `json:"casosCerrados"`
	AvgSessionsPerCase float64 `json:"sesionesPromedio"`
	ClosureRate        int     `json:"tasaCierre"`
}

type CriterionShare struct {
	Criterion string `json:"criterio"`
	Cases     int    `json:"casos"`
	Percent   int    `json:"percent"`
}

type SVEMonthCount struct {
	Month    string `json:"mes"`
	Virtual  int    `json:"virtual"`
	InPerson int    `json:"presencial"`
}

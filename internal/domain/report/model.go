package report

import (
	"time"

	"github.com/google/uuid"
)

// CaseReport is the printable document for one case: worker header plus the
// chronological session history.
type CaseReport struct {
	WorkerID      uuid.UUID      `json:"worker_id"`
	WorkerName    string         `json:"nombre"`
	Cedula        string         `json:"cedula"`
	Site          string         `json:"sede"`
	Company       string         `json:"empresa,omitempty"`
	Reason        string         `json:"motivo"`
	Status        string         `json:"estado"`
	OpenedAt      time.Time      `json:"fecha_apertura"`
	ClosedAt      *time.Time     `json:"fecha_cierre,omitempty"`
	TotalSessions int            `json:"total_sesiones"`
	Sessions      []SessionEntry `json:"sesiones"`
	GeneratedAt   time.Time      `json:"generado"`
}

type SessionEntry struct {
	Date     time.Time `json:"fecha"`
	Modality string    `json:"modalidad"`
	Status   string    `json:"estado"`
	Notes    *string   `json:"notas,omitempty"`
}

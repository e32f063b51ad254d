package sve

import (
	"time"

	"github.com/google/uuid"
)

// WorkTable ("mesa de trabajo") is the inclusion record that opens a
// worker's epidemiological-surveillance track. Exactly one per worker, and
// it must exist before any SVE session is recorded.
type WorkTable struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	WorkerID           uuid.UUID `db:"worker_id" json:"worker_id"`
	InclusionCriterion string    `db:"inclusion_criterion" json:"criterio_inclusion"`
	Diagnosis          string    `db:"diagnosis" json:"diagnostico"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

const (
	ModalityVirtual  = "Virtual"
	ModalityInPerson = "Presencial"
)

func ValidModality(m string) bool {
	return m == ModalityVirtual || m == ModalityInPerson
}

// Consultation is one surveillance-track session.
type Consultation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	WorkerID  uuid.UUID `db:"worker_id" json:"worker_id"`
	Date      time.Time `db:"date" json:"fecha"`
	Modality  string    `db:"modality" json:"modalidad"`
	Notes     *string   `db:"notes" json:"notas,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

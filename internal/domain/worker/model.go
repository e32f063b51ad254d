package worker

import (
	"time"

	"github.com/google/uuid"
)

// Worker is a person receiving services ("trabajador"). ProfessionalID is the
// account that registered the worker and is the row-level visibility key:
// professionals see their own workers, admins see everyone.
type Worker struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	Cedula                string     `db:"cedula" json:"cedula"`
	Name                  string     `db:"name" json:"name"`
	Site                  string     `db:"site" json:"sede"`
	CompanyID             *uuid.UUID `db:"company_id" json:"company_id,omitempty"`
	SubcontractorID       *uuid.UUID `db:"subcontractor_id" json:"subcontractor_id,omitempty"`
	EmergencyContactName  *string    `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string    `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	ClosureDate           *time.Time `db:"closure_date" json:"closure_date,omitempty"`
	ProfessionalID        uuid.UUID  `db:"professional_id" json:"professional_id"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// Closed reports whether the worker's case has been resolved.
func (w *Worker) Closed() bool {
	return w.ClosureDate != nil
}

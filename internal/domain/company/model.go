package company

import (
	"time"

	"github.com/google/uuid"
)

// Company is a payer/affiliation entity. Subcontractors are ordinary
// Company rows referenced from a worker's subcontractor field.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TaxID     *string   `db:"tax_id" json:"tax_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

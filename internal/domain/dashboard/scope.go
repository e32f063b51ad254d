package dashboard

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bienestar/bienestar/internal/platform/auth"
)

// Scope is the row-level visibility filter threaded into every sub-query.
// A nil ProfessionalID means unscoped (admin viewing everything).
type Scope struct {
	ProfessionalID *uuid.UUID
}

// ResolveScope enforces row-level visibility once per request. Non-admin
// callers are always pinned to their own identifier; the requested value is
// never trusted for them. Admins may request a specific professional or
// "all"/empty for no filter.
func ResolveScope(role string, callerID uuid.UUID, requested string) (Scope, error) {
	if role != auth.RoleAdmin {
		id := callerID
		return Scope{ProfessionalID: &id}, nil
	}
	if requested == "" || requested == "all" {
		return Scope{}, nil
	}
	pid, err := uuid.Parse(requested)
	if err != nil {
		return Scope{}, fmt.Errorf("invalid profesionalId")
	}
	return Scope{ProfessionalID: &pid}, nil
}

// Filter is the combined reporting window and scope applied to the
// aggregation sub-queries.
type Filter struct {
	Range DateRange
	Scope Scope
}

package consultation

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Session modality and status values. These are fixed Spanish-language
// vocabulary shared with the frontend and the database.
const (
	ModalityVirtual  = "Virtual"
	ModalityInPerson = "Presencial"

	StatusOpen   = "Abierto"
	StatusClosed = "Cerrado"
)

// Consultation is one psychosocial orientation session. The pair
// (WorkerID, Reason) is the logical case key: sessions sharing it belong to
// the same case.
type Consultation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	WorkerID  uuid.UUID `db:"worker_id" json:"worker_id"`
	Date      time.Time `db:"date" json:"fecha"`
	Modality  string    `db:"modality" json:"modalidad"`
	Reason    string    `db:"reason" json:"motivo"`
	Status    string    `db:"status" json:"estado"`
	Notes     *string   `db:"notes" json:"notas,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CaseKey identifies a logical case.
type CaseKey struct {
	WorkerID uuid.UUID `json:"worker_id"`
	Reason   string    `json:"motivo"`
}

// Case is the derived read-model over a group of sessions sharing a case key.
// A case is Cerrado when at least one of its sessions is Cerrado; sessions
// are not forced to agree on status, so this is deliberately not
// "all sessions closed".
type Case struct {
	CaseKey
	SessionCount int       `json:"sesiones"`
	Status       string    `json:"estado"`
	FirstSession time.Time `json:"primera_sesion"`
	LastSession  time.Time `json:"ultima_sesion"`
}

// GroupCases derives the case read-model from a slice of sessions. The
// result is ordered deterministically by worker id then reason.
func GroupCases(sessions []*Consultation) []Case {
	byKey := make(map[CaseKey]*Case)
	for _, s := range sessions {
		key := CaseKey{WorkerID: s.WorkerID, Reason: s.Reason}
		cs, ok := byKey[key]
		if !ok {
			cs = &Case{
				CaseKey:      key,
				Status:       StatusOpen,
				FirstSession: s.Date,
				LastSession:  s.Date,
			}
			byKey[key] = cs
		}
		cs.SessionCount++
		if s.Date.Before(cs.FirstSession) {
			cs.FirstSession = s.Date
		}
		if s.Date.After(cs.LastSession) {
			cs.LastSession = s.Date
		}
		if s.Status == StatusClosed {
			cs.Status = StatusClosed
		}
	}

	cases := make([]Case, 0, len(byKey))
	for _, cs := range byKey {
		cases = append(cases, *cs)
	}
	sort.Slice(cases, func(i, j int) bool {
		if cases[i].WorkerID != cases[j].WorkerID {
			return cases[i].WorkerID.String() < cases[j].WorkerID.String()
		}
		return cases[i].Reason < cases[j].Reason
	})
	return cases
}

// ValidModality reports whether m is a known session modality.
func ValidModality(m string) bool {
	return m == ModalityVirtual || m == ModalityInPerson
}

// ValidStatus reports whether s is a known session status.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusClosed
}

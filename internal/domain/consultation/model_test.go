package consultation

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupCases(t *testing.T) {
	w1 := uuid.New()
	w2 := uuid.New()

	sessions := []*Consultation{
		{WorkerID: w1, Reason: "Estrés laboral", Status: StatusOpen, Date: day(3)},
		{WorkerID: w1, Reason: "Estrés laboral", Status: StatusOpen, Date: day(1)},
		{WorkerID: w1, Reason: "Duelo", Status: StatusClosed, Date: day(5)},
		{WorkerID: w2, Reason: "Estrés laboral", Status: StatusOpen, Date: day(2)},
	}

	cases := GroupCases(sessions)
	if len(cases) != 3 {
		t.Fatalf("got %d cases, want 3", len(cases))
	}

	byKey := make(map[CaseKey]Case)
	for _, cs := range cases {
		byKey[cs.CaseKey] = cs
	}

	stress := byKey[CaseKey{WorkerID: w1, Reason: "Estrés laboral"}]
	if stress.SessionCount != 2 {
		t.Errorf("stress case sessions = %d, want 2", stress.SessionCount)
	}
	if stress.Status != StatusOpen {
		t.Errorf("stress case status = %s, want Abierto", stress.Status)
	}
	if !stress.FirstSession.Equal(day(1)) || !stress.LastSession.Equal(day(3)) {
		t.Errorf("stress case range = %v..%v, want day 1..3", stress.FirstSession, stress.LastSession)
	}

	grief := byKey[CaseKey{WorkerID: w1, Reason: "Duelo"}]
	if grief.Status != StatusClosed {
		t.Errorf("grief case status = %s, want Cerrado", grief.Status)
	}
}

// One closed session marks the whole case closed even when later sessions
// were recorded as open. This mirrors how the dashboard counts cases.
func TestGroupCasesAnyClosedWins(t *testing.T) {
	w := uuid.New()
	sessions := []*Consultation{
		{WorkerID: w, Reason: "Ansiedad", Status: StatusClosed, Date: day(1)},
		{WorkerID: w, Reason: "Ansiedad", Status: StatusOpen, Date: day(8)},
	}

	cases := GroupCases(sessions)
	if len(cases) != 1 {
		t.Fatalf("got %d cases, want 1", len(cases))
	}
	if cases[0].Status != StatusClosed {
		t.Errorf("status = %s, want Cerrado", cases[0].Status)
	}
}

func TestGroupCasesEmpty(t *testing.T) {
	if got := GroupCases(nil); len(got) != 0 {
		t.Errorf("GroupCases(nil) = %v, want empty", got)
	}
}

func TestGroupCasesDeterministicOrder(t *testing.T) {
	w1 := uuid.New()
	w2 := uuid.New()
	sessions := []*Consultation{
		{WorkerID: w2, Reason: "B", Status: StatusOpen, Date: day(1)},
		{WorkerID: w1, Reason: "Z", Status: StatusOpen, Date: day(1)},
		{WorkerID: w1, Reason: "A", Status: StatusOpen, Date: day(1)},
	}

	first := GroupCases(sessions)
	for i := 0; i < 10; i++ {
		again := GroupCases(sessions)
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("order not deterministic at index %d", j)
			}
		}
	}
}

func TestValidators(t *testing.T) {
	if !ValidModality(ModalityVirtual) || !ValidModality(ModalityInPerson) {
		t.Error("known modalities rejected")
	}
	if ValidModality("Telefónica") {
		t.Error("unknown modality accepted")
	}
	if !ValidStatus(StatusOpen) || !ValidStatus(StatusClosed) {
		t.Error("known statuses rejected")
	}
	if ValidStatus("Pendiente") {
		t.Error("unknown status accepted")
	}
}

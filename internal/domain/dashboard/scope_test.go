package dashboard

import (
	"testing"

	"github.com/google/uuid"

	"github.com/bienestar/bienestar/internal/platform/auth"
)

func TestResolveScopeNonAdminPinned(t *testing.T) {
	caller := uuid.New()
	other := uuid.New()

	// A professional is pinned to their own id no matter what they request.
	for _, requested := range []string{"", "all", other.String(), "garbage"} {
		scope, err := ResolveScope(auth.RoleProfessional, caller, requested)
		if err != nil {
			t.Fatalf("requested=%q: %v", requested, err)
		}
		if scope.ProfessionalID == nil || *scope.ProfessionalID != caller {
			t.Fatalf("requested=%q: scope = %v, want caller id", requested, scope.ProfessionalID)
		}
	}
}

func TestResolveScopeAdmin(t *testing.T) {
	caller := uuid.New()
	other := uuid.New()

	for _, requested := range []string{"", "all"} {
		scope, err := ResolveScope(auth.RoleAdmin, caller, requested)
		if err != nil {
			t.Fatalf("requested=%q: %v", requested, err)
		}
		if scope.ProfessionalID != nil {
			t.Fatalf("requested=%q: admin should be unscoped", requested)
		}
	}

	scope, err := ResolveScope(auth.RoleAdmin, caller, other.String())
	if err != nil {
		t.Fatal(err)
	}
	if scope.ProfessionalID == nil || *scope.ProfessionalID != other {
		t.Fatal("admin should be able to scope to another professional")
	}

	if _, err := ResolveScope(auth.RoleAdmin, caller, "not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed profesionalId")
	}
}

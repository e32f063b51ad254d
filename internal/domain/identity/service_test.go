package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bienestar/bienestar/internal/platform/auth"
)

// -- Mock Repository --

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if u, ok := m.users[id]; ok {
		u.Active = active
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListActiveProfessionals(_ context.Context) ([]*User, error) {
	var result []*User
	for _, u := range m.users {
		if u.Active && u.Role == auth.RoleProfessional {
			result = append(result, u)
		}
	}
	return result, nil
}

// -- Tests --

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		user    User
		pass    string
		wantErr bool
	}{
		{"valid professional", User{Email: "ana@acme.co", Name: "Ana"}, "long-password", false},
		{"valid admin", User{Email: "root@acme.co", Name: "Root", Role: auth.RoleAdmin}, "long-password", false},
		{"missing email", User{Name: "Ana"}, "long-password", true},
		{"bad email", User{Email: "nope", Name: "Ana"}, "long-password", true},
		{"missing name", User{Email: "ana@acme.co"}, "long-password", true},
		{"unknown role", User{Email: "ana@acme.co", Name: "Ana", Role: "root"}, "long-password", true},
		{"short password", User{Email: "ana@acme.co", Name: "Ana"}, "short", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := svc.CreateUser(ctx, &u, tt.pass)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateUser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && u.Role == "" {
				t.Error("role not defaulted")
			}
			if err == nil && !u.Active {
				t.Error("new users should be active")
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u := &User{Email: "laura@acme.co", Name: "Laura"}
	if err := svc.CreateUser(ctx, u, "s3cret-enough"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := svc.Authenticate(ctx, "laura@acme.co", "s3cret-enough")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Error("authenticated wrong user")
	}

	if _, err := svc.Authenticate(ctx, "laura@acme.co", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("bad password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@acme.co", "whatever"); err != ErrInvalidCredentials {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "laura@acme.co", "s3cret-enough"); err != ErrInvalidCredentials {
		t.Errorf("inactive account: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	u := &User{Email: "p@acme.co", Name: "P"}
	if err := svc.CreateUser(ctx, u, "original-pass"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "new-password"); err != ErrInvalidCredentials {
		t.Errorf("wrong current: err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "original-pass", "new-password"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "p@acme.co", "new-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

package company

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	companies map[uuid.UUID]*Company
}

func newMockRepo() *mockRepo {
	return &mockRepo{companies: make(map[uuid.UUID]*Company)}
}

func (m *mockRepo) Create(_ context.Context, co *Company) error {
	co.ID = uuid.New()
	co.CreatedAt = time.Now()
	co.UpdatedAt = time.Now()
	m.companies[co.ID] = co
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Company, error) {
	co, ok := m.companies[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return co, nil
}

func (m *mockRepo) Update(_ context.Context, co *Company) error {
	if _, ok := m.companies[co.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.companies[co.ID] = co
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.companies, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Company, int, error) {
	var result []*Company
	for _, co := range m.companies {
		result = append(result, co)
	}
	return result, len(result), nil
}

func TestCreateCompanyValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		co      Company
		wantErr bool
	}{
		{"valid", Company{Name: "Acme SAS"}, false},
		{"empty name", Company{}, true},
		{"blank name", Company{Name: "   "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co := tt.co
			err := svc.CreateCompany(ctx, &co)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("CreateCompany: %v", err)
			}
		})
	}
}

func TestCompanyNameTrimmed(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	co := Company{Name: "  Acme SAS  "}
	if err := svc.CreateCompany(ctx, &co); err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	if co.Name != "Acme SAS" {
		t.Errorf("name = %q, want trimmed", co.Name)
	}

	got, err := svc.GetCompany(ctx, co.ID)
	if err != nil {
		t.Fatalf("GetCompany: %v", err)
	}
	if got.Name != "Acme SAS" {
		t.Errorf("stored name = %q, want Acme SAS", got.Name)
	}
}

func TestUpdateCompanyValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	co := Company{Name: "Acme SAS"}
	if err := svc.CreateCompany(ctx, &co); err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	co.Name = " "
	if err := svc.UpdateCompany(ctx, &co); err == nil {
		t.Error("expected error for blank name")
	}

	co.Name = "Acme Holdings SAS"
	if err := svc.UpdateCompany(ctx, &co); err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	got, err := svc.GetCompany(ctx, co.ID)
	if err != nil {
		t.Fatalf("GetCompany: %v", err)
	}
	if got.Name != "Acme Holdings SAS" {
		t.Errorf("name = %q after update", got.Name)
	}
}

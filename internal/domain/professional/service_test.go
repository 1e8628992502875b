package professional

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	professionals map[uuid.UUID]*Professional
}

func newMockRepo() *mockRepo {
	return &mockRepo{professionals: make(map[uuid.UUID]*Professional)}
}

func (m *mockRepo) Create(_ context.Context, p *Professional) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.professionals[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Professional, error) {
	p, ok := m.professionals[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) GetByLogin(_ context.Context, login string) (*Professional, error) {
	for _, p := range m.professionals {
		if p.Login == login {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, p *Professional) error {
	m.professionals[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.professionals, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Professional, int, error) {
	var result []*Professional
	for _, p := range m.professionals {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByClinic(_ context.Context, clinicID int64, limit, offset int) ([]*Professional, int, error) {
	var result []*Professional
	for _, p := range m.professionals {
		if p.ClinicaID != nil && *p.ClinicaID == clinicID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func TestCreateProfessionalHashesSenha(t *testing.T) {
	svc := NewService(newMockRepo())

	p, err := svc.CreateProfessional(context.Background(), CreateInput{
		Nome:  "Ana Souza",
		Login: "ana.souza",
		Senha: "1234",
	})
	if err != nil {
		t.Fatalf("CreateProfessional: %v", err)
	}
	if p.SenhaHash == "1234" || p.SenhaHash == "" {
		t.Error("senha must be stored hashed")
	}
	if p.Role != "professional" {
		t.Errorf("default role = %q, want professional", p.Role)
	}
}

func TestCreateProfessionalValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	cases := []CreateInput{
		{Login: "x", Senha: "1234"},               // missing nome
		{Nome: "X", Senha: "1234"},                // missing login
		{Nome: "X", Login: "x", Senha: "12"},      // senha too short
		{Nome: "X", Login: "x", Senha: "1234", Role: "root"}, // bad role
	}
	for i, in := range cases {
		if _, err := svc.CreateProfessional(ctx, in); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestCreateProfessionalDuplicateLogin(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	in := CreateInput{Nome: "Ana", Login: "ana", Senha: "1234"}
	if _, err := svc.CreateProfessional(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateProfessional(ctx, in); err == nil {
		t.Error("expected error for duplicate login")
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	created, err := svc.CreateProfessional(ctx, CreateInput{Nome: "Ana", Login: "ana", Senha: "segredo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := svc.Authenticate(ctx, "ana", "segredo")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if p.ID != created.ID {
		t.Error("authenticated as a different professional")
	}

	if _, err := svc.Authenticate(ctx, "ana", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong senha: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "ninguem", "segredo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown login: got %v, want ErrInvalidCredentials", err)
	}
}

package professional

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/albusdente/materiais/internal/platform/auth"
)

// ErrInvalidCredentials is returned for unknown logins and wrong codes alike,
// so the response does not reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProfessional(ctx context.Context, in CreateInput) (*Professional, error) {
	if in.Nome == "" {
		return nil, fmt.Errorf("nome is required")
	}
	if in.Login == "" {
		return nil, fmt.Errorf("login is required")
	}
	if len(in.Senha) < 4 {
		return nil, fmt.Errorf("senha must be at least 4 characters")
	}
	role := in.Role
	if role == "" {
		role = auth.RoleProfessional
	}
	if role != auth.RoleAdmin && role != auth.RoleProfessional {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	if _, err := s.repo.GetByLogin(ctx, in.Login); err == nil {
		return nil, fmt.Errorf("login already in use: %s", in.Login)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing senha: %w", err)
	}

	p := &Professional{
		Nome:      in.Nome,
		Funcao:    in.Funcao,
		Email:     in.Email,
		Login:     in.Login,
		SenhaHash: string(hash),
		ClinicaID: in.ClinicaID,
		Role:      role,
	}
	if in.Telefone != "" {
		p.Telefone = &in.Telefone
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Authenticate verifies a login/code pair and returns the professional.
func (s *Service) Authenticate(ctx context.Context, login, senha string) (*Professional, error) {
	p, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.SenhaHash), []byte(senha)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListProfessionals(ctx context.Context, limit, offset int) ([]*Professional, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByClinic(ctx context.Context, clinicID int64, limit, offset int) ([]*Professional, int, error) {
	return s.repo.ListByClinic(ctx, clinicID, limit, offset)
}

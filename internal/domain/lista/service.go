package lista

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albusdente/materiais/internal/domain/material"
	"github.com/albusdente/materiais/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("lista not found")
	ErrAlreadyFilled = errors.New("lista already filled")
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Catalog is the slice of the material repository the fill operation needs.
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*material.Material, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
	tx      func(ctx context.Context, fn func(context.Context) error) error
}

// NewService wires the list service. pool may be nil in tests, in which case
// transactional operations run directly against the repository.
func NewService(repo Repository, catalog Catalog, pool *pgxpool.Pool) *Service {
	s := &Service{repo: repo, catalog: catalog}
	if pool != nil {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error {
			return db.WithTransaction(ctx, pool, fn)
		}
	} else {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}
	}
	return s
}

// CreateMonthly opens one empty list per clinic-bound professional for the
// month. Safe to re-run; existing (professional, month) pairs are skipped.
func (s *Service) CreateMonthly(ctx context.Context, month string) (int, error) {
	if !monthPattern.MatchString(month) {
		return 0, fmt.Errorf("month must be YYYY-MM, got %q", month)
	}
	return s.repo.CreateMonthly(ctx, month)
}

// Fill submits a professional's request lines for a list. Prices are
// snapshotted from the catalog at this moment; the list's total is derived by
// reducing the full line set. Items and the status change land in one
// transaction.
func (s *Service) Fill(ctx context.Context, listaID uuid.UUID, fillItems []FillItem) (*Lista, error) {
	l, err := s.repo.GetByID(ctx, listaID)
	if err != nil {
		return nil, ErrNotFound
	}
	if l.Status != StatusNotFilled {
		return nil, fmt.Errorf("%w: lista %s is %s", ErrAlreadyFilled, listaID, l.Status)
	}
	if len(fillItems) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	agg := NewAggregator()
	items := make([]*Item, 0, len(fillItems))
	for i, fi := range fillItems {
		if fi.MaterialID == uuid.Nil {
			return nil, fmt.Errorf("item %d: material_id is required", i)
		}
		mat, err := s.catalog.GetByID(ctx, fi.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("item %d: material %s not found", i, fi.MaterialID)
		}
		// Slot keys are positional so the same material may appear twice.
		if err := agg.UpsertItem(fmt.Sprintf("%d:%s", i, fi.MaterialID), mat.Preco, fi.Quantidade, ""); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		it := &Item{
			ListaID:    listaID,
			MaterialID: fi.MaterialID,
			Quantidade: fi.Quantidade,
			Preco:      mat.Preco,
		}
		if fi.Observacoes != "" {
			obs := fi.Observacoes
			it.Observacoes = &obs
		}
		items = append(items, it)
	}
	total := agg.Total()

	err = s.tx(ctx, func(txCtx context.Context) error {
		if err := s.repo.InsertItems(txCtx, items); err != nil {
			return fmt.Errorf("inserting items: %w", err)
		}
		if err := s.repo.MarkFilled(txCtx, listaID, total); err != nil {
			return fmt.Errorf("marking filled: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, listaID)
}

func (s *Service) GetLista(ctx context.Context, id uuid.UUID) (*ListaDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) SearchListas(ctx context.Context, params SearchParams, limit, offset int) ([]*ListaDetail, int, error) {
	if params.Status != "" &&
		params.Status != StatusNotFilled && params.Status != StatusFilled && params.Status != StatusDelivered {
		return nil, 0, fmt.Errorf("invalid status: %s", params.Status)
	}
	if params.Month != "" && !monthPattern.MatchString(params.Month) {
		return nil, 0, fmt.Errorf("month must be YYYY-MM, got %q", params.Month)
	}
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) ListItems(ctx context.Context, listaID uuid.UUID) ([]*ItemDetail, error) {
	if _, err := s.repo.GetByID(ctx, listaID); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListItems(ctx, listaID)
}

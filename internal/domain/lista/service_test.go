package lista

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/albusdente/materiais/internal/domain/material"
)

type mockRepo struct {
	listas map[uuid.UUID]*Lista
	items  map[uuid.UUID][]*Item

	failMarkFilled bool
	insertedItems  int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		listas: make(map[uuid.UUID]*Lista),
		items:  make(map[uuid.UUID][]*Item),
	}
}

func (m *mockRepo) seedLista(status string) *Lista {
	l := &Lista{
		ID:             uuid.New(),
		ProfissionalID: uuid.New(),
		ClinicaID:      1,
		Month:          "2025-06",
		Status:         status,
		CreatedAt:      time.Now(),
	}
	m.listas[l.ID] = l
	return l
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Lista, error) {
	l, ok := m.listas[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return l, nil
}

func (m *mockRepo) GetDetail(_ context.Context, id uuid.UUID) (*ListaDetail, error) {
	l, err := m.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return &ListaDetail{Lista: *l, ProfissionalNome: "Ana", Sindicato: "Sindicato A"}, nil
}

func (m *mockRepo) Search(_ context.Context, params SearchParams, limit, offset int) ([]*ListaDetail, int, error) {
	var result []*ListaDetail
	for _, l := range m.listas {
		if params.Status != "" && l.Status != params.Status {
			continue
		}
		if params.Month != "" && l.Month != params.Month {
			continue
		}
		if params.ProfissionalID != uuid.Nil && l.ProfissionalID != params.ProfissionalID {
			continue
		}
		result = append(result, &ListaDetail{Lista: *l})
	}
	return result, len(result), nil
}

func (m *mockRepo) CreateMonthly(_ context.Context, month string) (int, error) {
	return 3, nil
}

func (m *mockRepo) InsertItems(_ context.Context, items []*Item) error {
	for _, it := range items {
		it.ID = uuid.New()
		m.items[it.ListaID] = append(m.items[it.ListaID], it)
		m.insertedItems++
	}
	return nil
}

func (m *mockRepo) MarkFilled(_ context.Context, id uuid.UUID, precoTotal int64) error {
	if m.failMarkFilled {
		return fmt.Errorf("forced failure")
	}
	l, ok := m.listas[id]
	if !ok || l.Status != StatusNotFilled {
		return fmt.Errorf("lista %s not in not_filled state", id)
	}
	now := time.Now()
	l.Status = StatusFilled
	l.PrecoTotal = &precoTotal
	l.FilledAt = &now
	return nil
}

func (m *mockRepo) ListItems(_ context.Context, listaID uuid.UUID) ([]*ItemDetail, error) {
	var result []*ItemDetail
	for _, it := range m.items[listaID] {
		result = append(result, &ItemDetail{Item: *it, MaterialNome: "Material"})
	}
	return result, nil
}

type mockCatalog struct {
	materials map[uuid.UUID]*material.Material
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{materials: make(map[uuid.UUID]*material.Material)}
}

func (m *mockCatalog) seed(preco int64) uuid.UUID {
	mat := &material.Material{ID: uuid.New(), Name: "Material", Preco: preco}
	m.materials[mat.ID] = mat
	return mat.ID
}

func (m *mockCatalog) GetByID(_ context.Context, id uuid.UUID) (*material.Material, error) {
	mat, ok := m.materials[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return mat, nil
}

func TestFillComputesSnapshotTotal(t *testing.T) {
	repo := newMockRepo()
	catalog := newMockCatalog()
	svc := NewService(repo, catalog, nil)
	ctx := context.Background()

	l := repo.seedLista(StatusNotFilled)
	matA := catalog.seed(1500)
	matB := catalog.seed(999)

	filled, err := svc.Fill(ctx, l.ID, []FillItem{
		{MaterialID: matA, Quantidade: 2},
		{MaterialID: matB, Quantidade: 1},
	})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if filled.Status != StatusFilled {
		t.Errorf("status = %s, want filled", filled.Status)
	}
	if filled.PrecoTotal == nil || *filled.PrecoTotal != 3999 {
		t.Errorf("preco_total = %v, want 3999", filled.PrecoTotal)
	}
	if filled.FilledAt == nil {
		t.Error("expected filled_at to be set")
	}

	// Snapshot: catalog price changes after fill must not matter.
	catalog.materials[matA].Preco = 9999
	items, _ := svc.ListItems(ctx, l.ID)
	for _, it := range items {
		if it.MaterialID == matA && it.Preco != 1500 {
			t.Errorf("snapshotted preco = %d, want 1500", it.Preco)
		}
	}
}

func TestFillRejectsWrongState(t *testing.T) {
	repo := newMockRepo()
	catalog := newMockCatalog()
	svc := NewService(repo, catalog, nil)
	ctx := context.Background()

	matID := catalog.seed(100)

	for _, status := range []string{StatusFilled, StatusDelivered} {
		l := repo.seedLista(status)
		_, err := svc.Fill(ctx, l.ID, []FillItem{{MaterialID: matID, Quantidade: 1}})
		if !errors.Is(err, ErrAlreadyFilled) {
			t.Errorf("status %s: got %v, want ErrAlreadyFilled", status, err)
		}
	}
}

func TestFillUnknownLista(t *testing.T) {
	svc := NewService(newMockRepo(), newMockCatalog(), nil)
	_, err := svc.Fill(context.Background(), uuid.New(), []FillItem{{MaterialID: uuid.New(), Quantidade: 1}})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestFillValidation(t *testing.T) {
	repo := newMockRepo()
	catalog := newMockCatalog()
	svc := NewService(repo, catalog, nil)
	ctx := context.Background()

	l := repo.seedLista(StatusNotFilled)
	matID := catalog.seed(100)

	if _, err := svc.Fill(ctx, l.ID, nil); err == nil {
		t.Error("expected error for empty items")
	}
	if _, err := svc.Fill(ctx, l.ID, []FillItem{{MaterialID: matID, Quantidade: 0}}); err == nil {
		t.Error("expected error for qty 0")
	}
	if _, err := svc.Fill(ctx, l.ID, []FillItem{{MaterialID: uuid.New(), Quantidade: 1}}); err == nil {
		t.Error("expected error for unknown material")
	}
	if l.Status != StatusNotFilled {
		t.Errorf("failed fills must not change status, got %s", l.Status)
	}
}

func TestFillSameMaterialTwoLines(t *testing.T) {
	repo := newMockRepo()
	catalog := newMockCatalog()
	svc := NewService(repo, catalog, nil)

	l := repo.seedLista(StatusNotFilled)
	matID := catalog.seed(700)

	filled, err := svc.Fill(context.Background(), l.ID, []FillItem{
		{MaterialID: matID, Quantidade: 1},
		{MaterialID: matID, Quantidade: 2},
	})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if filled.PrecoTotal == nil || *filled.PrecoTotal != 2100 {
		t.Errorf("preco_total = %v, want 2100 (both lines count)", filled.PrecoTotal)
	}
	if repo.insertedItems != 2 {
		t.Errorf("inserted %d items, want 2", repo.insertedItems)
	}
}

func TestFillMarkFilledFailureSurfaces(t *testing.T) {
	repo := newMockRepo()
	repo.failMarkFilled = true
	catalog := newMockCatalog()
	svc := NewService(repo, catalog, nil)

	l := repo.seedLista(StatusNotFilled)
	matID := catalog.seed(100)

	_, err := svc.Fill(context.Background(), l.ID, []FillItem{{MaterialID: matID, Quantidade: 1}})
	if err == nil {
		t.Fatal("expected error when status update fails")
	}
	if l.Status != StatusNotFilled {
		t.Errorf("status = %s, want not_filled", l.Status)
	}
}

func TestCreateMonthlyValidatesMonth(t *testing.T) {
	svc := NewService(newMockRepo(), newMockCatalog(), nil)
	ctx := context.Background()

	for _, bad := range []string{"", "2025", "2025-13", "junho", "2025-6"} {
		if _, err := svc.CreateMonthly(ctx, bad); err == nil {
			t.Errorf("month %q: expected error", bad)
		}
	}

	n, err := svc.CreateMonthly(ctx, "2025-06")
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}
	if n != 3 {
		t.Errorf("created = %d, want 3", n)
	}
}

func TestSearchListasValidation(t *testing.T) {
	svc := NewService(newMockRepo(), newMockCatalog(), nil)
	ctx := context.Background()

	if _, _, err := svc.SearchListas(ctx, SearchParams{Status: "bogus"}, 20, 0); err == nil {
		t.Error("expected error for invalid status")
	}
	if _, _, err := svc.SearchListas(ctx, SearchParams{Month: "2025-99"}, 20, 0); err == nil {
		t.Error("expected error for invalid month")
	}
}

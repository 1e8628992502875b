package lista

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Lista, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*ListaDetail, error)
	Search(ctx context.Context, params SearchParams, limit, offset int) ([]*ListaDetail, int, error)

	// CreateMonthly inserts one not_filled list per professional with a
	// clinic for the given month, skipping (professional, month) pairs that
	// already exist. Returns the number of lists created.
	CreateMonthly(ctx context.Context, month string) (int, error)

	// InsertItems writes the fill lines. Run inside the fill transaction.
	InsertItems(ctx context.Context, items []*Item) error

	// MarkFilled moves a not_filled list to filled with its computed total.
	MarkFilled(ctx context.Context, id uuid.UUID, precoTotal int64) error

	ListItems(ctx context.Context, listaID uuid.UUID) ([]*ItemDetail, error)
}

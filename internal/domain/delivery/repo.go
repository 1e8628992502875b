package delivery

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Lista state, read for validation before confirming.
	GetListaStatus(ctx context.Context, listaID uuid.UUID) (string, error)
	ListFilledByClinic(ctx context.Context, clinicID int64) ([]uuid.UUID, error)

	InsertConfirmation(ctx context.Context, c *Confirmation) error
	InsertClinicConfirmation(ctx context.Context, c *ClinicConfirmation) error

	// MarkDelivered transitions one filled list to delivered, recording the
	// confirmation reference. Fails when the list is not filled.
	MarkDelivered(ctx context.Context, listaID, confirmationID uuid.UUID) error

	// MarkDeliveredBatch transitions the given filled lists to delivered and
	// returns how many rows changed.
	MarkDeliveredBatch(ctx context.Context, listaIDs []uuid.UUID) (int, error)

	// FlagMissingItems records the reporter and timestamp on the given line
	// items. Returns the number of items actually flagged.
	FlagMissingItems(ctx context.Context, itemIDs []uuid.UUID, reportedBy uuid.UUID) (int, error)

	ListConfirmations(ctx context.Context, limit, offset int) ([]*Confirmation, int, error)
	ListClinicConfirmations(ctx context.Context, limit, offset int) ([]*ClinicConfirmation, int, error)
}

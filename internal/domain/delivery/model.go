package delivery

import (
	"time"

	"github.com/google/uuid"
)

// Confirmation maps to delivery_confirmations: evidence that one list was
// handed over.
type Confirmation struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ListaID      uuid.UUID `db:"lista_id" json:"lista_id"`
	PhotoURL     string    `db:"photo_url" json:"photo_url"`
	Observations *string   `db:"observations" json:"observations,omitempty"`
	ConfirmedBy  uuid.UUID `db:"confirmed_by" json:"confirmed_by"`
	ConfirmedAt  time.Time `db:"confirmed_at" json:"confirmed_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ClinicConfirmation maps to clinic_delivery_confirmations: one evidence
// record covering every filled list of a clinic at handoff time.
type ClinicConfirmation struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	ClinicaID    int64       `db:"clinica_id" json:"clinica_id"`
	PhotoURL     string      `db:"photo_url" json:"photo_url"`
	SignatureURL *string     `db:"signature_url" json:"signature_url,omitempty"`
	Observations *string     `db:"observations" json:"observations,omitempty"`
	MissingItems []uuid.UUID `db:"missing_items" json:"missing_items,omitempty"`
	ConfirmedBy  uuid.UUID   `db:"confirmed_by" json:"confirmed_by"`
	ConfirmedAt  time.Time   `db:"confirmed_at" json:"confirmed_at"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// ConfirmListInput is the payload for a single-list confirmation.
type ConfirmListInput struct {
	ListaID      uuid.UUID `json:"lista_id"`
	PhotoURL     string    `json:"photo_url"`
	Observations string    `json:"observations"`
}

// ConfirmClinicInput is the payload for a clinic-wide confirmation.
type ConfirmClinicInput struct {
	ClinicaID    int64       `json:"clinica_id"`
	PhotoURL     string      `json:"photo_url"`
	SignatureURL string      `json:"signature_url"`
	Observations string      `json:"observations"`
	MissingItems []uuid.UUID `json:"missing_items"`
}

// ClinicConfirmResult reports what a clinic-wide confirmation did.
type ClinicConfirmResult struct {
	Confirmation   *ClinicConfirmation `json:"confirmation"`
	ListsDelivered int                 `json:"lists_delivered"`
	ItemsFlagged   int                 `json:"items_flagged"`
}

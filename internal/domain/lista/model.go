package lista

import (
	"time"

	"github.com/google/uuid"
)

// List statuses. A list only moves forward: not_filled → filled → delivered.
const (
	StatusNotFilled = "not_filled"
	StatusFilled    = "filled"
	StatusDelivered = "delivered"
)

// Lista maps to the listas table: one professional's material request for one
// month. PrecoTotal is set at fill time from the snapshotted item prices.
type Lista struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	ProfissionalID         uuid.UUID  `db:"profissional_id" json:"profissional_id"`
	ClinicaID              int64      `db:"clinica_id" json:"clinica_id"`
	Month                  string     `db:"month" json:"month"`
	Descricao              *string    `db:"descricao" json:"descricao,omitempty"`
	Status                 string     `db:"status" json:"status"`
	PrecoTotal             *int64     `db:"preco_total" json:"preco_total,omitempty"`
	FilledAt               *time.Time `db:"filled_at" json:"filled_at,omitempty"`
	DeliveredAt            *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	DeliveryConfirmationID *uuid.UUID `db:"delivery_confirmation_id" json:"delivery_confirmation_id,omitempty"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
}

// ListaDetail joins the professional and clinic names for listings.
type ListaDetail struct {
	Lista
	ProfissionalNome string `db:"profissional_nome" json:"profissional_nome"`
	Sindicato        string `db:"sindicato" json:"sindicato"`
}

// Item maps to the lista_materiais_itens table. Preco is the unit price in
// cents snapshotted from the catalog when the list was filled; catalog edits
// after that never change it. The missing fields are written by clinic-wide
// delivery confirmation when the recipient reports items absent.
type Item struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	ListaID           uuid.UUID  `db:"lista_id" json:"lista_id"`
	MaterialID        uuid.UUID  `db:"material_id" json:"material_id"`
	Quantidade        int        `db:"quantidade" json:"quantidade"`
	Preco             int64      `db:"preco" json:"preco"`
	Observacoes       *string    `db:"observacoes" json:"observacoes,omitempty"`
	Missing           bool       `db:"missing" json:"missing"`
	MissingReportedBy *uuid.UUID `db:"missing_reported_by" json:"missing_reported_by,omitempty"`
	MissingReportedAt *time.Time `db:"missing_reported_at" json:"missing_reported_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// ItemDetail joins the material name for item listings and exports.
type ItemDetail struct {
	Item
	MaterialNome string  `db:"material_nome" json:"material_nome"`
	MaterialTipo *string `db:"material_tipo" json:"material_tipo,omitempty"`
}

// FillItem is one requested line in a fill call.
type FillItem struct {
	MaterialID  uuid.UUID `json:"material_id"`
	Quantidade  int       `json:"quantidade"`
	Observacoes string    `json:"observacoes"`
}

// SearchParams filters list queries.
type SearchParams struct {
	Status         string
	Month          string
	ClinicaID      int64
	ProfissionalID uuid.UUID
}

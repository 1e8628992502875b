package material

import (
	"time"

	"github.com/google/uuid"
)

// Material maps to the materiais table. Preco is the current catalog price in
// integer cents; list line items snapshot it at fill time, so later edits here
// never rewrite history.
type Material struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"materiais" json:"materiais"`
	Tipo      *string   `db:"tipo" json:"tipo,omitempty"`
	Preco     int64     `db:"preco" json:"preco"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

package professional

import (
	"time"

	"github.com/google/uuid"
)

// Professional maps to the profissionais table. SenhaHash is a bcrypt hash
// and never leaves the API.
type Professional struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Funcao    string    `db:"funcao" json:"funcao"`
	Email     string    `db:"email" json:"email"`
	Telefone  *string   `db:"telefone" json:"telefone,omitempty"`
	Login     string    `db:"login" json:"login"`
	SenhaHash string    `db:"senha" json:"-"`
	ClinicaID *int64    `db:"id_clinica" json:"id_clinica,omitempty"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateInput carries the plaintext access code on creation only.
type CreateInput struct {
	Nome      string `json:"nome"`
	Funcao    string `json:"funcao"`
	Email     string `json:"email"`
	Telefone  string `json:"telefone"`
	Login     string `json:"login"`
	Senha     string `json:"senha"`
	ClinicaID *int64 `json:"id_clinica"`
	Role      string `json:"role"`
}

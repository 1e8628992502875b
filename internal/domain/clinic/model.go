package clinic

import "time"

// Clinic maps to the clinicas table. IDs are plain bigints carried over from
// the union's member registry, not UUIDs.
type Clinic struct {
	ID        int64     `db:"id" json:"id"`
	Sindicato string    `db:"sindicato" json:"sindicato"`
	Endereco  string    `db:"endereco" json:"endereco"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClinicDetail is a clinic plus its headcount, for the admin listing.
type ClinicDetail struct {
	Clinic
	Professionals int `db:"professionals" json:"professionals"`
}

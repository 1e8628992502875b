package report

import (
	"time"

	"github.com/google/uuid"
)

// Stats is the dashboard headline block. Money values are integer cents.
// Crescimento is the percent change of total value against the previous
// month, rounded, zero when last month had no value.
type Stats struct {
	TotalProfissionais  int   `json:"total_profissionais"`
	ProfissionaisAtivos int   `json:"profissionais_ativos"`
	TotalMateriais      int64 `json:"total_materiais"`
	ValorTotal          int64 `json:"valor_total"`
	Crescimento         int   `json:"crescimento"`
}

// TrendPoint is one month in the dashboard trends chart. Month carries the
// short pt-BR label ("Jan", "Fev", ...).
type TrendPoint struct {
	Month         string `json:"month"`
	Profissionais int    `json:"profissionais"`
	Valor         int64  `json:"valor"`
}

// MonthAggregate is the per-month rollup the repository returns, keyed by
// "YYYY-MM".
type MonthAggregate struct {
	Profissionais int
	Valor         int64
}

// ClinicSlice is one slice of the clinic distribution chart. Percent is this
// clinic's share of the grand total value, rounded.
type ClinicSlice struct {
	Name          string `json:"name"`
	Percent       int    `json:"value"`
	Profissionais int    `json:"profissionais"`
	Listas        int    `json:"listas"`
	Valor         int64  `json:"valor"`
}

// ClinicAggregate is the raw per-clinic rollup from the repository.
type ClinicAggregate struct {
	ClinicaID     int64
	Sindicato     string
	Profissionais int
	Listas        int
	Valor         int64
}

// RecentList is one row of the dashboard recent-activity feed.
type RecentList struct {
	ID           uuid.UUID `json:"id"`
	Descricao    *string   `json:"descricao,omitempty"`
	Profissional string    `json:"profissional"`
	Clinica      string    `json:"clinica"`
	Status       string    `json:"status"`
	Data         time.Time `json:"data"`
	Valor        int64     `json:"valor"`
}

// ReportRow is one list in a monthly report or CSV export.
type ReportRow struct {
	ListaID      uuid.UUID `json:"lista_id"`
	Month        string    `json:"month"`
	Profissional string    `json:"profissional"`
	Clinica      string    `json:"clinica"`
	Status       string    `json:"status"`
	Valor        int64     `json:"valor"`
	CreatedAt    time.Time `json:"created_at"`
}

// MonthlyReport is the report over a month range.
type MonthlyReport struct {
	Start      string       `json:"start"`
	End        string       `json:"end"`
	Rows       []*ReportRow `json:"rows"`
	TotalLists int          `json:"total_lists"`
	Filled     int          `json:"filled"`
	Pending    int          `json:"pending"`
	Delivered  int          `json:"delivered"`
	ValorTotal int64        `json:"valor_total"`
}

// ExportHeader describes the list a spreadsheet export covers.
type ExportHeader struct {
	ListaID      uuid.UUID
	Month        string
	Status       string
	Profissional string
	Sindicato    string
	CreatedAt    time.Time
}

// ExportItem is one line of a list spreadsheet export. PrecoUnit is the
// snapshotted unit price in cents.
type ExportItem struct {
	Material    string
	Tipo        *string
	Quantidade  int
	PrecoUnit   int64
	Observacoes *string
}

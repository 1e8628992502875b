package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CountProfessionals(ctx context.Context) (int, error)
	// CountActiveProfessionals counts distinct professionals with a list in
	// the given month.
	CountActiveProfessionals(ctx context.Context, month string) (int, error)
	// TotalQuantity sums quantities over every list item ever filled.
	TotalQuantity(ctx context.Context) (int64, error)
	// TotalValue sums preco_total over every priced list.
	TotalValue(ctx context.Context) (int64, error)
	// MonthValue sums preco_total over the priced lists of one month.
	MonthValue(ctx context.Context, month string) (int64, error)

	// MonthAggregates returns per-month professionals and value for the
	// given months, keyed by "YYYY-MM". Months with no lists are absent.
	MonthAggregates(ctx context.Context, months []string) (map[string]MonthAggregate, error)

	// ClinicAggregates returns per-clinic professionals, list counts and
	// value across all months.
	ClinicAggregates(ctx context.Context) ([]*ClinicAggregate, error)

	RecentLists(ctx context.Context, limit int) ([]*RecentList, error)

	// Rows returns the lists whose month falls in [start, end], joined with
	// professional and clinic names.
	Rows(ctx context.Context, start, end string) ([]*ReportRow, error)

	ExportHeader(ctx context.Context, listaID uuid.UUID) (*ExportHeader, error)
	ExportItems(ctx context.Context, listaID uuid.UUID) ([]*ExportItem, error)
}

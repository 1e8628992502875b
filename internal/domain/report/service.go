package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/albusdente/materiais/pkg/money"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// monthShort maps time.Month to the pt-BR short label used by the trends
// chart.
var monthShort = [...]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

const (
	defaultTrendMonths = 7
	maxTrendMonths     = 24
	defaultRecentLimit = 5
	maxRecentLimit     = 50
	topClinics         = 4
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Stats computes the dashboard headline numbers. Growth compares the total
// value against the previous month's value, like the original dashboard.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	currentMonth := now.Format("2006-01")
	lastMonth := now.AddDate(0, -1, 0).Format("2006-01")

	total, err := s.repo.CountProfessionals(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.CountActiveProfessionals(ctx, currentMonth)
	if err != nil {
		return nil, err
	}
	quantity, err := s.repo.TotalQuantity(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.repo.TotalValue(ctx)
	if err != nil {
		return nil, err
	}
	lastValue, err := s.repo.MonthValue(ctx, lastMonth)
	if err != nil {
		return nil, err
	}

	growth := 0
	if lastValue > 0 {
		growth = int(((value - lastValue) * 100) / lastValue)
	}

	return &Stats{
		TotalProfissionais:  total,
		ProfissionaisAtivos: active,
		TotalMateriais:      quantity,
		ValorTotal:          value,
		Crescimento:         growth,
	}, nil
}

// MonthlyTrends returns one point per month for the trailing window, oldest
// first. Months without lists appear with zeros.
func (s *Service) MonthlyTrends(ctx context.Context, months int) ([]*TrendPoint, error) {
	if months <= 0 {
		months = defaultTrendMonths
	}
	if months > maxTrendMonths {
		months = maxTrendMonths
	}

	now := s.now()
	keys := make([]string, 0, months)
	labels := make([]string, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		keys = append(keys, m.Format("2006-01"))
		labels = append(labels, monthShort[m.Month()-1])
	}

	aggs, err := s.repo.MonthAggregates(ctx, keys)
	if err != nil {
		return nil, err
	}

	points := make([]*TrendPoint, 0, months)
	for i, key := range keys {
		agg := aggs[key]
		points = append(points, &TrendPoint{
			Month:         labels[i],
			Profissionais: agg.Profissionais,
			Valor:         agg.Valor,
		})
	}
	return points, nil
}

// ClinicDistribution returns the per-clinic value shares, at most the top
// four clinics plus an "Outras" bucket holding the rest.
func (s *Service) ClinicDistribution(ctx context.Context) ([]*ClinicSlice, error) {
	aggs, err := s.repo.ClinicAggregates(ctx)
	if err != nil {
		return nil, err
	}

	var grandTotal int64
	for _, agg := range aggs {
		grandTotal += agg.Valor
	}
	if grandTotal == 0 {
		grandTotal = 1
	}

	slices := make([]*ClinicSlice, 0, len(aggs))
	for _, agg := range aggs {
		name := agg.Sindicato
		if name == "" {
			name = fmt.Sprintf("Clínica %d", agg.ClinicaID)
		}
		slices = append(slices, &ClinicSlice{
			Name:          name,
			Percent:       int((agg.Valor*100 + grandTotal/2) / grandTotal),
			Profissionais: agg.Profissionais,
			Listas:        agg.Listas,
			Valor:         agg.Valor,
		})
	}
	sort.SliceStable(slices, func(i, j int) bool { return slices[i].Valor > slices[j].Valor })

	if len(slices) <= topClinics+1 {
		return slices, nil
	}

	top := slices[:topClinics]
	other := &ClinicSlice{Name: "Outras"}
	for _, cs := range slices[topClinics:] {
		other.Percent += cs.Percent
		other.Profissionais += cs.Profissionais
		other.Listas += cs.Listas
		other.Valor += cs.Valor
	}
	return append(top, other), nil
}

func (s *Service) RecentLists(ctx context.Context, limit int) ([]*RecentList, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.repo.RecentLists(ctx, limit)
}

// Monthly builds the report over [start, end] inclusive, both "YYYY-MM".
func (s *Service) Monthly(ctx context.Context, start, end string) (*MonthlyReport, error) {
	if !monthPattern.MatchString(start) {
		return nil, fmt.Errorf("invalid start month %q, want YYYY-MM", start)
	}
	if !monthPattern.MatchString(end) {
		return nil, fmt.Errorf("invalid end month %q, want YYYY-MM", end)
	}
	if start > end {
		return nil, fmt.Errorf("start month %s is after end month %s", start, end)
	}

	rows, err := s.repo.Rows(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rep := &MonthlyReport{Start: start, End: end, Rows: rows, TotalLists: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case "filled":
			rep.Filled++
		case "delivered":
			rep.Delivered++
		default:
			rep.Pending++
		}
		rep.ValorTotal += row.Valor
	}
	return rep, nil
}

// ExportListXLSX renders one list's items as a spreadsheet: a header row,
// one row per item with the snapshotted prices, and a summary row. Returns
// the file content and a suggested filename.
func (s *Service) ExportListXLSX(ctx context.Context, listaID uuid.UUID) ([]byte, string, error) {
	header, err := s.repo.ExportHeader(ctx, listaID)
	if err != nil {
		return nil, "", fmt.Errorf("lista %s not found", listaID)
	}
	items, err := s.repo.ExportItems(ctx, listaID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	info := []interface{}{
		"Lista", header.ListaID.String(), "Mês", header.Month,
		"Profissional", header.Profissional, "Clínica", header.Sindicato,
	}
	if err := f.SetSheetRow(sheet, "A1", &info); err != nil {
		return nil, "", fmt.Errorf("writing info row: %w", err)
	}

	cols := []interface{}{
		"Material", "Tipo", "Quantidade", "Preço Unit. (R$)", "Preço Total (R$)", "Observações",
	}
	if err := f.SetSheetRow(sheet, "A3", &cols); err != nil {
		return nil, "", fmt.Errorf("writing header row: %w", err)
	}

	row := 4
	var totalQty int
	var totalValue int64
	for _, item := range items {
		lineTotal := item.PrecoUnit * int64(item.Quantidade)
		totalQty += item.Quantidade
		totalValue += lineTotal

		excelRow := []interface{}{
			item.Material,
			deref(item.Tipo),
			item.Quantidade,
			money.Format(item.PrecoUnit),
			money.Format(lineTotal),
			deref(item.Observacoes),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, "", fmt.Errorf("addressing row %d: %w", row, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, "", fmt.Errorf("writing item row: %w", err)
		}
		row++
	}

	summary := []interface{}{
		"Total", "", totalQty, "", money.FormatBRL(totalValue), "",
	}
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return nil, "", err
	}
	if err := f.SetSheetRow(sheet, cell, &summary); err != nil {
		return nil, "", fmt.Errorf("writing summary row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("rendering workbook: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("lista-%s.xlsx", header.Month), nil
}

// ExportListsCSV renders every list of a month as CSV, money in pt-BR
// formatting.
func (s *Service) ExportListsCSV(ctx context.Context, month string) ([]byte, string, error) {
	if !monthPattern.MatchString(month) {
		return nil, "", fmt.Errorf("invalid month %q, want YYYY-MM", month)
	}

	rows, err := s.repo.Rows(ctx, month, month)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"lista_id", "month", "profissional", "clinica", "status", "valor"}); err != nil {
		return nil, "", err
	}
	for _, row := range rows {
		record := []string{
			row.ListaID.String(),
			row.Month,
			row.Profissional,
			row.Clinica,
			row.Status,
			money.FormatBRL(row.Valor),
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("listas-%s.csv", month), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

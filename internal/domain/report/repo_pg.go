package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albusdente/materiais/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) CountProfessionals(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM profissionais`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting professionals: %w", err)
	}
	return n, nil
}

func (r *repoPG) CountActiveProfessionals(ctx context.Context, month string) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(DISTINCT profissional_id) FROM listas WHERE month = $1`, month).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active professionals: %w", err)
	}
	return n, nil
}

func (r *repoPG) TotalQuantity(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(quantidade), 0) FROM lista_materiais_itens`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("summing quantities: %w", err)
	}
	return n, nil
}

func (r *repoPG) TotalValue(ctx context.Context) (int64, error) {
	var v int64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(preco_total), 0) FROM listas WHERE preco_total IS NOT NULL`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("summing list values: %w", err)
	}
	return v, nil
}

func (r *repoPG) MonthValue(ctx context.Context, month string) (int64, error) {
	var v int64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(preco_total), 0) FROM listas
		WHERE month = $1 AND preco_total IS NOT NULL`, month).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("summing month value: %w", err)
	}
	return v, nil
}

func (r *repoPG) MonthAggregates(ctx context.Context, months []string) (map[string]MonthAggregate, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT month,
		       COUNT(DISTINCT profissional_id),
		       COALESCE(SUM(preco_total), 0)
		FROM listas
		WHERE month = ANY($1)
		GROUP BY month`, months)
	if err != nil {
		return nil, fmt.Errorf("aggregating months: %w", err)
	}
	defer rows.Close()

	result := make(map[string]MonthAggregate, len(months))
	for rows.Next() {
		var month string
		var agg MonthAggregate
		if err := rows.Scan(&month, &agg.Profissionais, &agg.Valor); err != nil {
			return nil, fmt.Errorf("scanning month aggregate: %w", err)
		}
		result[month] = agg
	}
	return result, rows.Err()
}

func (r *repoPG) ClinicAggregates(ctx context.Context) ([]*ClinicAggregate, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT c.id, c.sindicato,
		       (SELECT COUNT(*) FROM profissionais p WHERE p.id_clinica = c.id),
		       COUNT(l.id),
		       COALESCE(SUM(l.preco_total), 0)
		FROM clinicas c
		LEFT JOIN listas l ON l.clinica_id = c.id
		GROUP BY c.id, c.sindicato
		ORDER BY COALESCE(SUM(l.preco_total), 0) DESC`)
	if err != nil {
		return nil, fmt.Errorf("aggregating clinics: %w", err)
	}
	defer rows.Close()

	var result []*ClinicAggregate
	for rows.Next() {
		agg := &ClinicAggregate{}
		if err := rows.Scan(&agg.ClinicaID, &agg.Sindicato, &agg.Profissionais, &agg.Listas, &agg.Valor); err != nil {
			return nil, fmt.Errorf("scanning clinic aggregate: %w", err)
		}
		result = append(result, agg)
	}
	return result, rows.Err()
}

func (r *repoPG) RecentLists(ctx context.Context, limit int) ([]*RecentList, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT l.id, l.descricao, p.nome, c.sindicato, l.status, l.created_at,
		       COALESCE(l.preco_total, 0)
		FROM listas l
		JOIN profissionais p ON p.id = l.profissional_id
		JOIN clinicas c ON c.id = l.clinica_id
		ORDER BY l.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent lists: %w", err)
	}
	defer rows.Close()

	var result []*RecentList
	for rows.Next() {
		rl := &RecentList{}
		if err := rows.Scan(&rl.ID, &rl.Descricao, &rl.Profissional, &rl.Clinica,
			&rl.Status, &rl.Data, &rl.Valor); err != nil {
			return nil, fmt.Errorf("scanning recent list: %w", err)
		}
		result = append(result, rl)
	}
	return result, rows.Err()
}

func (r *repoPG) Rows(ctx context.Context, start, end string) ([]*ReportRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT l.id, l.month, p.nome, c.sindicato, l.status,
		       COALESCE(l.preco_total, 0), l.created_at
		FROM listas l
		JOIN profissionais p ON p.id = l.profissional_id
		JOIN clinicas c ON c.id = l.clinica_id
		WHERE l.month >= $1 AND l.month <= $2
		ORDER BY l.month, c.sindicato, p.nome`, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading report rows: %w", err)
	}
	defer rows.Close()

	var result []*ReportRow
	for rows.Next() {
		row := &ReportRow{}
		if err := rows.Scan(&row.ListaID, &row.Month, &row.Profissional, &row.Clinica,
			&row.Status, &row.Valor, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *repoPG) ExportHeader(ctx context.Context, listaID uuid.UUID) (*ExportHeader, error) {
	h := &ExportHeader{}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT l.id, l.month, l.status, p.nome, c.sindicato, l.created_at
		FROM listas l
		JOIN profissionais p ON p.id = l.profissional_id
		JOIN clinicas c ON c.id = l.clinica_id
		WHERE l.id = $1`, listaID).
		Scan(&h.ListaID, &h.Month, &h.Status, &h.Profissional, &h.Sindicato, &h.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("loading export header: %w", err)
	}
	return h, nil
}

func (r *repoPG) ExportItems(ctx context.Context, listaID uuid.UUID) ([]*ExportItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.materiais, m.tipo, i.quantidade, i.preco, i.observacoes
		FROM lista_materiais_itens i
		JOIN materiais m ON m.id = i.material_id
		WHERE i.lista_id = $1
		ORDER BY m.materiais`, listaID)
	if err != nil {
		return nil, fmt.Errorf("loading export items: %w", err)
	}
	defer rows.Close()

	var result []*ExportItem
	for rows.Next() {
		item := &ExportItem{}
		if err := rows.Scan(&item.Material, &item.Tipo, &item.Quantidade,
			&item.PrecoUnit, &item.Observacoes); err != nil {
			return nil, fmt.Errorf("scanning export item: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

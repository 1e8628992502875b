package lista

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

const listaCols = `id, profissional_id, clinica_id, month, descricao, status,
	preco_total, filled_at, delivered_at, delivery_confirmation_id, created_at`

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Lista, error) {
	return scanLista(r.conn(ctx).QueryRow(ctx,
		`SELECT `+listaCols+` FROM listas WHERE id = $1`, id))
}

func (r *repoPG) GetDetail(ctx context.Context, id uuid.UUID) (*ListaDetail, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT l.id, l.profissional_id, l.clinica_id, l.month, l.descricao, l.status,
		       l.preco_total, l.filled_at, l.delivered_at, l.delivery_confirmation_id, l.created_at,
		       p.nome, c.sindicato
		FROM listas l
		JOIN profissionais p ON p.id = l.profissional_id
		JOIN clinicas c ON c.id = l.clinica_id
		WHERE l.id = $1`, id)
	return scanListaDetail(row)
}

func (r *repoPG) Search(ctx context.Context, params SearchParams, limit, offset int) ([]*ListaDetail, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	n := 0
	add := func(cond string, v interface{}) {
		n++
		where += fmt.Sprintf(" AND %s = $%d", cond, n)
		args = append(args, v)
	}
	if params.Status != "" {
		add("l.status", params.Status)
	}
	if params.Month != "" {
		add("l.month", params.Month)
	}
	if params.ClinicaID != 0 {
		add("l.clinica_id", params.ClinicaID)
	}
	if params.ProfissionalID != uuid.Nil {
		add("l.profissional_id", params.ProfissionalID)
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM listas l ` + where
	if err := r.conn(ctx).QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `
		SELECT l.id, l.profissional_id, l.clinica_id, l.month, l.descricao, l.status,
		       l.preco_total, l.filled_at, l.delivered_at, l.delivery_confirmation_id, l.created_at,
		       p.nome, c.sindicato
		FROM listas l
		JOIN profissionais p ON p.id = l.profissional_id
		JOIN clinicas c ON c.id = l.clinica_id
		` + where + fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listas []*ListaDetail
	for rows.Next() {
		d, err := scanListaDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		listas = append(listas, d)
	}
	return listas, total, nil
}

func (r *repoPG) CreateMonthly(ctx context.Context, month string) (int, error) {
	// The unique index on (profissional_id, month) makes this idempotent.
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO listas (id, profissional_id, clinica_id, month, status)
		SELECT gen_random_uuid(), p.id, p.id_clinica, $1, 'not_filled'
		FROM profissionais p
		WHERE p.id_clinica IS NOT NULL
		ON CONFLICT (profissional_id, month) DO NOTHING`, month)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) InsertItems(ctx context.Context, items []*Item) error {
	for _, it := range items {
		it.ID = uuid.New()
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO lista_materiais_itens (id, lista_id, material_id, quantidade, preco, observacoes)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			it.ID, it.ListaID, it.MaterialID, it.Quantidade, it.Preco, it.Observacoes,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) MarkFilled(ctx context.Context, id uuid.UUID, precoTotal int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE listas SET status='filled', preco_total=$2, filled_at=NOW()
		WHERE id = $1 AND status = 'not_filled'`, id, precoTotal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lista %s not in not_filled state", id)
	}
	return nil
}

func (r *repoPG) ListItems(ctx context.Context, listaID uuid.UUID) ([]*ItemDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT i.id, i.lista_id, i.material_id, i.quantidade, i.preco, i.observacoes,
		       i.missing, i.missing_reported_by, i.missing_reported_at, i.created_at,
		       m.materiais, m.tipo
		FROM lista_materiais_itens i
		JOIN materiais m ON m.id = i.material_id
		WHERE i.lista_id = $1
		ORDER BY m.materiais`, listaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ItemDetail
	for rows.Next() {
		var it ItemDetail
		err := rows.Scan(&it.ID, &it.ListaID, &it.MaterialID, &it.Quantidade, &it.Preco,
			&it.Observacoes, &it.Missing, &it.MissingReportedBy, &it.MissingReportedAt,
			&it.CreatedAt, &it.MaterialNome, &it.MaterialTipo)
		if err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}

func scanLista(row pgx.Row) (*Lista, error) {
	var l Lista
	err := row.Scan(&l.ID, &l.ProfissionalID, &l.ClinicaID, &l.Month, &l.Descricao,
		&l.Status, &l.PrecoTotal, &l.FilledAt, &l.DeliveredAt, &l.DeliveryConfirmationID,
		&l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListaDetail(row pgx.Row) (*ListaDetail, error) {
	var d ListaDetail
	err := row.Scan(&d.ID, &d.ProfissionalID, &d.ClinicaID, &d.Month, &d.Descricao,
		&d.Status, &d.PrecoTotal, &d.FilledAt, &d.DeliveredAt, &d.DeliveryConfirmationID,
		&d.CreatedAt, &d.ProfissionalNome, &d.Sindicato)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

package material

import (
	"context"

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

const matCols = `id, materiais, tipo, preco, created_at`

func (r *repoPG) Create(ctx context.Context, m *Material) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO materiais (id, materiais, tipo, preco)
		VALUES ($1,$2,$3,$4)`,
		m.ID, m.Name, m.Tipo, m.Preco,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Material, error) {
	return scanMat(r.conn(ctx).QueryRow(ctx, `SELECT `+matCols+` FROM materiais WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Material) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE materiais SET materiais=$2, tipo=$3, preco=$4 WHERE id = $1`,
		m.ID, m.Name, m.Tipo, m.Preco,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM materiais WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Material, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM materiais`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+matCols+` FROM materiais ORDER BY materiais LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMats(rows, total)
}

func (r *repoPG) Search(ctx context.Context, name string, limit, offset int) ([]*Material, int, error) {
	pattern := "%" + name + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM materiais WHERE materiais ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+matCols+` FROM materiais WHERE materiais ILIKE $1 ORDER BY materiais LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMats(rows, total)
}

func scanMat(row pgx.Row) (*Material, error) {
	var m Material
	if err := row.Scan(&m.ID, &m.Name, &m.Tipo, &m.Preco, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMats(rows pgx.Rows, total int) ([]*Material, int, error) {
	var mats []*Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Tipo, &m.Preco, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		mats = append(mats, &m)
	}
	return mats, total, nil
}

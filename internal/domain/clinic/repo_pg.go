package clinic

import (
	"context"

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

func (r *repoPG) Create(ctx context.Context, c *Clinic) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinicas (sindicato, endereco)
		VALUES ($1,$2) RETURNING id, created_at`,
		c.Sindicato, c.Endereco,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Clinic, error) {
	var c Clinic
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, sindicato, endereco, created_at FROM clinicas WHERE id = $1`, id,
	).Scan(&c.ID, &c.Sindicato, &c.Endereco, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) GetDetail(ctx context.Context, id int64) (*ClinicDetail, error) {
	var d ClinicDetail
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT c.id, c.sindicato, c.endereco, c.created_at,
		       COUNT(p.id) AS professionals
		FROM clinicas c
		LEFT JOIN profissionais p ON p.id_clinica = c.id
		WHERE c.id = $1
		GROUP BY c.id`, id,
	).Scan(&d.ID, &d.Sindicato, &d.Endereco, &d.CreatedAt, &d.Professionals)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) Update(ctx context.Context, c *Clinic) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinicas SET sindicato=$2, endereco=$3 WHERE id = $1`,
		c.ID, c.Sindicato, c.Endereco,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM clinicas WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*ClinicDetail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM clinicas`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT c.id, c.sindicato, c.endereco, c.created_at,
		       COUNT(p.id) AS professionals
		FROM clinicas c
		LEFT JOIN profissionais p ON p.id_clinica = c.id
		GROUP BY c.id
		ORDER BY c.sindicato
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clinics []*ClinicDetail
	for rows.Next() {
		var d ClinicDetail
		if err := rows.Scan(&d.ID, &d.Sindicato, &d.Endereco, &d.CreatedAt, &d.Professionals); err != nil {
			return nil, 0, err
		}
		clinics = append(clinics, &d)
	}
	return clinics, total, nil
}

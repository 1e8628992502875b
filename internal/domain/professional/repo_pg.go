package professional

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

const profCols = `id, nome, funcao, email, telefone, login, senha, id_clinica, role, created_at`

func (r *repoPG) Create(ctx context.Context, p *Professional) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO profissionais (id, nome, funcao, email, telefone, login, senha, id_clinica, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Nome, p.Funcao, p.Email, p.Telefone, p.Login, p.SenhaHash, p.ClinicaID, p.Role,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return scanProf(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profCols+` FROM profissionais WHERE id = $1`, id))
}

func (r *repoPG) GetByLogin(ctx context.Context, login string) (*Professional, error) {
	return scanProf(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profCols+` FROM profissionais WHERE login = $1`, login))
}

func (r *repoPG) Update(ctx context.Context, p *Professional) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE profissionais SET
			nome=$2, funcao=$3, email=$4, telefone=$5, login=$6, senha=$7,
			id_clinica=$8, role=$9
		WHERE id = $1`,
		p.ID, p.Nome, p.Funcao, p.Email, p.Telefone, p.Login, p.SenhaHash, p.ClinicaID, p.Role,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM profissionais WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Professional, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM profissionais`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+profCols+` FROM profissionais ORDER BY nome LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectProfs(rows, total)
}

func (r *repoPG) ListByClinic(ctx context.Context, clinicID int64, limit, offset int) ([]*Professional, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM profissionais WHERE id_clinica = $1`, clinicID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+profCols+` FROM profissionais WHERE id_clinica = $1 ORDER BY nome LIMIT $2 OFFSET $3`,
		clinicID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectProfs(rows, total)
}

func scanProf(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.Nome, &p.Funcao, &p.Email, &p.Telefone, &p.Login,
		&p.SenhaHash, &p.ClinicaID, &p.Role, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProfs(rows pgx.Rows, total int) ([]*Professional, int, error) {
	var profs []*Professional
	for rows.Next() {
		var p Professional
		err := rows.Scan(&p.ID, &p.Nome, &p.Funcao, &p.Email, &p.Telefone, &p.Login,
			&p.SenhaHash, &p.ClinicaID, &p.Role, &p.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		profs = append(profs, &p)
	}
	return profs, total, nil
}

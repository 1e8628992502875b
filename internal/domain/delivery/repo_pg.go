package delivery

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

func (r *repoPG) GetListaStatus(ctx context.Context, listaID uuid.UUID) (string, error) {
	var status string
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT status FROM listas WHERE id = $1`, listaID).Scan(&status)
	if err != nil {
		return "", err
	}
	return status, nil
}

func (r *repoPG) ListFilledByClinic(ctx context.Context, clinicID int64) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id FROM listas WHERE clinica_id = $1 AND status = 'filled'`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *repoPG) InsertConfirmation(ctx context.Context, c *Confirmation) error {
	c.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO delivery_confirmations (id, lista_id, photo_url, observations, confirmed_by, confirmed_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING confirmed_at, created_at`,
		c.ID, c.ListaID, c.PhotoURL, c.Observations, c.ConfirmedBy,
	).Scan(&c.ConfirmedAt, &c.CreatedAt)
}

func (r *repoPG) InsertClinicConfirmation(ctx context.Context, c *ClinicConfirmation) error {
	c.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinic_delivery_confirmations
			(id, clinica_id, photo_url, signature_url, observations, missing_items, confirmed_by, confirmed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING confirmed_at, created_at`,
		c.ID, c.ClinicaID, c.PhotoURL, c.SignatureURL, c.Observations, c.MissingItems, c.ConfirmedBy,
	).Scan(&c.ConfirmedAt, &c.CreatedAt)
}

func (r *repoPG) MarkDelivered(ctx context.Context, listaID, confirmationID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE listas SET status='delivered', delivered_at=NOW(), delivery_confirmation_id=$2
		WHERE id = $1 AND status = 'filled'`, listaID, confirmationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lista %s not in filled state", listaID)
	}
	return nil
}

func (r *repoPG) MarkDeliveredBatch(ctx context.Context, listaIDs []uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE listas SET status='delivered', delivered_at=NOW()
		WHERE id = ANY($1) AND status = 'filled'`, listaIDs)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) FlagMissingItems(ctx context.Context, itemIDs []uuid.UUID, reportedBy uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE lista_materiais_itens
		SET missing = TRUE, missing_reported_by = $2, missing_reported_at = NOW()
		WHERE id = ANY($1)`, itemIDs, reportedBy)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) ListConfirmations(ctx context.Context, limit, offset int) ([]*Confirmation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM delivery_confirmations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, lista_id, photo_url, observations, confirmed_by, confirmed_at, created_at
		FROM delivery_confirmations
		ORDER BY confirmed_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var confs []*Confirmation
	for rows.Next() {
		var c Confirmation
		if err := rows.Scan(&c.ID, &c.ListaID, &c.PhotoURL, &c.Observations,
			&c.ConfirmedBy, &c.ConfirmedAt, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		confs = append(confs, &c)
	}
	return confs, total, nil
}

func (r *repoPG) ListClinicConfirmations(ctx context.Context, limit, offset int) ([]*ClinicConfirmation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM clinic_delivery_confirmations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, clinica_id, photo_url, signature_url, observations, missing_items,
		       confirmed_by, confirmed_at, created_at
		FROM clinic_delivery_confirmations
		ORDER BY confirmed_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var confs []*ClinicConfirmation
	for rows.Next() {
		var c ClinicConfirmation
		if err := rows.Scan(&c.ID, &c.ClinicaID, &c.PhotoURL, &c.SignatureURL, &c.Observations,
			&c.MissingItems, &c.ConfirmedBy, &c.ConfirmedAt, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		confs = append(confs, &c)
	}
	return confs, total, nil
}

package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/albusdente/materiais/internal/platform/auth"
	"github.com/albusdente/materiais/internal/platform/db"
)

var (
	// ErrNotDeliverable means the target list is not in the filled state.
	ErrNotDeliverable = errors.New("lista is not deliverable")
	// ErrNothingToDeliver means the clinic has no filled lists to confirm.
	ErrNothingToDeliver = errors.New("clinic has no filled lists")
	// ErrForbidden means the actor is not allowed to confirm deliveries.
	ErrForbidden = errors.New("only admins can confirm deliveries")
	// ErrPersistence means storage failed while recording a confirmation.
	// Handlers map it to a generic 500; the cause is only logged.
	ErrPersistence = errors.New("persisting delivery confirmation failed")
)

// Actor identifies who is performing a confirmation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

type Service struct {
	repo Repository
	log  zerolog.Logger
	tx   func(ctx context.Context, fn func(context.Context) error) error
}

// NewService wires the delivery service. pool may be nil in tests, in which
// case transactional operations run directly against the repository.
func NewService(repo Repository, pool *pgxpool.Pool, log zerolog.Logger) *Service {
	s := &Service{repo: repo, log: log}
	if pool != nil {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error {
			return db.WithTransaction(ctx, pool, fn)
		}
	} else {
		s.tx = func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}
	}
	return s
}

// ConfirmList records delivery evidence for one list and moves it to
// delivered. The route is admin-only already; the role is re-checked here so
// the invariant does not depend on wiring.
func (s *Service) ConfirmList(ctx context.Context, in ConfirmListInput, actor Actor) (*Confirmation, error) {
	if actor.Role != auth.RoleAdmin {
		return nil, ErrForbidden
	}
	if in.ListaID == uuid.Nil {
		return nil, fmt.Errorf("lista_id is required")
	}
	if in.PhotoURL == "" {
		return nil, fmt.Errorf("photo_url is required")
	}

	status, err := s.repo.GetListaStatus(ctx, in.ListaID)
	if err != nil {
		return nil, fmt.Errorf("lista %s not found", in.ListaID)
	}
	if status != "filled" {
		return nil, fmt.Errorf("%w: lista %s is %s", ErrNotDeliverable, in.ListaID, status)
	}

	conf := &Confirmation{
		ListaID:     in.ListaID,
		PhotoURL:    in.PhotoURL,
		ConfirmedBy: actor.ID,
	}
	if in.Observations != "" {
		obs := in.Observations
		conf.Observations = &obs
	}

	err = s.tx(ctx, func(txCtx context.Context) error {
		if err := s.repo.InsertConfirmation(txCtx, conf); err != nil {
			return fmt.Errorf("inserting confirmation: %w", err)
		}
		if err := s.repo.MarkDelivered(txCtx, in.ListaID, conf.ID); err != nil {
			return fmt.Errorf("marking delivered: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("lista_id", in.ListaID.String()).
			Msg("confirming delivery failed")
		return nil, ErrPersistence
	}

	s.log.Info().
		Str("lista_id", in.ListaID.String()).
		Str("confirmed_by", actor.ID.String()).
		Msg("delivery confirmed")
	return conf, nil
}

// ConfirmClinic records one evidence record for a clinic and moves every
// filled list of that clinic to delivered. The confirmation row and the
// status batch share one transaction; missing-item flags are applied after
// commit and are best-effort — a failure there is logged, never surfaced,
// because the delivery itself already happened.
func (s *Service) ConfirmClinic(ctx context.Context, in ConfirmClinicInput, actor Actor) (*ClinicConfirmResult, error) {
	if actor.Role != auth.RoleAdmin {
		return nil, ErrForbidden
	}
	if in.ClinicaID == 0 {
		return nil, fmt.Errorf("clinica_id is required")
	}
	if in.PhotoURL == "" {
		return nil, fmt.Errorf("photo_url is required")
	}

	listaIDs, err := s.repo.ListFilledByClinic(ctx, in.ClinicaID)
	if err != nil {
		s.log.Error().Err(err).
			Int64("clinica_id", in.ClinicaID).
			Msg("loading filled lists failed")
		return nil, ErrPersistence
	}
	if len(listaIDs) == 0 {
		return nil, fmt.Errorf("%w: clinic %d", ErrNothingToDeliver, in.ClinicaID)
	}

	conf := &ClinicConfirmation{
		ClinicaID:    in.ClinicaID,
		PhotoURL:     in.PhotoURL,
		MissingItems: in.MissingItems,
		ConfirmedBy:  actor.ID,
	}
	if in.SignatureURL != "" {
		sig := in.SignatureURL
		conf.SignatureURL = &sig
	}
	if in.Observations != "" {
		obs := in.Observations
		conf.Observations = &obs
	}

	var delivered int
	err = s.tx(ctx, func(txCtx context.Context) error {
		if err := s.repo.InsertClinicConfirmation(txCtx, conf); err != nil {
			return fmt.Errorf("inserting clinic confirmation: %w", err)
		}
		n, err := s.repo.MarkDeliveredBatch(txCtx, listaIDs)
		if err != nil {
			return fmt.Errorf("marking lists delivered: %w", err)
		}
		delivered = n
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).
			Int64("clinica_id", in.ClinicaID).
			Msg("confirming clinic delivery failed")
		return nil, ErrPersistence
	}

	flagged := 0
	if len(in.MissingItems) > 0 {
		n, err := s.repo.FlagMissingItems(ctx, in.MissingItems, actor.ID)
		if err != nil {
			s.log.Warn().Err(err).
				Int64("clinica_id", in.ClinicaID).
				Int("items", len(in.MissingItems)).
				Msg("flagging missing items failed; delivery already confirmed")
		} else {
			flagged = n
		}
	}

	s.log.Info().
		Int64("clinica_id", in.ClinicaID).
		Int("lists_delivered", delivered).
		Int("items_flagged", flagged).
		Msg("clinic delivery confirmed")

	return &ClinicConfirmResult{
		Confirmation:   conf,
		ListsDelivered: delivered,
		ItemsFlagged:   flagged,
	}, nil
}

// RecordUploadStub writes a confirmation row carrying only the photo, so the
// evidence survives even when the admin abandons the confirm form after
// uploading. Failures are logged and swallowed; the stored photo is the
// source of truth.
func (s *Service) RecordUploadStub(ctx context.Context, listaID uuid.UUID, photoURL string, actor Actor) {
	conf := &Confirmation{
		ListaID:     listaID,
		PhotoURL:    photoURL,
		ConfirmedBy: actor.ID,
	}
	if err := s.repo.InsertConfirmation(ctx, conf); err != nil {
		s.log.Warn().Err(err).
			Str("lista_id", listaID.String()).
			Msg("recording upload stub failed; photo is stored")
	}
}

func (s *Service) ListConfirmations(ctx context.Context, limit, offset int) ([]*Confirmation, int, error) {
	return s.repo.ListConfirmations(ctx, limit, offset)
}

func (s *Service) ListClinicConfirmations(ctx context.Context, limit, offset int) ([]*ClinicConfirmation, int, error) {
	return s.repo.ListClinicConfirmations(ctx, limit, offset)
}

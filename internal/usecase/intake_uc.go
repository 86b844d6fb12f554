package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-broadcast-bot/internal/domain"
	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/adapter"
	"catalog-broadcast-bot/internal/domain/ports/repository"
	"catalog-broadcast-bot/internal/infra/logging"
	"catalog-broadcast-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// IntakeUseCase turns an operator's photo followed by a Name;Type;Price;Description;Age
// line into a catalog product awaiting a broadcast decision.
type IntakeUseCase interface {
	// BeginUpload remembers imageURL as the operator's pending image (last write wins).
	BeginUpload(ctx context.Context, operatorID int64, imageURL string) error
	// SubmitDetails commits the pending image and text as a new product.
	//  - domain.ErrNoPendingImage: no photo was sent first, nothing changes.
	//  - domain.ErrInvalidFormat: fewer than five fields, the pending image is kept.
	//  - *domain.UpstreamError: upload or create failed, the pending image is dropped.
	SubmitDetails(ctx context.Context, operatorID int64, text string) (*model.Product, error)
}

type intakeUC struct {
	pending   repository.PendingImageRepository
	images    adapter.ImageHost
	catalog   adapter.CatalogClient
	broadcast BroadcastUseCase
	log       *zerolog.Logger
}

func NewIntakeUseCase(
	pending repository.PendingImageRepository,
	images adapter.ImageHost,
	catalog adapter.CatalogClient,
	broadcast BroadcastUseCase,
	logger *zerolog.Logger,
) IntakeUseCase {
	return &intakeUC{
		pending:   pending,
		images:    images,
		catalog:   catalog,
		broadcast: broadcast,
		log:       logger,
	}
}

func (uc *intakeUC) BeginUpload(ctx context.Context, operatorID int64, imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return domain.ErrInvalidArgument
	}
	if err := uc.pending.Set(ctx, operatorID, imageURL); err != nil {
		return fmt.Errorf("store pending image: %w", err)
	}
	logging.With(ctx, uc.log).Debug().Int64("operator_id", operatorID).Msg("pending image stored")
	return nil
}

func (uc *intakeUC) SubmitDetails(ctx context.Context, operatorID int64, text string) (*model.Product, error) {
	log := logging.With(ctx, uc.log)
	defer logging.TraceDuration(log, "IntakeUC.SubmitDetails")()

	imageURL, ok, err := uc.pending.Get(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("load pending image: %w", err)
	}
	if !ok {
		return nil, domain.ErrNoPendingImage
	}

	draft, err := model.ParseDraft(text)
	if err != nil {
		metrics.IncIntake("format_error")
		return nil, err
	}

	hosted, err := uc.images.Upload(ctx, imageURL)
	if err != nil {
		return nil, uc.abandon(ctx, log, operatorID, domain.Upstream("image upload", err))
	}

	created, err := uc.catalog.Create(ctx, model.NewProduct(draft, hosted))
	if err != nil {
		return nil, uc.abandon(ctx, log, operatorID, domain.Upstream("catalog create", err))
	}

	if err := uc.pending.Clear(ctx, operatorID); err != nil {
		log.Warn().Err(err).Int64("operator_id", operatorID).Msg("failed to clear pending image")
	}
	if err := uc.broadcast.RecordAwaiting(ctx, operatorID, created); err != nil {
		return nil, err
	}

	metrics.IncIntake("created")
	log.Info().Int64("operator_id", operatorID).Str("product_id", created.ID).Str("name", created.Name).
		Msg("product created")
	return created, nil
}

// abandon drops the draft after an upstream failure; the operator starts over with a new photo.
func (uc *intakeUC) abandon(ctx context.Context, log *zerolog.Logger, operatorID int64, cause error) error {
	metrics.IncIntake("upstream_error")
	log.Error().Err(cause).Int64("operator_id", operatorID).Msg("product intake failed")
	if err := uc.pending.Clear(ctx, operatorID); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

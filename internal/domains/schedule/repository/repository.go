package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/schedule/model"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/logger"
	gRepo "salon/shared/repository"
)

type Availability interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Availability, error)
	ReplaceWeek(ctx context.Context, staffID string, models []model.Availability) error
}

type BlockedSlot interface {
	Insert(ctx context.Context, model model.BlockedSlot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.BlockedSlot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BlockedSlot, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type availabilityImpl struct {
	gRepo.Repository[model.Availability]
	db   *postgres.Connection
	otel otel.Otel
}

func NewAvailability(db *postgres.Connection, otel otel.Otel) Availability {
	return &availabilityImpl{
		Repository: gRepo.NewRepository[model.Availability](model.AvailabilityEntityName, model.AvailabilityTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ReplaceWeek swaps the entire weekly schedule in one transaction so readers
// never observe a staff member with a half-written week.
func (repo *availabilityImpl) ReplaceWeek(ctx context.Context, staffID string, models []model.Availability) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.ReplaceWeek")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("failed to rollback availability replace")
			}
		}
	}()

	staffFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStaffID,
				Operator: gDto.FilterOperatorEq,
				Value:    staffID,
				Table:    model.AvailabilityTableName,
			},
		},
	}

	if err = repo.DeleteTx(ctx, tx, staffFilter); err != nil {
		return fmt.Errorf("failed to clear availability: %w", err)
	}

	if len(models) > 0 {
		if err = repo.InsertBulkTx(ctx, tx, models); err != nil {
			return fmt.Errorf("failed to insert availability: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit availability replace: %w", err)
	}

	return nil
}

type blockedSlotImpl struct {
	gRepo.Repository[model.BlockedSlot]
	db   *postgres.Connection
	otel otel.Otel
}

func NewBlockedSlot(db *postgres.Connection, otel otel.Otel) BlockedSlot {
	return &blockedSlotImpl{
		Repository: gRepo.NewRepository[model.BlockedSlot](model.BlockedSlotEntityName, model.BlockedSlotTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/appointment/model"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/logger"
	gRepo "salon/shared/repository"
	"salon/shared/timezone"
)

const (
	queryAdvisoryLock = "SELECT pg_advisory_xact_lock(hashtext($1))"

	queryCountOverlapping = `SELECT COUNT(id) FROM appointments
		WHERE staff_id = $1
		AND status = ANY($2)
		AND start_time < $4
		AND end_time > $3`
)

type Appointment interface {
	InsertGuarded(ctx context.Context, model model.Appointment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Appointment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Appointment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	ClaimReminder(ctx context.Context, id, username string, sentAt time.Time) (bool, error)
	ReleaseReminder(ctx context.Context, id, username string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Appointment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Appointment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Appointment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertGuarded runs the overlap check and the insert inside one transaction
// holding a per-staff advisory lock, so two concurrent requests for the same
// staff member serialize and the loser sees the winner's row. The overlap
// exclusion constraint in the schema backstops anything that slips past.
func (repo *repositoryImpl) InsertGuarded(ctx context.Context, mod model.Appointment) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".appointment.InsertGuarded")
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
				log.Error().Err(rbErr).Msg("failed to rollback appointment insert")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, queryAdvisoryLock, mod.StaffID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to take staff calendar lock: %w", err)
	}

	var overlapping int

	err = tx.GetContext(ctx, &overlapping, queryCountOverlapping,
		mod.StaffID, pq.Array(model.ActiveStatuses), mod.StartTime, mod.EndTime)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to count overlapping appointments: %w", err)
	}

	if overlapping > 0 {
		err = failure.Conflict("time slot already booked")

		return err
	}

	if err = repo.InsertTx(ctx, tx, mod); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
			err = failure.Conflict("time slot already booked")

			return err
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit appointment insert: %w", err)
	}

	return nil
}

// ClaimReminder flips reminder_sent under the condition it is still false.
// Returns false when another sweep already owns the reminder.
func (repo *repositoryImpl) ClaimReminder(ctx context.Context, id, username string, sentAt time.Time) (claimed bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".appointment.ClaimReminder")
	defer scope.End()
	defer scope.TraceIfError(err)

	mod := map[string]any{
		model.FieldReminderSent:   true,
		model.FieldReminderSentAt: sentAt,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  username,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldReminderSent,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    model.TableName,
			},
		},
	}

	affected, err := repo.UpdateWithCount(ctx, mod, filter)
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ReleaseReminder undoes a claim after a failed dispatch so a later sweep
// retries the appointment.
func (repo *repositoryImpl) ReleaseReminder(ctx context.Context, id, username string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".appointment.ReleaseReminder")
	defer scope.End()
	defer scope.TraceIfError(err)

	mod := map[string]any{
		model.FieldReminderSent:   false,
		model.FieldReminderSentAt: nil,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  username,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
		},
	}

	return repo.Update(ctx, mod, filter)
}

package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"salon/config"
	"salon/infras/otel"
	"salon/infras/s3"
	scheduleModel "salon/internal/domains/schedule/model"
	scheduleDto "salon/internal/domains/schedule/model/dto"
	scheduleRepo "salon/internal/domains/schedule/repository"
	"salon/internal/domains/staff/model"
	"salon/internal/domains/staff/model/dto"
	"salon/internal/domains/staff/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/timezone"
)

const (
	cacheGetStaff    = "staff:get"
	cacheGetAllStaff = "staff:gets"
	cacheCountStaff  = "staff:count"
)

type Staff interface {
	Create(ctx context.Context, req dto.CreateStaffRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetStaffResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.StaffDetailResponse, error)
	Update(ctx context.Context, req dto.UpdateStaffRequest, id string) error
	UploadAvatar(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
}

type serviceImpl struct {
	repo             repository.Staff
	availabilityRepo scheduleRepo.Availability
	blockedRepo      scheduleRepo.BlockedSlot
	cfg              *config.Config
	cache            cache.RedisCache
	otel             otel.Otel
	s3               s3.S3
}

func New(repo repository.Staff, availabilityRepo scheduleRepo.Availability, blockedRepo scheduleRepo.BlockedSlot, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Staff {
	return &serviceImpl{
		repo:             repo,
		availabilityRepo: availabilityRepo,
		blockedRepo:      blockedRepo,
		cfg:              cfg,
		cache:            cache,
		otel:             otel,
		s3:               s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateStaffRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Email,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if staff exists")

		return fmt.Errorf("failed to check if staff exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("staff email already registered") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create staff")

		return fmt.Errorf("failed to create staff: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllStaff)
		shared.InvalidateCaches(c, s.cache, cacheCountStaff)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetStaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllStaff, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff list")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count staff")

		return res, fmt.Errorf("failed to count staff: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff list to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountStaff, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count staff")

		return res, fmt.Errorf("failed to count staff: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.StaffDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetStaff, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff")

		return res, nil
	}

	staff, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == constant.Empty {
		return res, failure.NotFound("staff not found") // nolint:wrapcheck
	}

	res.FromModel(staff)

	availability, err := s.availabilityRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: scheduleModel.FieldDayOfWeek, SortDir: "ASC"},
		shared.FilterByID(id, scheduleModel.FieldStaffID, scheduleModel.AvailabilityTableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff availability")

		return res, fmt.Errorf("failed to get staff availability: %w", err)
	}

	blockedFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    scheduleModel.FieldStaffID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    scheduleModel.BlockedSlotTableName,
			},
			gDto.Filter{
				ArgName:  "blocked_after",
				Field:    scheduleModel.FieldEndTime,
				Operator: gDto.FilterOperatorGreater,
				Value:    timezone.Now(),
				Table:    scheduleModel.BlockedSlotTableName,
			},
		},
	}

	blocked, err := s.blockedRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: scheduleModel.FieldStartTime, SortDir: "ASC"},
		blockedFilter,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff blocked slots")

		return res, fmt.Errorf("failed to get staff blocked slots: %w", err)
	}

	res.Availability = make([]scheduleDto.AvailabilityResponse, len(availability))
	for i, mod := range availability {
		res.Availability[i].FromModel(mod)
	}

	res.BlockedSlots = make([]scheduleDto.BlockedSlotResponse, len(blocked))
	for i, mod := range blocked {
		res.BlockedSlots[i].FromModel(mod)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateStaffRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	if req == (dto.UpdateStaffRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if staff exists")

		return fmt.Errorf("failed to check if staff exists: %w", err)
	}

	if !exist {
		return failure.NotFound("staff not found") // nolint:wrapcheck
	}

	if req.Email != nil {
		emailTakenFilter := gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldEmail,
					Operator: gDto.FilterOperatorEq,
					Value:    *req.Email,
					Table:    model.TableName,
				},
				gDto.Filter{
					Field:    model.FieldID,
					Operator: gDto.FilterOperatorNotEq,
					Value:    id,
					Table:    model.TableName,
				},
			},
		}

		taken, err := s.repo.Exist(ctx, emailTakenFilter)
		if err != nil {
			log.Error().Err(err).Msg("failed to check staff email")

			return fmt.Errorf("failed to check staff email: %w", err)
		}

		if taken {
			return failure.BadRequestFromString("staff email already registered") // nolint:wrapcheck
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update staff")

		return fmt.Errorf("failed to update staff: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadAvatar(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadAvatar")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	staff, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return constant.Empty, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == constant.Empty {
		return constant.Empty, failure.NotFound("staff not found") // nolint:wrapcheck
	}

	fileName := uuid.NewString() + path.Ext(fileHeader.Filename)
	avatarDir := s.cfg.External.S3.AvatarDir

	url, err = s.s3.UploadFile(ctx, constant.Empty, avatarDir, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload staff avatar")

		return constant.Empty, fmt.Errorf("failed to upload staff avatar: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdateAvatarRequest{AvatarURL: url}, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update staff avatar")

		return constant.Empty, fmt.Errorf("failed to update staff avatar: %w", err)
	}

	// The previous avatar is unreferenced once the row is updated.
	if staff.AvatarURL != nil && *staff.AvatarURL != constant.Empty {
		oldObject := s.s3.GetObjectNameFromURL(s.cfg.External.S3.BucketName, *staff.AvatarURL)

		go func() {
			c := context.WithoutCancel(ctx)

			if oldObject != constant.Empty {
				if err := s.s3.DeleteFile(c, s.cfg.External.S3.BucketName, constant.Empty, oldObject); err != nil {
					log.Error().Err(err).Str("object", oldObject).Msg("failed to delete old staff avatar")
				}
			}
		}()
	}

	s.invalidate(ctx, id)

	return url, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStaff, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete staff from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllStaff)
		shared.InvalidateCaches(c, s.cache, cacheCountStaff)
	}()
}

package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salon/config"
	"salon/infras/otel/mocks"
	s3Mocks "salon/infras/s3/mocks"
	scheduleMocks "salon/internal/domains/schedule/mocks"
	scheduleModel "salon/internal/domains/schedule/model"
	staffMocks "salon/internal/domains/staff/mocks"
	"salon/internal/domains/staff/model"
	"salon/internal/domains/staff/model/dto"
	"salon/internal/domains/staff/service"
	cacheMocks "salon/shared/cache/mocks"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	gModel "salon/shared/model"
	"salon/shared/timezone"
)

type staffFixture struct {
	repo         *staffMocks.MockStaff
	availability *scheduleMocks.MockAvailability
	blocked      *scheduleMocks.MockBlockedSlot
	cache        *cacheMocks.MockRedisCache
	s3           *s3Mocks.MockS3
	svc          service.Staff
}

func newStaffFixture(t *testing.T) staffFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := staffMocks.NewMockStaff(ctrl)
	availabilityRepo := scheduleMocks.NewMockAvailability(ctrl)
	blockedRepo := scheduleMocks.NewMockBlockedSlot(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	// Cache writes and invalidation run on detached goroutines, so they
	// are not pinned to exact call counts.
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "salon-assets"
	cfg.External.S3.AvatarDir = "avatars"

	return staffFixture{
		repo:         repo,
		availability: availabilityRepo,
		blocked:      blockedRepo,
		cache:        mockCache,
		s3:           mockS3,
		svc:          service.New(repo, availabilityRepo, blockedRepo, cfg, mockCache, mockOtel, mockS3),
	}
}

func activeStaff(id string) model.Staff {
	return model.Staff{
		ID:     id,
		Name:   "Ayu",
		Email:  "ayu@example.com",
		Active: true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "admin",
			ModifiedBy: "admin",
		},
	}
}

func cacheMiss(f staffFixture) {
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
}

func TestStaffService_Create(t *testing.T) {
	validReq := dto.CreateStaffRequest{
		Name:  "Ayu",
		Email: "ayu@example.com",
	}

	tests := []struct {
		name      string
		req       dto.CreateStaffRequest
		setupMock func(f staffFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  validReq,
			setupMock: func(f staffFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantErr: false,
		},
		{
			name: "email already registered",
			req:  validReq,
			setupMock: func(f staffFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "exist check fails",
			req:  validReq,
			setupMock: func(f staffFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "insert fails",
			req:  validReq,
			setupMock: func(f staffFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStaffFixture(t)
			tt.setupMock(f)

			err := f.svc.Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStaffService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldName, SortDir: gDto.SortDirAsc}

	t.Run("returns paged staff list", func(t *testing.T) {
		f := newStaffFixture(t)
		cacheMiss(f)

		models := []model.Staff{activeStaff("staff-1"), activeStaff("staff-2")}

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return(models, nil)

		res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Len(t, res.Staff, 2)
		assert.Equal(t, 12, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
	})

	t.Run("count fails", func(t *testing.T) {
		f := newStaffFixture(t)
		cacheMiss(f)

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db error"))

		_, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		assert.Error(t, err)
	})

	t.Run("repository fails", func(t *testing.T) {
		f := newStaffFixture(t)
		cacheMiss(f)

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return(nil, errors.New("db error"))

		_, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		assert.Error(t, err)
	})
}

func TestStaffService_Get(t *testing.T) {
	t.Run("returns staff with schedule detail", func(t *testing.T) {
		f := newStaffFixture(t)
		cacheMiss(f)

		staff := activeStaff("staff-1")
		availability := []scheduleModel.Availability{
			{ID: "avail-1", StaffID: "staff-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		}
		blocked := []scheduleModel.BlockedSlot{
			{ID: "blocked-1", StaffID: "staff-1", StartTime: timezone.Now(), EndTime: timezone.Now().Add(time.Hour)},
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
		f.availability.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(availability, nil)
		f.blocked.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(blocked, nil)

		res, err := f.svc.Get(context.Background(), "staff-1")

		assert.NoError(t, err)
		assert.Equal(t, "staff-1", res.ID)
		assert.Len(t, res.Availability, 1)
		assert.Len(t, res.BlockedSlots, 1)
	})

	t.Run("staff not found", func(t *testing.T) {
		f := newStaffFixture(t)
		cacheMiss(f)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Staff{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("availability lookup fails", func(t *testing.T) {
		f := newStaffFixture(t)
		cacheMiss(f)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
		f.availability.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))

		_, err := f.svc.Get(context.Background(), "staff-1")

		assert.Error(t, err)
	})
}

func TestStaffService_Update(t *testing.T) {
	name := "Ayu Lestari"
	email := "ayu.lestari@example.com"

	tests := []struct {
		name      string
		req       dto.UpdateStaffRequest
		setupMock func(f staffFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			req:  dto.UpdateStaffRequest{Name: &name},
			setupMock: func(f staffFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "empty request",
			req:       dto.UpdateStaffRequest{},
			setupMock: func(f staffFixture) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "staff not found",
			req:  dto.UpdateStaffRequest{Name: &name},
			setupMock: func(f staffFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "email taken by another staff",
			req:  dto.UpdateStaffRequest{Email: &email},
			setupMock: func(f staffFixture) {
				gomock.InOrder(
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
				)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "update fails",
			req:  dto.UpdateStaffRequest{Name: &name},
			setupMock: func(f staffFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStaffFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.req, "staff-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStaffService_UploadAvatar(t *testing.T) {
	fileHeader := &multipart.FileHeader{Filename: "avatar.png"}

	t.Run("uploads and replaces old avatar", func(t *testing.T) {
		f := newStaffFixture(t)

		oldURL := "https://salon-assets.example.com/avatars/old.png"
		staff := activeStaff("staff-1")
		staff.AvatarURL = &oldURL

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), "avatars", gomock.Any(), fileHeader, gomock.Any()).
			Return("https://salon-assets.example.com/avatars/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().GetObjectNameFromURL("salon-assets", oldURL).Return("avatars/old.png")
		f.s3.EXPECT().DeleteFile(gomock.Any(), "salon-assets", gomock.Any(), "avatars/old.png").Return(nil).AnyTimes()

		url, err := f.svc.UploadAvatar(context.Background(), "staff-1", nil, fileHeader)

		assert.NoError(t, err)
		assert.Equal(t, "https://salon-assets.example.com/avatars/new.png", url)
	})

	t.Run("staff not found", func(t *testing.T) {
		f := newStaffFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Staff{}, nil)

		_, err := f.svc.UploadAvatar(context.Background(), "missing", nil, fileHeader)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("upload fails", func(t *testing.T) {
		f := newStaffFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), "avatars", gomock.Any(), fileHeader, gomock.Any()).
			Return("", errors.New("s3 unreachable"))

		_, err := f.svc.UploadAvatar(context.Background(), "staff-1", nil, fileHeader)

		assert.Error(t, err)
	})
}

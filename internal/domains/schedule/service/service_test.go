package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salon/config"
	"salon/infras/otel/mocks"
	apptMocks "salon/internal/domains/appointment/mocks"
	apptModel "salon/internal/domains/appointment/model"
	scheduleMocks "salon/internal/domains/schedule/mocks"
	"salon/internal/domains/schedule/model"
	"salon/internal/domains/schedule/model/dto"
	"salon/internal/domains/schedule/service"
	staffMocks "salon/internal/domains/staff/mocks"
	staffModel "salon/internal/domains/staff/model"
	cacheMocks "salon/shared/cache/mocks"
	"salon/shared/constant"
	"salon/shared/timezone"
)

type scheduleFixture struct {
	availabilityRepo *scheduleMocks.MockAvailability
	blockedRepo      *scheduleMocks.MockBlockedSlot
	staffRepo        *staffMocks.MockStaff
	apptRepo         *apptMocks.MockAppointment
	svc              service.Schedule
}

func newScheduleFixture(t *testing.T) scheduleFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	availabilityRepo := scheduleMocks.NewMockAvailability(ctrl)
	blockedRepo := scheduleMocks.NewMockBlockedSlot(ctrl)
	staffRepo := staffMocks.NewMockStaff(ctrl)
	apptRepo := apptMocks.NewMockAppointment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	// Cache invalidation runs on a detached goroutine, so it may or may not
	// land before the controller is checked.
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Booking.SlotMinutes = 30
	cfg.Cache.TTL = 3600

	return scheduleFixture{
		availabilityRepo: availabilityRepo,
		blockedRepo:      blockedRepo,
		staffRepo:        staffRepo,
		apptRepo:         apptRepo,
		svc:              service.New(availabilityRepo, blockedRepo, staffRepo, apptRepo, cfg, mockCache, mockOtel),
	}
}

func activeStaff(id string) staffModel.Staff {
	return staffModel.Staff{
		ID:     id,
		Name:   "Ayu",
		Email:  "ayu@example.com",
		Active: true,
	}
}

// futureDay returns a date string one year out plus its midnight instant, so
// the in-the-past slot check never interferes with availability assertions.
func futureDay(t *testing.T) (string, time.Time) {
	t.Helper()

	date := timezone.Now().AddDate(1, 0, 0).Format(constant.DayFormat)

	day, err := timezone.Parse(constant.DayFormat, date)
	assert.NoError(t, err)

	return date, day
}

func fullDayRule(staffID string, weekday int) model.Availability {
	return model.Availability{
		ID:        "rule-1",
		StaffID:   staffID,
		DayOfWeek: weekday,
		StartTime: "09:00",
		EndTime:   "17:00",
		IsActive:  true,
	}
}

func TestScheduleService_ResolveSlots_FullOpenDay(t *testing.T) {
	f := newScheduleFixture(t)

	date, day := futureDay(t)

	f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
	f.availabilityRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Availability{fullDayRule("staff-1", int(day.Weekday()))}, nil)
	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.blockedRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.ResolveSlots(context.Background(), "staff-1", date)

	assert.NoError(t, err)
	assert.Equal(t, "staff-1", res.StaffID)
	assert.Equal(t, date, res.Date)
	assert.Len(t, res.Slots, 16)
	assert.Equal(t, "09:00", res.Slots[0].Time)
	assert.Equal(t, "16:30", res.Slots[15].Time)

	for _, slot := range res.Slots {
		assert.True(t, slot.Available, "slot %s should be available", slot.Time)
	}
}

func TestScheduleService_ResolveSlots_NoRuleForWeekday(t *testing.T) {
	f := newScheduleFixture(t)

	date, _ := futureDay(t)

	f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
	f.availabilityRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Availability{}, nil)

	res, err := f.svc.ResolveSlots(context.Background(), "staff-1", date)

	assert.NoError(t, err)
	assert.Empty(t, res.Slots)
	assert.NotNil(t, res.Slots)
}

func TestScheduleService_ResolveSlots_BlockedPeriod(t *testing.T) {
	f := newScheduleFixture(t)

	date, day := futureDay(t)

	f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
	f.availabilityRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Availability{fullDayRule("staff-1", int(day.Weekday()))}, nil)
	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.blockedRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.BlockedSlot{
			{
				ID:        "block-1",
				StaffID:   "staff-1",
				StartTime: day.Add(12 * time.Hour),
				EndTime:   day.Add(13 * time.Hour),
			},
		}, nil)

	res, err := f.svc.ResolveSlots(context.Background(), "staff-1", date)

	assert.NoError(t, err)
	assert.Len(t, res.Slots, 16)

	availability := map[string]bool{}
	for _, slot := range res.Slots {
		availability[slot.Time] = slot.Available
	}

	assert.False(t, availability["12:00"])
	assert.False(t, availability["12:30"])
	assert.True(t, availability["11:30"])
	assert.True(t, availability["13:00"])
}

func TestScheduleService_ResolveSlots_BackToBackAppointment(t *testing.T) {
	f := newScheduleFixture(t)

	date, day := futureDay(t)

	f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
	f.availabilityRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Availability{fullDayRule("staff-1", int(day.Weekday()))}, nil)
	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]apptModel.Appointment{
			{
				ID:        "appt-1",
				StaffID:   "staff-1",
				Status:    apptModel.StatusConfirmed,
				StartTime: day.Add(10 * time.Hour),
				EndTime:   day.Add(10*time.Hour + 30*time.Minute),
			},
		}, nil)
	f.blockedRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.ResolveSlots(context.Background(), "staff-1", date)

	assert.NoError(t, err)

	availability := map[string]bool{}
	for _, slot := range res.Slots {
		availability[slot.Time] = slot.Available
	}

	// The booking covers [10:00, 10:30), so the slot ending exactly at 10:00
	// and the one starting exactly at 10:30 both stay bookable.
	assert.True(t, availability["09:30"])
	assert.False(t, availability["10:00"])
	assert.True(t, availability["10:30"])
}

func TestScheduleService_ResolveSlots_PastSlotsUnavailable(t *testing.T) {
	f := newScheduleFixture(t)

	yesterday := timezone.Now().AddDate(0, 0, -1)
	date := yesterday.Format(constant.DayFormat)

	day, err := timezone.Parse(constant.DayFormat, date)
	assert.NoError(t, err)

	f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
	f.availabilityRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Availability{fullDayRule("staff-1", int(day.Weekday()))}, nil)
	f.apptRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.blockedRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.ResolveSlots(context.Background(), "staff-1", date)

	assert.NoError(t, err)
	assert.Len(t, res.Slots, 16)

	for _, slot := range res.Slots {
		assert.False(t, slot.Available, "slot %s is in the past", slot.Time)
	}
}

func TestScheduleService_ResolveSlots_Failures(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		setupMock func(f scheduleFixture)
	}{
		{
			name:      "malformed date",
			date:      "03-02-2099",
			setupMock: func(f scheduleFixture) {},
		},
		{
			name: "staff not found",
			date: "2099-03-02",
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, nil)
			},
		},
		{
			name: "staff inactive",
			date: "2099-03-02",
			setupMock: func(f scheduleFixture) {
				staff := activeStaff("staff-1")
				staff.Active = false

				f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
			},
		},
		{
			name: "malformed stored rule time",
			date: "2099-03-02",
			setupMock: func(f scheduleFixture) {
				rule := fullDayRule("staff-1", 1)
				rule.StartTime = "9am"

				f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeStaff("staff-1"), nil)
				f.availabilityRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Availability{rule}, nil)
			},
		},
		{
			name: "repository error",
			date: "2099-03-02",
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(staffModel.Staff{}, errors.New("database error"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture(t)
			tt.setupMock(f)

			_, err := f.svc.ResolveSlots(context.Background(), "staff-1", tt.date)

			assert.Error(t, err)
		})
	}
}

func TestScheduleService_ReplaceWeek(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ReplaceAvailabilityRequest
		setupMock func(f scheduleFixture)
		wantErr   bool
	}{
		{
			name: "successful replace",
			req: dto.ReplaceAvailabilityRequest{
				Windows: []dto.AvailabilityWindow{
					{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
					{DayOfWeek: 2, StartTime: "10:00", EndTime: "16:00"},
				},
			},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.availabilityRepo.EXPECT().ReplaceWeek(gomock.Any(), "staff-1", gomock.Len(2)).Return(nil)
			},
			wantErr: false,
		},
		{
			name: "end not after start",
			req: dto.ReplaceAvailabilityRequest{
				Windows: []dto.AvailabilityWindow{
					{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00"},
				},
			},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "duplicate active window for same day",
			req: dto.ReplaceAvailabilityRequest{
				Windows: []dto.AvailabilityWindow{
					{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
					{DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00"},
				},
			},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "staff not found",
			req:  dto.ReplaceAvailabilityRequest{},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			req: dto.ReplaceAvailabilityRequest{
				Windows: []dto.AvailabilityWindow{
					{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
				},
			},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.availabilityRepo.EXPECT().ReplaceWeek(gomock.Any(), "staff-1", gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture(t)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := f.svc.ReplaceWeek(ctx, "staff-1", tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleService_CreateBlockedSlot(t *testing.T) {
	start := timezone.Now().AddDate(0, 0, 7).Format(time.RFC3339)
	end := timezone.Now().AddDate(0, 0, 7).Add(time.Hour).Format(time.RFC3339)

	tests := []struct {
		name      string
		req       dto.CreateBlockedSlotRequest
		setupMock func(f scheduleFixture)
		wantErr   bool
	}{
		{
			name: "successful creation",
			req:  dto.CreateBlockedSlotRequest{StartTime: start, EndTime: end},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.blockedRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantErr: false,
		},
		{
			name: "end before start",
			req:  dto.CreateBlockedSlotRequest{StartTime: end, EndTime: start},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "unparseable time",
			req:  dto.CreateBlockedSlotRequest{StartTime: "next tuesday", EndTime: end},
			setupMock: func(f scheduleFixture) {
				f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture(t)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			res, err := f.svc.CreateBlockedSlot(ctx, "staff-1", tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
			}
		})
	}
}

func TestScheduleService_DeleteBlockedSlot(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f scheduleFixture)
		wantErr   bool
	}{
		{
			name: "successful deletion",
			setupMock: func(f scheduleFixture) {
				f.blockedRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.blockedRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantErr: false,
		},
		{
			name: "slot not found",
			setupMock: func(f scheduleFixture) {
				f.blockedRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture(t)
			tt.setupMock(f)

			err := f.svc.DeleteBlockedSlot(context.Background(), "staff-1", "slot-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleService_GetWeek(t *testing.T) {
	f := newScheduleFixture(t)

	f.staffRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.availabilityRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Availability{
			fullDayRule("staff-1", 1),
			fullDayRule("staff-1", 3),
		}, nil)

	res, err := f.svc.GetWeek(context.Background(), "staff-1")

	assert.NoError(t, err)
	assert.Len(t, res.Availability, 2)
	assert.Equal(t, 1, res.Availability[0].DayOfWeek)
}

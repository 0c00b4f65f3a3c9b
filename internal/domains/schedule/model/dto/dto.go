package dto

import (
	"time"

	"github.com/google/uuid"

	"salon/internal/domains/schedule/model"
	"salon/shared/constant"
	gModel "salon/shared/model"
	"salon/shared/timezone"
)

type AvailabilityWindow struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time"  validate:"required,clock"`
	EndTime   string `json:"end_time"    validate:"required,clock"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (w *AvailabilityWindow) ToModel(staffID, username string) model.Availability {
	isActive := true
	if w.IsActive != nil {
		isActive = *w.IsActive
	}

	return model.Availability{
		ID:        uuid.NewString(),
		StaffID:   staffID,
		DayOfWeek: w.DayOfWeek,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		IsActive:  isActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type ReplaceAvailabilityRequest struct {
	Windows []AvailabilityWindow `json:"availability" validate:"dive"`
}

type AvailabilityResponse struct {
	ID        string `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

func (r *AvailabilityResponse) FromModel(model model.Availability) {
	r.ID = model.ID
	r.DayOfWeek = model.DayOfWeek
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.IsActive = model.IsActive
}

type GetAvailabilityResponse struct {
	Availability []AvailabilityResponse `json:"availability"`
}

func (r *GetAvailabilityResponse) FromModels(models []model.Availability) {
	r.Availability = make([]AvailabilityResponse, len(models))
	for i, mod := range models {
		r.Availability[i].FromModel(mod)
	}
}

type CreateBlockedSlotRequest struct {
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time"   validate:"required"`
	Reason    *string `json:"reason,omitempty"`
}

func (c *CreateBlockedSlotRequest) ToModel(staffID, username string) (model.BlockedSlot, error) {
	startTime, err := timezone.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return model.BlockedSlot{}, err
	}

	endTime, err := timezone.Parse(constant.DateFormat, c.EndTime)
	if err != nil {
		return model.BlockedSlot{}, err
	}

	return model.BlockedSlot{
		ID:        uuid.NewString(),
		StaffID:   staffID,
		StartTime: startTime,
		EndTime:   endTime,
		Reason:    c.Reason,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}, nil
}

type BlockedSlotResponse struct {
	ID        string  `json:"id"`
	StaffID   string  `json:"staff_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *BlockedSlotResponse) FromModel(model model.BlockedSlot) {
	r.ID = model.ID
	r.StaffID = model.StaffID
	r.StartTime = model.StartTime.Format(time.RFC3339)
	r.EndTime = model.EndTime.Format(time.RFC3339)
	r.Reason = model.Reason
}

type GetBlockedSlotsResponse struct {
	BlockedSlots []BlockedSlotResponse `json:"blocked_slots"`
}

func (r *GetBlockedSlotsResponse) FromModels(models []model.BlockedSlot) {
	r.BlockedSlots = make([]BlockedSlotResponse, len(models))
	for i, mod := range models {
		r.BlockedSlots[i].FromModel(mod)
	}
}

// SlotResponse is one bookable half-hour in a staff member's day.
type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type GetSlotsResponse struct {
	StaffID string         `json:"staff_id"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}

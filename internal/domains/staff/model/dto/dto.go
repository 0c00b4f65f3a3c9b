package dto

import (
	"github.com/google/uuid"

	scheduleDto "salon/internal/domains/schedule/model/dto"
	"salon/internal/domains/staff/model"
	"salon/shared"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"
)

type CreateStaffRequest struct {
	Name  string  `json:"name"  validate:"required,max=100"`
	Email string  `json:"email" validate:"required,email,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

func (c *CreateStaffRequest) ToModel(username string) model.Staff {
	return model.Staff{
		ID:     uuid.NewString(),
		Name:   c.Name,
		Email:  c.Email,
		Phone:  c.Phone,
		Active: true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateStaffRequest struct {
	Name   *string `db:"name"   json:"name,omitempty"   validate:"omitempty,max=100"`
	Email  *string `db:"email"  json:"email,omitempty"  validate:"omitempty,email,max=100"`
	Phone  *string `db:"phone"  json:"phone,omitempty"  validate:"omitempty,max=20"`
	Active *bool   `db:"active" json:"active,omitempty"`
}

type UpdateAvatarRequest struct {
	AvatarURL string `db:"avatar_url"`
}

type StaffResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(model model.Staff) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.AvatarURL = model.AvatarURL
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

// StaffDetailResponse joins the staff row with its weekly schedule and
// upcoming blocked slots for the admin detail view.
type StaffDetailResponse struct {
	StaffResponse
	Availability []scheduleDto.AvailabilityResponse `json:"availability"`
	BlockedSlots []scheduleDto.BlockedSlotResponse  `json:"blocked_slots"`
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}

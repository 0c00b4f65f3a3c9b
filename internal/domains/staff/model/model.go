package model

import "salon/shared/model"

const (
	TableName  = "staff"
	EntityName = "staff"

	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldAvatarURL = "avatar_url"
	FieldActive    = "active"
)

type Staff struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	Email     string  `db:"email"`
	Phone     *string `db:"phone"`
	AvatarURL *string `db:"avatar_url"`
	Active    bool    `db:"active"`
	model.Metadata
}

package user

import (
	"github.com/ysaito/personal-calendar/internal/model"
)

type userDTO struct {
	ID       int64
	FullName string
	Email    string
	Photo    string
}

func mapToUser(dto *userDTO) *model.User {
	return &model.User{
		ID: dto.ID,
		UserCreate: model.UserCreate{
			FullName: dto.FullName,
			Email:    dto.Email,
			Photo:    dto.Photo,
		},
	}
}

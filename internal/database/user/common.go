package user

import (
	"github.com/ysaito/personal-calendar/internal/database"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"full_name",
		"email",
		"photo",
	).
	From(database.UsersTable)

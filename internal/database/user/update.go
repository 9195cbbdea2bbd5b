package user

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ysaito/personal-calendar/internal/database"
	"github.com/ysaito/personal-calendar/internal/model"
)

func (*Repository) UpdateUser(ctx context.Context, q database.Queryable, user *model.User) error {
	qb := database.PSQL.
		Update(database.UsersTable).
		SetMap(map[string]interface{}{
			"full_name": user.FullName,
			"email":     user.Email,
			"photo":     user.Photo,
		}).
		Where(sq.Eq{"id": user.ID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

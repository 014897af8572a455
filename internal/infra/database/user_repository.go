package database

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UserRepository struct {
	DB Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	query, args, err := psql.Select("id", "first_name", "last_name", "display_name", "email", "role", "is_active").
		From("user_profiles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u entity.UserProfile
	err = querierFromCtx(ctx, r.DB).QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.DisplayName,
		&u.Email,
		&u.Role,
		&u.IsActive,
	)
	if err != nil {
		return nil, mapError(err, "user_profile", id)
	}
	return &u, nil
}

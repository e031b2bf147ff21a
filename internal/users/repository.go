package users

import (
	"context"
	"database/sql"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// UserRepository reads operators together with their role from the role
// registry.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// User returns nil, nil when the id is unknown. A role name outside the
// closed set is passed through as is and fails Role.Valid.
func (r *UserRepository) User(ctx context.Context, id string) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, ro.name, u.active
		FROM users u
		JOIN roles ro ON ro.id = u.role_id
		WHERE u.id = $1
	`, id).Scan(&u.ID, &u.Name, &role, &u.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	u.Role = domain.Role(role)
	if parsed, err := domain.ParseRole(role); err == nil {
		u.Role = parsed
	}

	return &u, nil
}

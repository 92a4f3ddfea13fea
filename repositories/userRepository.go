package repositories

import (
	"context"

	"OdontoSystem/database"
	"OdontoSystem/models"
)

type UserRepository struct {
	rows tableRepository[models.User]
}

func NewUserRepository(store database.Store) *UserRepository {
	return &UserRepository{rows: newTableRepository[models.User](store, database.TableUsers)}
}

// GetAll returns every user ordered by name.
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return r.rows.list(ctx, database.NewQuery().OrderBy("name", false))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.rows.get(ctx, id)
}

// GetByEmail looks a user up by normalized e-mail.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.rows.first(ctx, database.NewQuery().Eq("email", models.NormalizeEmail(email)))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.rows.insert(ctx, user)
}

func (r *UserRepository) Update(ctx context.Context, id string, patch map[string]any) (*models.User, error) {
	return r.rows.update(ctx, id, patch)
}

// TouchLastAccess records the time of the user's latest login.
func (r *UserRepository) TouchLastAccess(ctx context.Context, id string, at models.DateTime) error {
	_, err := r.rows.update(ctx, id, map[string]any{"last_access_at": at})
	return err
}

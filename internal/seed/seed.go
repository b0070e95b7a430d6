package seed

import (
	"context"
	"errors"
	"fmt"

	"crm-backoffice/internal/domain"
	userrepo "crm-backoffice/internal/repository/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "ChangeMe123"
)

// Apply creates the default admin account when no user with its email
// exists yet.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := userrepo.NewPostgres(pool)

	_, err := repo.GetByEmail(ctx, defaultAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("lookup admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = repo.Create(ctx, domain.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        defaultAdminEmail,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

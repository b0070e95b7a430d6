package customer

import (
	"context"

	"crm-backoffice/internal/domain"
)

// Repository persists and fetches customer aggregates. A customer row holds
// its addresses and contact persons embedded, so every write is atomic at
// the aggregate level. Update checks the aggregate version and returns
// domain.ErrConflict when a concurrent writer got there first.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetAll(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	HighestIntNr(ctx context.Context) (string, error)
	ExistsByIntNr(ctx context.Context, intNr string) (bool, error)
}

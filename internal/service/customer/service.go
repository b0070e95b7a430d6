package customer

import (
	"context"
	"errors"
	"io"

	"crm-backoffice/internal/domain"
	custrepo "crm-backoffice/internal/repository/customer"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// writeAttempts bounds retries for the two races the aggregate store has:
// duplicate intNr on concurrent creation and version conflicts on
// concurrent sub-entity writes.
const writeAttempts = 3

// Service owns the customer aggregate lifecycle: creation with identifier
// assignment, type updates, sub-entity CRUD with linkage maintenance, and
// the flattened export view.
type Service struct {
	repo   custrepo.Repository
	logger *logrus.Logger
}

// New creates a Service.
func New(repo custrepo.Repository, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Service{repo: repo, logger: logger}
}

// AddressInput mirrors incoming address payloads.
type AddressInput struct {
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	Street      string `json:"street"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Fax         string `json:"fax"`
}

// ContactPersonInput mirrors incoming contact payloads. AddressIndex picks
// which of the submitted addresses the contact links to; nil falls back to
// the first address.
type ContactPersonInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BirthDate    string `json:"birthDate"`
	AddressIndex *int   `json:"addressIndex"`
}

// CreateInput captures fields expected by the create endpoint.
type CreateInput struct {
	Type           string               `json:"type"`
	Addresses      []AddressInput       `json:"addresses"`
	ContactPersons []ContactPersonInput `json:"contactPersons"`
}

// Create validates the payload, assigns the next business identifier and
// persists the aggregate in one write. A duplicate identifier produced by a
// concurrent creation is retried with a freshly generated one.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	addresses := make([]domain.Address, 0, len(in.Addresses))
	for _, a := range in.Addresses {
		addresses = append(addresses, domain.Address{
			ID:          uuid.NewString(),
			CompanyName: a.CompanyName,
			Country:     a.Country,
			Zip:         a.Zip,
			City:        a.City,
			Street:      a.Street,
			Email:       a.Email,
			Phone:       a.Phone,
			Fax:         a.Fax,
		})
	}

	contacts := make([]domain.ContactPerson, 0, len(in.ContactPersons))
	for _, p := range in.ContactPersons {
		idx := 0
		if p.AddressIndex != nil {
			idx = *p.AddressIndex
		}
		contacts = append(contacts, domain.ContactPerson{
			ID:        uuid.NewString(),
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Phone:     p.Phone,
			BirthDate: p.BirthDate,
			AddressID: addresses[idx].ID,
		})
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		intNr, err := s.nextBusinessID(ctx)
		if err != nil {
			return nil, err
		}
		created, err := s.repo.Create(ctx, domain.Customer{
			IntNr:          intNr,
			Type:           domain.CustomerType(in.Type),
			Addresses:      addresses,
			ContactPersons: contacts,
		})
		if err == nil {
			return created, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.WithField("int_nr", intNr).Warn("customer create: identifier taken, regenerating")
			continue
		}
		return nil, err
	}
	return nil, domain.ErrConflict
}

// UpdateType applies the type field to an existing customer. Everything
// else, the business identifier above all, is preserved from the stored
// document no matter what the request carried.
func (s *Service) UpdateType(ctx context.Context, id, typ string) (*domain.Customer, error) {
	if !domain.CustomerType(typ).Valid() {
		verr := &domain.ValidationError{}
		verr.Add("type must be one of DEALER, COMPANY, PRIVATE")
		return nil, verr
	}
	return s.mutate(ctx, id, func(c *domain.Customer) error {
		c.Type = domain.CustomerType(typ)
		return nil
	})
}

// Delete removes the aggregate. Addresses and contact persons live inside
// the customer row, so the delete cascades by construction.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// GetByID returns one fully resolved aggregate.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAll returns every aggregate. No pagination; the dataset is a back
// office customer list, and callers get the full scan the store does.
func (s *Service) GetAll(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.GetAll(ctx)
}

// mutate runs a read-modify-write cycle under optimistic concurrency,
// re-reading and re-applying fn when a concurrent writer wins the version
// check.
func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.Customer) error) (*domain.Customer, error) {
	for attempt := 0; attempt < writeAttempts; attempt++ {
		c, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(c); err != nil {
			return nil, err
		}
		updated, err := s.repo.Update(ctx, *c)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, domain.ErrConflict) {
			s.logger.WithField("customer_id", id).Warn("customer update: version conflict, retrying")
			continue
		}
		return nil, err
	}
	return nil, domain.ErrConflict
}

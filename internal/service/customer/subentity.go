package customer

import (
	"context"

	"crm-backoffice/internal/domain"
	"github.com/google/uuid"
)

// AddressPatch carries a partial address update; nil fields are left as
// stored.
type AddressPatch struct {
	CompanyName *string `json:"companyName"`
	Country     *string `json:"country"`
	Zip         *string `json:"zip"`
	City        *string `json:"city"`
	Street      *string `json:"street"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Fax         *string `json:"fax"`
}

// ContactPatch carries a partial contact person update. AddressID, when
// set, must reference an address of the same customer; an empty string
// unlinks the contact.
type ContactPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birthDate"`
	AddressID *string `json:"address"`
}

// AddAddress validates and appends a new address to the aggregate.
func (s *Service) AddAddress(ctx context.Context, customerID string, in AddressInput) (*domain.Customer, error) {
	addr := domain.Address{
		ID:          uuid.NewString(),
		CompanyName: in.CompanyName,
		Country:     in.Country,
		Zip:         in.Zip,
		City:        in.City,
		Street:      in.Street,
		Email:       in.Email,
		Phone:       in.Phone,
		Fax:         in.Fax,
	}
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		c.Addresses = append(c.Addresses, addr)
		return nil
	})
}

// UpdateAddress merges the supplied fields over the stored address and
// re-validates the result.
func (s *Service) UpdateAddress(ctx context.Context, customerID, addressID string, patch AddressPatch) (*domain.Customer, error) {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		addr := c.AddressByID(addressID)
		if addr == nil {
			return domain.ErrNotFound
		}
		merged := *addr
		apply(&merged.CompanyName, patch.CompanyName)
		apply(&merged.Country, patch.Country)
		apply(&merged.Zip, patch.Zip)
		apply(&merged.City, patch.City)
		apply(&merged.Street, patch.Street)
		apply(&merged.Email, patch.Email)
		apply(&merged.Phone, patch.Phone)
		apply(&merged.Fax, patch.Fax)
		if err := validateAddress(merged); err != nil {
			return err
		}
		*addr = merged
		return nil
	})
}

// DeleteAddress removes an address and, in the same write, unlinks every
// contact person that referenced it. The last remaining address cannot be
// removed.
func (s *Service) DeleteAddress(ctx context.Context, customerID, addressID string) (*domain.Customer, error) {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		if c.AddressByID(addressID) == nil {
			return domain.ErrNotFound
		}
		if len(c.Addresses) == 1 {
			return &domain.InvariantError{Rule: "at least one address required"}
		}
		kept := make([]domain.Address, 0, len(c.Addresses)-1)
		for _, a := range c.Addresses {
			if a.ID != addressID {
				kept = append(kept, a)
			}
		}
		c.Addresses = kept
		for i := range c.ContactPersons {
			if c.ContactPersons[i].AddressID == addressID {
				c.ContactPersons[i].AddressID = ""
			}
		}
		return nil
	})
}

// AddContactPerson validates and appends a new contact person. The address
// reference starts out empty; linkage happens at creation time or through
// an explicit update.
func (s *Service) AddContactPerson(ctx context.Context, customerID string, in ContactPersonInput) (*domain.Customer, error) {
	contact := domain.ContactPerson{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		c.ContactPersons = append(c.ContactPersons, contact)
		return nil
	})
}

// UpdateContactPerson merges the supplied fields over the stored contact
// and re-validates. A non-empty address reference must point at an address
// currently present in the aggregate.
func (s *Service) UpdateContactPerson(ctx context.Context, customerID, contactID string, patch ContactPatch) (*domain.Customer, error) {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		contact := c.ContactByID(contactID)
		if contact == nil {
			return domain.ErrNotFound
		}
		merged := *contact
		apply(&merged.FirstName, patch.FirstName)
		apply(&merged.LastName, patch.LastName)
		apply(&merged.Email, patch.Email)
		apply(&merged.Phone, patch.Phone)
		apply(&merged.BirthDate, patch.BirthDate)
		apply(&merged.AddressID, patch.AddressID)
		if err := validateContact(merged); err != nil {
			return err
		}
		if merged.AddressID != "" && c.AddressByID(merged.AddressID) == nil {
			verr := &domain.ValidationError{}
			verr.Add("contactPerson.address must reference an address of the same customer")
			return verr
		}
		*contact = merged
		return nil
	})
}

// DeleteContactPerson removes a contact person. The last remaining contact
// cannot be removed.
func (s *Service) DeleteContactPerson(ctx context.Context, customerID, contactID string) (*domain.Customer, error) {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		if c.ContactByID(contactID) == nil {
			return domain.ErrNotFound
		}
		if len(c.ContactPersons) == 1 {
			return &domain.InvariantError{Rule: "at least one contact person required"}
		}
		kept := make([]domain.ContactPerson, 0, len(c.ContactPersons)-1)
		for _, p := range c.ContactPersons {
			if p.ID != contactID {
				kept = append(kept, p)
			}
		}
		c.ContactPersons = kept
		return nil
	})
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

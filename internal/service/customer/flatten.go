package customer

import (
	"context"

	"crm-backoffice/internal/domain"
)

// FlatExport builds the denormalized customer/address/contact listing: one
// row per contact person linked to an address, and a single contact-less
// row for addresses nobody links to.
func (s *Service) FlatExport(ctx context.Context) ([]domain.FlatRow, error) {
	customers, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.FlatRow, 0, len(customers))
	for i := range customers {
		rows = append(rows, Flatten(&customers[i])...)
	}
	return rows, nil
}

// Flatten expands a single aggregate into flat rows.
func Flatten(c *domain.Customer) []domain.FlatRow {
	var rows []domain.FlatRow
	for i := range c.Addresses {
		addr := &c.Addresses[i]
		base := domain.FlatRow{
			ID:          c.ID,
			IntNr:       c.IntNr,
			Type:        string(c.Type),
			CompanyName: optional(addr.CompanyName),
			Country:     addr.Country,
			Zip:         addr.Zip,
			City:        addr.City,
			Street:      addr.Street,
			Email:       optional(addr.Email),
			Phone:       optional(addr.Phone),
			Fax:         optional(addr.Fax),
			AddressID:   &addr.ID,
		}

		linked := false
		for j := range c.ContactPersons {
			contact := &c.ContactPersons[j]
			if contact.AddressID != addr.ID {
				continue
			}
			row := base
			row.FirstName = &contact.FirstName
			row.LastName = &contact.LastName
			row.ContactEmail = optional(contact.Email)
			row.ContactPhone = optional(contact.Phone)
			row.BirthDate = optional(contact.BirthDate)
			row.ContactID = &contact.ID
			rows = append(rows, row)
			linked = true
		}
		if !linked {
			rows = append(rows, base)
		}
	}
	return rows
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

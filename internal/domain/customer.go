package domain

import "time"

// CustomerType enumerates the allowed customer categories.
type CustomerType string

const (
	TypeDealer  CustomerType = "DEALER"
	TypeCompany CustomerType = "COMPANY"
	TypePrivate CustomerType = "PRIVATE"
)

// Valid reports whether t is one of the known customer types.
func (t CustomerType) Valid() bool {
	switch t {
	case TypeDealer, TypeCompany, TypePrivate:
		return true
	}
	return false
}

// Address is an embedded child of Customer with no independent lifecycle.
type Address struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName,omitempty"`
	Country     string `json:"country"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	Street      string `json:"street"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Fax         string `json:"fax,omitempty"`
}

// ContactPerson is an embedded child of Customer. AddressID is a weak
// reference to an Address of the same customer; empty means unlinked.
type ContactPerson struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	AddressID string `json:"address,omitempty"`
}

// Customer is the aggregate root. Addresses and ContactPersons are owned
// exclusively by the customer and both hold at least one element after
// creation. IntNr is assigned once and never changes.
type Customer struct {
	ID             string          `json:"id"`
	IntNr          string          `json:"intNr"`
	Type           CustomerType    `json:"type"`
	Addresses      []Address       `json:"addresses"`
	ContactPersons []ContactPerson `json:"contactPersons"`
	Version        int             `json:"-"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AddressByID returns a pointer into Addresses, or nil if absent.
func (c *Customer) AddressByID(id string) *Address {
	for i := range c.Addresses {
		if c.Addresses[i].ID == id {
			return &c.Addresses[i]
		}
	}
	return nil
}

// ContactByID returns a pointer into ContactPersons, or nil if absent.
func (c *Customer) ContactByID(id string) *ContactPerson {
	for i := range c.ContactPersons {
		if c.ContactPersons[i].ID == id {
			return &c.ContactPersons[i]
		}
	}
	return nil
}

// FlatRow is the denormalized customer/address/contact projection used by
// the export listing. Contact columns are null when an address has no
// linked contact person.
type FlatRow struct {
	ID           string  `json:"id"`
	IntNr        string  `json:"intNr"`
	Type         string  `json:"type"`
	CompanyName  *string `json:"companyName"`
	Country      string  `json:"country"`
	Zip          string  `json:"zip"`
	City         string  `json:"city"`
	Street       string  `json:"street"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Fax          *string `json:"fax"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
	BirthDate    *string `json:"birthDate"`
	AddressID    *string `json:"aId"`
	ContactID    *string `json:"cId"`
}

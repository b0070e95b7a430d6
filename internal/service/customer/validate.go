package customer

import (
	"fmt"
	"regexp"
	"time"

	"crm-backoffice/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 /()-]{1,18}$`)
)

func validateCreate(in CreateInput) error {
	verr := &domain.ValidationError{}
	if !domain.CustomerType(in.Type).Valid() {
		verr.Add("type must be one of DEALER, COMPANY, PRIVATE")
	}
	if len(in.Addresses) == 0 {
		verr.Add("at least one address is required")
	}
	if len(in.ContactPersons) == 0 {
		verr.Add("at least one contact person is required")
	}
	for i, a := range in.Addresses {
		validateAddressFields(verr, fmt.Sprintf("addresses[%d]", i), domain.Address{
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
	for i, p := range in.ContactPersons {
		field := fmt.Sprintf("contactPersons[%d]", i)
		validateContactFields(verr, field, domain.ContactPerson{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Phone:     p.Phone,
			BirthDate: p.BirthDate,
		})
		if p.AddressIndex != nil && (*p.AddressIndex < 0 || *p.AddressIndex >= len(in.Addresses)) {
			verr.Add("%s.addressIndex %d is out of range", field, *p.AddressIndex)
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func validateAddress(a domain.Address) error {
	verr := &domain.ValidationError{}
	validateAddressFields(verr, "address", a)
	if verr.Empty() {
		return nil
	}
	return verr
}

func validateContact(p domain.ContactPerson) error {
	verr := &domain.ValidationError{}
	validateContactFields(verr, "contactPerson", p)
	if verr.Empty() {
		return nil
	}
	return verr
}

func validateAddressFields(verr *domain.ValidationError, field string, a domain.Address) {
	requireMax(verr, field+".companyName", a.CompanyName, false, 50)
	requireMax(verr, field+".country", a.Country, true, 50)
	if len(a.Zip) != 5 {
		verr.Add("%s.zip must be exactly 5 characters", field)
	}
	requireMax(verr, field+".city", a.City, true, 50)
	requireMax(verr, field+".street", a.Street, true, 100)
	optionalEmail(verr, field+".email", a.Email)
	optionalPhone(verr, field+".phone", a.Phone)
	optionalPhone(verr, field+".fax", a.Fax)
}

func validateContactFields(verr *domain.ValidationError, field string, p domain.ContactPerson) {
	requireMax(verr, field+".firstName", p.FirstName, true, 50)
	requireMax(verr, field+".lastName", p.LastName, true, 50)
	optionalEmail(verr, field+".email", p.Email)
	optionalPhone(verr, field+".phone", p.Phone)
	if p.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", p.BirthDate); err != nil {
			verr.Add("%s.birthDate must be formatted YYYY-MM-DD", field)
		}
	}
}

func requireMax(verr *domain.ValidationError, field, value string, required bool, max int) {
	if required && value == "" {
		verr.Add("%s is required", field)
		return
	}
	if len(value) > max {
		verr.Add("%s must be at most %d characters", field, max)
	}
}

func optionalEmail(verr *domain.ValidationError, field, value string) {
	if value != "" && !emailPattern.MatchString(value) {
		verr.Add("%s is not a valid email address", field)
	}
}

func optionalPhone(verr *domain.ValidationError, field, value string) {
	if value != "" && !phonePattern.MatchString(value) {
		verr.Add("%s is not a valid phone number", field)
	}
}

package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"crm-backoffice/internal/domain"
)

// memRepo is an in-memory Repository with the same version-checking
// behavior as the Postgres implementation.
type memRepo struct {
	customers       map[string]*domain.Customer
	seq             int
	createErrs      []error
	updateConflicts int
	getErr          error
}

func newMemRepo() *memRepo {
	return &memRepo{customers: map[string]*domain.Customer{}}
}

func clone(c *domain.Customer) *domain.Customer {
	cp := *c
	cp.Addresses = append([]domain.Address(nil), c.Addresses...)
	cp.ContactPersons = append([]domain.ContactPerson(nil), c.ContactPersons...)
	return &cp
}

func (r *memRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	for _, existing := range r.customers {
		if existing.IntNr == c.IntNr {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("cust-%d", r.seq)
	c.Version = 1
	r.customers[c.ID] = clone(&c)
	return clone(&c), nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(c), nil
}

func (r *memRepo) GetAll(_ context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range r.customers {
		out = append(out, *clone(c))
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	stored, ok := r.customers[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.updateConflicts > 0 {
		r.updateConflicts--
		return nil, domain.ErrConflict
	}
	if stored.Version != c.Version {
		return nil, domain.ErrConflict
	}
	c.Version++
	c.IntNr = stored.IntNr
	c.CreatedAt = stored.CreatedAt
	r.customers[c.ID] = clone(&c)
	return clone(&c), nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *memRepo) HighestIntNr(_ context.Context) (string, error) {
	best := ""
	for _, c := range r.customers {
		if len(c.IntNr) > len(best) || (len(c.IntNr) == len(best) && c.IntNr > best) {
			best = c.IntNr
		}
	}
	return best, nil
}

func (r *memRepo) ExistsByIntNr(_ context.Context, intNr string) (bool, error) {
	for _, c := range r.customers {
		if c.IntNr == intNr {
			return true, nil
		}
	}
	return false, nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		Type: "PRIVATE",
		Addresses: []AddressInput{
			{Country: "DE", Zip: "12345", City: "Berlin", Street: "Main 1"},
		},
		ContactPersons: []ContactPersonInput{
			{FirstName: "A", LastName: "B", BirthDate: "1990-01-01"},
		},
	}
}

func TestCreateAssignsFirstIdentifier(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	got, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IntNr != "K-0001" {
		t.Fatalf("expected K-0001, got %s", got.IntNr)
	}
	if len(got.Addresses) != 1 || len(got.ContactPersons) != 1 {
		t.Fatalf("unexpected aggregate shape: %+v", got)
	}
	if got.ContactPersons[0].AddressID != got.Addresses[0].ID {
		t.Fatalf("contact not linked to the persisted address")
	}
}

func TestCreateIdentifierMonotonicity(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	for i := 1; i <= 12; i++ {
		got, err := svc.Create(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("create %d: unexpected error: %v", i, err)
		}
		want := fmt.Sprintf("K-%04d", i)
		if got.IntNr != want {
			t.Fatalf("create %d: expected %s, got %s", i, want, got.IntNr)
		}
	}
}

func TestCreateValidationCollectsMessages(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	in := validCreateInput()
	in.Addresses[0].Zip = "1234"
	in.Type = "WHOLESALE"

	_, err := svc.Create(context.Background(), in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	joined := strings.Join(verr.Messages, "\n")
	if !strings.Contains(joined, "zip must be exactly 5 characters") {
		t.Fatalf("missing zip message in %q", joined)
	}
	if !strings.Contains(joined, "type must be one of") {
		t.Fatalf("missing type message in %q", joined)
	}
	if len(repo.customers) != 0 {
		t.Fatalf("nothing should be persisted on validation failure")
	}
}

func TestCreateRequiresAddressAndContact(t *testing.T) {
	svc := New(newMemRepo(), nil)

	in := validCreateInput()
	in.Addresses = nil
	in.ContactPersons = nil

	_, err := svc.Create(context.Background(), in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	joined := strings.Join(verr.Messages, "\n")
	if !strings.Contains(joined, "at least one address") || !strings.Contains(joined, "at least one contact person") {
		t.Fatalf("missing cardinality messages in %q", joined)
	}
}

func TestCreateLinksContactsPerAddressIndex(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	one := 1
	in := CreateInput{
		Type: "COMPANY",
		Addresses: []AddressInput{
			{Country: "DE", Zip: "12345", City: "Berlin", Street: "Main 1"},
			{Country: "DE", Zip: "54321", City: "Hamburg", Street: "Hafen 2"},
		},
		ContactPersons: []ContactPersonInput{
			{FirstName: "A", LastName: "B"},
			{FirstName: "C", LastName: "D", AddressIndex: &one},
		},
	}

	got, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ContactPersons[0].AddressID != got.Addresses[0].ID {
		t.Fatalf("contact without index should link to the first address")
	}
	if got.ContactPersons[1].AddressID != got.Addresses[1].ID {
		t.Fatalf("contact with index 1 should link to the second address")
	}
}

func TestCreateAddressIndexOutOfRange(t *testing.T) {
	svc := New(newMemRepo(), nil)

	five := 5
	in := validCreateInput()
	in.ContactPersons[0].AddressIndex = &five

	_, err := svc.Create(context.Background(), in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRetriesOnDuplicateIdentifier(t *testing.T) {
	repo := newMemRepo()
	repo.createErrs = []error{domain.ErrAlreadyExists}
	svc := New(repo, nil)

	got, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IntNr != "K-0001" {
		t.Fatalf("expected K-0001 after retry, got %s", got.IntNr)
	}
}

func TestCreateGivesUpAfterRepeatedDuplicates(t *testing.T) {
	repo := newMemRepo()
	repo.createErrs = []error{domain.ErrAlreadyExists, domain.ErrAlreadyExists, domain.ErrAlreadyExists}
	svc := New(repo, nil)

	_, err := svc.Create(context.Background(), validCreateInput())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestNextBusinessIDMalformed(t *testing.T) {
	repo := newMemRepo()
	repo.customers["x"] = &domain.Customer{ID: "x", IntNr: "BROKEN-7"}
	svc := New(repo, nil)

	_, err := svc.Create(context.Background(), validCreateInput())
	var merr *domain.MalformedIdentifierError
	if !errors.As(err, &merr) {
		t.Fatalf("expected malformed identifier error, got %v", err)
	}
	if merr.IntNr != "BROKEN-7" {
		t.Fatalf("unexpected identifier in error: %s", merr.IntNr)
	}
}

func TestNextBusinessIDBeyondFourDigits(t *testing.T) {
	repo := newMemRepo()
	repo.customers["x"] = &domain.Customer{ID: "x", IntNr: "K-9999"}
	svc := New(repo, nil)

	got, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IntNr != "K-10000" {
		t.Fatalf("expected K-10000, got %s", got.IntNr)
	}
}

func TestUpdateTypePreservesEverythingElse(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateType(context.Background(), created.ID, "DEALER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Type != domain.TypeDealer {
		t.Fatalf("expected DEALER, got %s", updated.Type)
	}
	if updated.IntNr != created.IntNr {
		t.Fatalf("intNr must never change: had %s, got %s", created.IntNr, updated.IntNr)
	}
	if len(updated.Addresses) != 1 || len(updated.ContactPersons) != 1 {
		t.Fatalf("sub-entities must be preserved: %+v", updated)
	}
}

func TestUpdateTypeInvalid(t *testing.T) {
	svc := New(newMemRepo(), nil)
	_, err := svc.UpdateType(context.Background(), "missing", "RETAIL")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateTypeNotFound(t *testing.T) {
	svc := New(newMemRepo(), nil)
	_, err := svc.UpdateType(context.Background(), "missing", "DEALER")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMutateRetriesOnVersionConflict(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.updateConflicts = 1
	updated, err := svc.UpdateType(context.Background(), created.ID, "COMPANY")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if updated.Type != domain.TypeCompany {
		t.Fatalf("expected COMPANY, got %s", updated.Type)
	}
}

func TestMutateGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.updateConflicts = writeAttempts
	_, err = svc.UpdateType(context.Background(), created.ID, "COMPANY")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteCustomer(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, nil)

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

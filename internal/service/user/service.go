package user

import (
	"context"
	"regexp"
	"strings"

	"crm-backoffice/internal/domain"
	userrepo "crm-backoffice/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service manages staff user accounts.
type Service struct {
	repo        userrepo.Repository
	passwordMin int
}

// New creates a Service.
func New(repo userrepo.Repository) *Service {
	return &Service{repo: repo, passwordMin: 8}
}

// Input captures the fields of the user create and update endpoints. The
// password is always replaced on update, matching how the back office
// resets staff credentials.
type Input struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Create registers a new staff user with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, in Input) (*domain.User, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hashed),
	})
}

// Update replaces the user's fields, re-hashing the supplied password.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.User, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Email = strings.ToLower(strings.TrimSpace(in.Email))
	existing.PasswordHash = string(hashed)
	return s.repo.Update(ctx, *existing)
}

// Delete removes a staff user.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(in Input) error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.FirstName) == "" {
		verr.Add("firstName is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		verr.Add("lastName is required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		verr.Add("email is not a valid email address")
	}
	if len(strings.TrimSpace(in.Password)) < s.passwordMin {
		verr.Add("password must be at least %d characters", s.passwordMin)
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

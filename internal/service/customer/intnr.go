package customer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"crm-backoffice/internal/domain"
)

var intNrPattern = regexp.MustCompile(`^K-(\d{4,})$`)

// nextBusinessID derives the next K-NNNN identifier from the highest one
// currently stored. It is a pure query against current state each call; the
// uniqueness race with concurrent creators is handled by the caller
// retrying on a duplicate-key write.
func (s *Service) nextBusinessID(ctx context.Context) (string, error) {
	highest, err := s.repo.HighestIntNr(ctx)
	if err != nil {
		return "", err
	}
	if highest == "" {
		return "K-0001", nil
	}
	m := intNrPattern.FindStringSubmatch(highest)
	if m == nil {
		return "", &domain.MalformedIdentifierError{IntNr: highest}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", &domain.MalformedIdentifierError{IntNr: highest}
	}
	return fmt.Sprintf("K-%04d", n+1), nil
}

package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"crm-backoffice/internal/domain"
	customersvc "crm-backoffice/internal/service/customer"
	usersvc "crm-backoffice/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type stubCustomerSvc struct {
	customer *domain.Customer
	rows     []domain.FlatRow
	err      error

	lastCreate    customersvc.CreateInput
	lastPatchAddr customersvc.AddressPatch
	lastType      string
}

func (s *stubCustomerSvc) Create(_ context.Context, in customersvc.CreateInput) (*domain.Customer, error) {
	s.lastCreate = in
	return s.customer, s.err
}

func (s *stubCustomerSvc) UpdateType(_ context.Context, _, typ string) (*domain.Customer, error) {
	s.lastType = typ
	return s.customer, s.err
}

func (s *stubCustomerSvc) Delete(_ context.Context, _ string) error {
	return s.err
}

func (s *stubCustomerSvc) GetByID(_ context.Context, _ string) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerSvc) FlatExport(_ context.Context) ([]domain.FlatRow, error) {
	return s.rows, s.err
}

func (s *stubCustomerSvc) AddAddress(_ context.Context, _ string, _ customersvc.AddressInput) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerSvc) UpdateAddress(_ context.Context, _, _ string, patch customersvc.AddressPatch) (*domain.Customer, error) {
	s.lastPatchAddr = patch
	return s.customer, s.err
}

func (s *stubCustomerSvc) DeleteAddress(_ context.Context, _, _ string) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerSvc) AddContactPerson(_ context.Context, _ string, _ customersvc.ContactPersonInput) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerSvc) UpdateContactPerson(_ context.Context, _, _ string, _ customersvc.ContactPatch) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerSvc) DeleteContactPerson(_ context.Context, _, _ string) (*domain.Customer, error) {
	return s.customer, s.err
}

type stubAuthSvc struct {
	user       *domain.User
	loginErr   error
	refreshErr error
	verifyErr  error
}

func (s *stubAuthSvc) Login(_ context.Context, _, _ string) (*domain.User, string, string, error) {
	return s.user, "access", "refresh", s.loginErr
}

func (s *stubAuthSvc) Refresh(_ context.Context, _ string) (string, string, error) {
	return "access2", "refresh2", s.refreshErr
}

func (s *stubAuthSvc) Logout(_ context.Context, _ string) error {
	return nil
}

func (s *stubAuthSvc) VerifyAccess(token string) (string, error) {
	if s.verifyErr != nil {
		return "", s.verifyErr
	}
	if token != "valid-token" {
		return "", errInvalid
	}
	return "u1", nil
}

var errInvalid = errors.New("invalid token")

type stubUserSvc struct {
	user *domain.User
	err  error
}

func (s *stubUserSvc) Create(_ context.Context, _ usersvc.Input) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserSvc) Update(_ context.Context, _ string, _ usersvc.Input) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserSvc) Delete(_ context.Context, _ string) error {
	return s.err
}

func logDiscard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.AuthSvc == nil {
		deps.AuthSvc = &stubAuthSvc{}
	}
	if deps.CustomerSvc == nil {
		deps.CustomerSvc = &stubCustomerSvc{}
	}
	if deps.UserSvc == nil {
		deps.UserSvc = &stubUserSvc{}
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRouteMissingToken(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodDelete, "/customers/c1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestProtectedRouteInvalidToken(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodDelete, "/customers/c1", nil)
	req.Header.Set("x-access-token", "garbage")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestPublicReadRouteNeedsNoToken(t *testing.T) {
	router := testRouter(t, Deps{CustomerSvc: &stubCustomerSvc{rows: []domain.FlatRow{}}})

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

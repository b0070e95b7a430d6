package httpserver

import (
	"context"
	"time"

	"crm-backoffice/internal/domain"
	"crm-backoffice/internal/importer"
	customersvc "crm-backoffice/internal/service/customer"
	usersvc "crm-backoffice/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// CustomerService is the aggregate store surface the handlers call.
type CustomerService interface {
	Create(ctx context.Context, in customersvc.CreateInput) (*domain.Customer, error)
	UpdateType(ctx context.Context, id, typ string) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	FlatExport(ctx context.Context) ([]domain.FlatRow, error)
	AddAddress(ctx context.Context, customerID string, in customersvc.AddressInput) (*domain.Customer, error)
	UpdateAddress(ctx context.Context, customerID, addressID string, patch customersvc.AddressPatch) (*domain.Customer, error)
	DeleteAddress(ctx context.Context, customerID, addressID string) (*domain.Customer, error)
	AddContactPerson(ctx context.Context, customerID string, in customersvc.ContactPersonInput) (*domain.Customer, error)
	UpdateContactPerson(ctx context.Context, customerID, contactID string, patch customersvc.ContactPatch) (*domain.Customer, error)
	DeleteContactPerson(ctx context.Context, customerID, contactID string) (*domain.Customer, error)
}

// AuthService issues, refreshes and verifies staff tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyAccess(token string) (string, error)
}

// UserService manages staff accounts.
type UserService interface {
	Create(ctx context.Context, in usersvc.Input) (*domain.User, error)
	Update(ctx context.Context, id string, in usersvc.Input) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// Deps carries the collaborators the router needs.
type Deps struct {
	CustomerSvc    CustomerService
	AuthSvc        AuthService
	UserSvc        UserService
	ImporterRepo   importer.CustomerWriter
	StorageTimeout time.Duration
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	router := gin.New()
	router.Use(ginLogger(logger), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &api{deps: deps, logger: logger}

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
	}

	protected := authMiddleware(deps.AuthSvc)

	customers := router.Group("/customers")
	{
		customers.GET("", h.listCustomersFlat)
		customers.GET("/:customerId", h.getCustomer)
		customers.POST("", protected, h.createCustomer)
		customers.PUT("/:customerId", protected, h.updateCustomer)
		customers.DELETE("/:customerId", protected, h.deleteCustomer)

		customers.PUT("/:customerId/address", protected, h.addAddress)
		customers.PUT("/:customerId/addresses/:addressId", protected, h.updateAddress)
		customers.DELETE("/:customerId/addresses/:addressId", protected, h.deleteAddress)

		customers.PUT("/:customerId/contact", protected, h.addContactPerson)
		customers.PUT("/:customerId/contacts/:contactId", protected, h.updateContactPerson)
		customers.DELETE("/:customerId/contacts/:contactId", protected, h.deleteContactPerson)
	}

	users := router.Group("/users", protected)
	{
		users.POST("", h.createUser)
		users.PUT("/:userId", h.updateUser)
		users.DELETE("/:userId", h.deleteUser)
	}

	router.POST("/import/customers", protected, h.importCustomers)

	return router, nil
}

type api struct {
	deps   Deps
	logger *logrus.Logger
}

// storageCtx bounds every storage round trip so a stuck store surfaces as
// an error instead of hanging the request.
func (h *api) storageCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := h.deps.StorageTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func ginLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

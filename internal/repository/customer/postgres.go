package customer

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"crm-backoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *logrus.Logger) Repository {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const customerColumns = `id::text, int_nr, type, addresses, contact_persons, version, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	addrJSON, err := json.Marshal(c.Addresses)
	if err != nil {
		return nil, err
	}
	contactJSON, err := json.Marshal(c.ContactPersons)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO customers (int_nr, type, addresses, contact_persons)
VALUES ($1, $2, $3, $4)
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(ctx, q, c.IntNr, string(c.Type), addrJSON, contactJSON))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE id = $1
LIMIT 1
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetAll(ctx context.Context) ([]domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
ORDER BY int_nr
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Update rewrites the mutable aggregate fields guarded by the version the
// caller read. Zero rows affected means either the row is gone or another
// writer bumped the version in between.
func (r *postgresRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	addrJSON, err := json.Marshal(c.Addresses)
	if err != nil {
		return nil, err
	}
	contactJSON, err := json.Marshal(c.ContactPersons)
	if err != nil {
		return nil, err
	}

	const q = `
UPDATE customers
SET type = $2, addresses = $3, contact_persons = $4, version = version + 1, updated_at = now()
WHERE id = $1 AND version = $5
RETURNING ` + customerColumns
	updated, err := r.scanCustomer(r.pool.QueryRow(ctx, q, c.ID, string(c.Type), addrJSON, contactJSON, c.Version))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var exists bool
	if checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, c.ID).Scan(&exists); checkErr != nil {
		return nil, mapError(checkErr)
	}
	if exists {
		return nil, domain.ErrConflict
	}
	return nil, domain.ErrNotFound
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HighestIntNr returns the business identifier with the largest numeric
// suffix, or "" when no customers exist. Length-first ordering keeps the
// comparison numeric once identifiers outgrow four digits.
func (r *postgresRepo) HighestIntNr(ctx context.Context) (string, error) {
	const q = `
SELECT int_nr
FROM customers
ORDER BY length(int_nr) DESC, int_nr DESC
LIMIT 1
`
	var intNr string
	if err := r.pool.QueryRow(ctx, q).Scan(&intNr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", mapError(err)
	}
	return intNr, nil
}

func (r *postgresRepo) ExistsByIntNr(ctx context.Context, intNr string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE int_nr = $1)`, intNr).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var typ string
	var addrJSON, contactJSON []byte
	err := row.Scan(
		&c.ID,
		&c.IntNr,
		&typ,
		&addrJSON,
		&contactJSON,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		mapped := mapError(err)
		if !errors.Is(mapped, domain.ErrNotFound) && !errors.Is(mapped, domain.ErrAlreadyExists) {
			r.logger.WithError(err).Error("customer repo: scan failed")
		}
		return nil, mapped
	}
	c.Type = domain.CustomerType(typ)
	if len(addrJSON) > 0 {
		if err := json.Unmarshal(addrJSON, &c.Addresses); err != nil {
			r.logger.WithError(err).WithField("customer_id", c.ID).Error("customer repo: decode addresses")
			return nil, err
		}
	}
	if len(contactJSON) > 0 {
		if err := json.Unmarshal(contactJSON, &c.ContactPersons); err != nil {
			r.logger.WithError(err).WithField("customer_id", c.ID).Error("customer repo: decode contact persons")
			return nil, err
		}
	}
	return &c, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStorageTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrAlreadyExists
	}
	return err
}

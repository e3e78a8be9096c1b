package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/smoradi/customer-api/internal/model"
)

// ErrDuplicateEntry is returned by Create when the email or username unique
// index rejects the row. The index, not the ExistsByEmailOrUsername check, is
// the actual uniqueness guarantee.
var ErrDuplicateEntry = errors.New("duplicate customer entry")

const mysqlDupEntry = 1062

type CustomersRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	Save(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]model.Customer, error)
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

// Create inserts a new customer row, stamping created_at/updated_at.
func (r *CustomersRepositoryImpl) Create(ctx context.Context, c *model.Customer) error {
	now := time.Now().UTC().Truncate(time.Second)
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers
		    (id, email, username, password, phone, image, is_admin, created_at, updated_at)
		VALUES
		    (?,  ?,     ?,        ?,        ?,     ?,     ?,        ?,          ?)
	`, c.ID, c.Email, c.Username, c.Password, c.Phone, c.Image, c.IsAdmin, c.CreatedAt, c.UpdatedAt)

	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupEntry {
		return ErrDuplicateEntry
	}
	return err
}

// ExistsByEmailOrUsername reports whether any customer already uses the email
// or the username. Single query covering both fields.
func (r *CustomersRepositoryImpl) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var one int
	err := r.db.QueryRowxContext(ctx, `
		SELECT 1 FROM customers WHERE email = ? OR username = ? LIMIT 1
	`, email, username).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *CustomersRepositoryImpl) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *CustomersRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *CustomersRepositoryImpl) getOne(ctx context.Context, where string, arg any) (*model.Customer, error) {
	var c model.Customer
	err := r.db.GetContext(ctx, &c, `
		SELECT id, email, username, password, phone, image, is_admin, created_at, updated_at
		  FROM customers `+where+` LIMIT 1
	`, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Save persists every mutable field in one statement so a profile update
// lands atomically.
func (r *CustomersRepositoryImpl) Save(ctx context.Context, c *model.Customer) error {
	c.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx, `
		UPDATE customers
		   SET email = ?, username = ?, password = ?, phone = ?, image = ?, is_admin = ?, updated_at = ?
		 WHERE id = ?
	`, c.Email, c.Username, c.Password, c.Phone, c.Image, c.IsAdmin, c.UpdatedAt, c.ID)

	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupEntry {
		return ErrDuplicateEntry
	}
	return err
}

// Delete removes the row and reports whether it existed.
func (r *CustomersRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CustomersRepositoryImpl) List(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, email, username, password, phone, image, is_admin, created_at, updated_at
		  FROM customers
		 ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return out, nil
}

package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/dbx"
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/repositories"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the employee. Unique violations come back as
// repositories.ConflictError naming the offending field.
func (r *PostgresRepository) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {

	query :=
		`INSERT INTO employees (emp_id, email, password_hash, user_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.PublicID, e.Email, e.CredentialDigest, e.IdentityDigest).Scan(&e.CreatedAt)

	if err != nil {
		if ce, ok := repositories.AsConflict(err); ok {
			return nil, ce
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query :=
		`SELECT emp_id, email, password_hash, user_hash, created_at FROM employees
		 WHERE email = $1
		 `

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Employee, error) {
	query :=
		`SELECT emp_id, email, password_hash, user_hash, created_at FROM employees
		 WHERE emp_id = $1
		 `

	return r.getOne(ctx, query, publicID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Employee, error) {
	e := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&e.PublicID, &e.Email, &e.CredentialDigest, &e.IdentityDigest, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) ExistsPublicID(ctx context.Context, publicID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM employees WHERE emp_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, publicID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, publicID, email string) error {
	query := `UPDATE employees SET email = $2 WHERE emp_id = $1`

	res, err := r.db.ExecContext(ctx, query, publicID, email)
	if err != nil {
		if ce, ok := repositories.AsConflict(err); ok {
			return ce
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

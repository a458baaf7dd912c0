package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/dbx"
	"github.com/dmitrijs2005/empvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetPersonal(ctx context.Context, employeeID string) (*models.PersonalInfo, error) {
	query := `SELECT emp_id, first_name, last_name, dob FROM personal_info WHERE emp_id = $1`

	p := &models.PersonalInfo{}
	var dob sql.NullTime
	err := r.db.QueryRowContext(ctx, query, employeeID).Scan(&p.EmployeeID, &p.FirstName, &p.LastName, &dob)
	if err != nil {
		return nil, mapReadError(err)
	}
	if dob.Valid {
		d := dob.Time
		p.DateOfBirth = &d
	}

	return p, nil
}

func (r *PostgresRepository) GetContact(ctx context.Context, employeeID string) (*models.ContactInfo, error) {
	query := `SELECT emp_id, mobile, email, address FROM contact_info WHERE emp_id = $1`

	c := &models.ContactInfo{}
	err := r.db.QueryRowContext(ctx, query, employeeID).Scan(&c.EmployeeID, &c.Mobile, &c.Email, &c.Address)
	if err != nil {
		return nil, mapReadError(err)
	}

	return c, nil
}

func (r *PostgresRepository) GetEmployment(ctx context.Context, employeeID string) (*models.EmploymentInfo, error) {
	query := `SELECT emp_id, job_designation, department FROM employment_info WHERE emp_id = $1`

	e := &models.EmploymentInfo{}
	err := r.db.QueryRowContext(ctx, query, employeeID).Scan(&e.EmployeeID, &e.JobDesignation, &e.Department)
	if err != nil {
		return nil, mapReadError(err)
	}

	return e, nil
}

func (r *PostgresRepository) UpsertPersonal(ctx context.Context, p *models.PersonalInfo) error {
	query :=
		`INSERT INTO personal_info (emp_id, first_name, last_name, dob)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (emp_id) DO UPDATE
		 SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, dob = EXCLUDED.dob
		 `

	var dob sql.NullTime
	if p.DateOfBirth != nil {
		dob = sql.NullTime{Time: *p.DateOfBirth, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query, p.EmployeeID, p.FirstName, p.LastName, dob); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertContact(ctx context.Context, c *models.ContactInfo) error {
	query :=
		`INSERT INTO contact_info (emp_id, mobile, email, address)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (emp_id) DO UPDATE
		 SET mobile = EXCLUDED.mobile, email = EXCLUDED.email, address = EXCLUDED.address
		 `

	if _, err := r.db.ExecContext(ctx, query, c.EmployeeID, c.Mobile, c.Email, c.Address); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertEmployment(ctx context.Context, e *models.EmploymentInfo) error {
	query :=
		`INSERT INTO employment_info (emp_id, job_designation, department)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (emp_id) DO UPDATE
		 SET job_designation = EXCLUDED.job_designation, department = EXCLUDED.department
		 `

	if _, err := r.db.ExecContext(ctx, query, e.EmployeeID, e.JobDesignation, e.Department); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func mapReadError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

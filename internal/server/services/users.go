// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, token authentication and
// profile maintenance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/dbx"
	"github.com/dmitrijs2005/empvault/internal/logging"
	"github.com/dmitrijs2005/empvault/internal/server/auth"
	"github.com/dmitrijs2005/empvault/internal/server/config"
	"github.com/dmitrijs2005/empvault/internal/server/hasher"
	"github.com/dmitrijs2005/empvault/internal/server/identifier"
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/repositories"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/empvault/internal/server/validate"
)

// IDGenerator yields candidate public employee ids. Candidates may collide;
// the service retries against the store.
type IDGenerator interface {
	Generate() string
}

// UserService provides identity operations:
//   - Register: create employees with a unique public id
//   - Login: verify credentials and mint a session token
//   - Authenticate: resolve a session token to its employee
//   - Profile / UpdateProfile: merged profile view and partial updates
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	passwords   hasher.PasswordHasher
	ids         IDGenerator
	maxAttempts int
	now         func() time.Time
	log         logging.Logger
}

// UserServiceOption customizes a UserService.
type UserServiceOption func(*UserService)

// WithIDGenerator replaces the configured identifier generator.
func WithIDGenerator(g IDGenerator) UserServiceOption {
	return func(s *UserService) { s.ids = g }
}

// WithUserClock overrides time.Now.
func WithUserClock(now func() time.Time) UserServiceOption {
	return func(s *UserService) { s.now = now }
}

// WithPasswordHasher replaces the hasher selected by cfg.PasswordScheme.
func WithPasswordHasher(h hasher.PasswordHasher) UserServiceOption {
	return func(s *UserService) { s.passwords = h }
}

// NewUserService wires a UserService from configuration. It fails only on an
// unknown password scheme.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService, cfg *config.Config, log logging.Logger, opts ...UserServiceOption) (*UserService, error) {
	passwords, err := hasher.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		return nil, err
	}

	s := &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		passwords:   passwords,
		ids:         identifier.NewGenerator(cfg.IDPrefix, cfg.IDMaxLength),
		maxAttempts: cfg.IDMaxAttempts,
		now:         time.Now,
		log:         log,
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 1
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *UserService) unexpected(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s", common.ErrorUnexpected, op)
}

// identityDigest derives the per-employee user hash from the email and the
// registration instant (unix seconds with microsecond fraction).
func identityDigest(email string, at time.Time) string {
	secs := strconv.FormatFloat(float64(at.UnixMicro())/1e6, 'f', 6, 64)
	return hasher.DigestString(email + secs)
}

// Register creates an employee. It never issues a token.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.Employee, error) {
	email = common.NormalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if err := validate.Password(password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Employees(s.db)

	// advisory: the unique constraint below is authoritative
	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.unexpected(ctx, "lookup email", err)
	}

	digest, err := s.passwords.Hash(password)
	if err != nil {
		return nil, s.unexpected(ctx, "hash password", err)
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		id := s.ids.Generate()

		exists, err := repo.ExistsPublicID(ctx, id)
		if err != nil {
			return nil, s.unexpected(ctx, "check employee id", err)
		}
		if exists {
			continue
		}

		employee := &models.Employee{
			PublicID:         id,
			Email:            email,
			CredentialDigest: digest,
			IdentityDigest:   identityDigest(email, s.now()),
		}

		created, err := repo.Create(ctx, employee)
		if err == nil {
			s.log.Info(ctx, "employee registered", "empid", created.PublicID)
			return created, nil
		}

		field, ok := repositories.ConflictField(err)
		if !ok {
			return nil, s.unexpected(ctx, "create employee", err)
		}
		if field == repositories.FieldEmail {
			return nil, common.ErrDuplicateEmail
		}
		// emp_id or user_hash race: draw a new id
	}

	s.log.Warn(ctx, "employee id space exhausted", "attempts", s.maxAttempts)
	return nil, common.ErrExhaustedIdentifierSpace
}

// Login checks the credentials and returns the employee with a fresh token.
// Unknown email and wrong password are the same outcome.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Employee, string, error) {
	email = common.NormalizeEmail(email)

	employee, err := s.repomanager.Employees(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", s.unexpected(ctx, "lookup email", err)
	}

	if !s.passwords.Verify(password, employee.CredentialDigest) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(employee.PublicID)
	if err != nil {
		return nil, "", s.unexpected(ctx, "issue token", err)
	}

	return employee, token, nil
}

// Authenticate resolves a session token to its employee.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.Employee, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	employee, err := s.repomanager.Employees(s.db).GetByPublicID(ctx, claims.PublicID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, s.unexpected(ctx, "lookup employee", err)
	}

	return employee, nil
}

// Profile returns the merged view of employee, its fragments and the digest
// of its most recent document.
func (s *UserService) Profile(ctx context.Context, employee *models.Employee) (*models.Profile, error) {
	profileRepo := s.repomanager.Profiles(s.db)

	p := &models.Profile{
		PublicID:       employee.PublicID,
		Email:          employee.Email,
		IdentityDigest: employee.IdentityDigest,
	}

	personal, err := optional(profileRepo.GetPersonal(ctx, employee.PublicID))
	if err != nil {
		return nil, s.unexpected(ctx, "load personal info", err)
	}
	if personal != nil {
		p.FirstName, p.LastName, p.DateOfBirth = personal.FirstName, personal.LastName, personal.DateOfBirth
	}

	contact, err := optional(profileRepo.GetContact(ctx, employee.PublicID))
	if err != nil {
		return nil, s.unexpected(ctx, "load contact info", err)
	}
	if contact != nil {
		p.Mobile, p.Address = contact.Mobile, contact.Address
	}

	employment, err := optional(profileRepo.GetEmployment(ctx, employee.PublicID))
	if err != nil {
		return nil, s.unexpected(ctx, "load employment info", err)
	}
	if employment != nil {
		p.JobDesignation, p.Department = employment.JobDesignation, employment.Department
	}

	doc, err := optional(s.repomanager.Documents(s.db).Latest(ctx, employee.PublicID))
	if err != nil {
		return nil, s.unexpected(ctx, "load latest document", err)
	}
	if doc != nil {
		digest := doc.ContentDigest
		p.DocumentDigest = &digest
	}

	return p, nil
}

// UpdateProfile applies a partial update in one transaction. A fragment is
// written only when at least one of its fields is supplied; absent fields
// keep their previous values. An empty email counts as absent. On success
// employee.Email reflects the new address.
func (s *UserService) UpdateProfile(ctx context.Context, employee *models.Employee, u models.ProfileUpdate) (*models.Profile, error) {
	if u.Email != nil && strings.TrimSpace(*u.Email) == "" {
		u.Email = nil
	}
	if err := validate.ProfileUpdate(u, s.now()); err != nil {
		return nil, err
	}

	email := employee.Email
	if u.Email != nil {
		email = common.NormalizeEmail(*u.Email)
		if err := validate.Email(email); err != nil {
			return nil, err
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if email != employee.Email {
			if err := s.changeEmail(ctx, tx, employee.PublicID, email); err != nil {
				return err
			}
		}

		profileRepo := s.repomanager.Profiles(tx)

		if u.TouchesPersonal() {
			p, err := optional(profileRepo.GetPersonal(ctx, employee.PublicID))
			if err != nil {
				return err
			}
			if p == nil {
				p = &models.PersonalInfo{EmployeeID: employee.PublicID}
			}
			assign(&p.FirstName, u.FirstName)
			assign(&p.LastName, u.LastName)
			if u.DateOfBirth != nil {
				p.DateOfBirth = u.DateOfBirth
			}
			if err := profileRepo.UpsertPersonal(ctx, p); err != nil {
				return err
			}
		}

		if u.TouchesContact() {
			c, err := optional(profileRepo.GetContact(ctx, employee.PublicID))
			if err != nil {
				return err
			}
			if c == nil {
				c = &models.ContactInfo{EmployeeID: employee.PublicID}
			}
			assign(&c.Mobile, u.Mobile)
			assign(&c.Address, u.Address)
			c.Email = email
			if err := profileRepo.UpsertContact(ctx, c); err != nil {
				return err
			}
		}

		if u.TouchesEmployment() {
			e, err := optional(profileRepo.GetEmployment(ctx, employee.PublicID))
			if err != nil {
				return err
			}
			if e == nil {
				e = &models.EmploymentInfo{EmployeeID: employee.PublicID}
			}
			assign(&e.JobDesignation, u.JobDesignation)
			assign(&e.Department, u.Department)
			if err := profileRepo.UpsertEmployment(ctx, e); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "update profile", err)
	}

	employee.Email = email
	return s.Profile(ctx, employee)
}

func (s *UserService) changeEmail(ctx context.Context, tx dbx.DBTX, publicID, email string) error {
	repo := s.repomanager.Employees(tx)

	other, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil && other.PublicID != publicID:
		return common.ErrDuplicateEmail
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		return err
	}

	if err := repo.UpdateEmail(ctx, publicID, email); err != nil {
		if field, ok := repositories.ConflictField(err); ok && field == repositories.FieldEmail {
			return common.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// optional turns common.ErrorNotFound into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return v, err
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

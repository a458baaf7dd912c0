package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/dbx"
	"github.com/dmitrijs2005/empvault/internal/logging"
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/repositories"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/documents"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/employees"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/profiles"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func quietLogger() logging.Logger {
	return logging.NewLogger(io.Discard, "error")
}

// memStore is an in-memory stand-in for the three repositories. It enforces
// the same unique constraints as the schema.
type memStore struct {
	mu          sync.Mutex
	employees   map[string]models.Employee
	personal    map[string]models.PersonalInfo
	contact     map[string]models.ContactInfo
	employment  map[string]models.EmploymentInfo
	docs        []models.Document
	clock       time.Time
	failOn      map[string]error
	createCalls int
}

func newMemStore() *memStore {
	return &memStore{
		employees:  map[string]models.Employee{},
		personal:   map[string]models.PersonalInfo{},
		contact:    map[string]models.ContactInfo{},
		employment: map[string]models.EmploymentInfo{},
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		failOn:     map[string]error{},
	}
}

func (m *memStore) fail(op string) error { return m.failOn[op] }

type memEmployees struct{ *memStore }

func (r memEmployees) Create(_ context.Context, e *models.Employee) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if err := r.fail("employees.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.employees[e.PublicID]; ok {
		return nil, repositories.ConflictError{Field: repositories.FieldPublicID}
	}
	for _, other := range r.employees {
		if other.Email == e.Email {
			return nil, repositories.ConflictError{Field: repositories.FieldEmail}
		}
		if other.IdentityDigest == e.IdentityDigest {
			return nil, repositories.ConflictError{Field: repositories.FieldIdentityDigest}
		}
	}
	e.CreatedAt = r.clock
	r.employees[e.PublicID] = *e
	return e, nil
}

func (r memEmployees) GetByEmail(_ context.Context, email string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("employees.GetByEmail"); err != nil {
		return nil, err
	}
	for _, e := range r.employees {
		if e.Email == email {
			e := e
			return &e, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memEmployees) GetByPublicID(_ context.Context, id string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("employees.GetByPublicID"); err != nil {
		return nil, err
	}
	e, ok := r.employees[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

func (r memEmployees) ExistsPublicID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("employees.ExistsPublicID"); err != nil {
		return false, err
	}
	_, ok := r.employees[id]
	return ok, nil
}

func (r memEmployees) UpdateEmail(_ context.Context, id, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("employees.UpdateEmail"); err != nil {
		return err
	}
	e, ok := r.employees[id]
	if !ok {
		return common.ErrorNotFound
	}
	for otherID, other := range r.employees {
		if otherID != id && other.Email == email {
			return repositories.ConflictError{Field: repositories.FieldEmail}
		}
	}
	e.Email = email
	r.employees[id] = e
	return nil
}

type memProfiles struct{ *memStore }

func (r memProfiles) GetPersonal(_ context.Context, id string) (*models.PersonalInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("profiles.GetPersonal"); err != nil {
		return nil, err
	}
	p, ok := r.personal[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r memProfiles) GetContact(_ context.Context, id string) (*models.ContactInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("profiles.GetContact"); err != nil {
		return nil, err
	}
	c, ok := r.contact[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r memProfiles) GetEmployment(_ context.Context, id string) (*models.EmploymentInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("profiles.GetEmployment"); err != nil {
		return nil, err
	}
	e, ok := r.employment[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

func (r memProfiles) UpsertPersonal(_ context.Context, p *models.PersonalInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("profiles.UpsertPersonal"); err != nil {
		return err
	}
	r.personal[p.EmployeeID] = *p
	return nil
}

func (r memProfiles) UpsertContact(_ context.Context, c *models.ContactInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("profiles.UpsertContact"); err != nil {
		return err
	}
	r.contact[c.EmployeeID] = *c
	return nil
}

func (r memProfiles) UpsertEmployment(_ context.Context, e *models.EmploymentInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("profiles.UpsertEmployment"); err != nil {
		return err
	}
	r.employment[e.EmployeeID] = *e
	return nil
}

type memDocuments struct{ *memStore }

func (r memDocuments) Create(_ context.Context, d *models.Document) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("documents.Create"); err != nil {
		return nil, err
	}
	r.clock = r.clock.Add(time.Second)
	d.UploadedAt = r.clock
	r.docs = append(r.docs, *d)
	return d, nil
}

func (r memDocuments) owned(owner string) []models.Document {
	var out []models.Document
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].OwnerID == owner {
			out = append(out, r.docs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out
}

func (r memDocuments) Latest(_ context.Context, owner string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("documents.Latest"); err != nil {
		return nil, err
	}
	docs := r.owned(owner)
	if len(docs) == 0 {
		return nil, common.ErrorNotFound
	}
	return &docs[0], nil
}

func (r memDocuments) ListByOwner(_ context.Context, owner string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("documents.ListByOwner"); err != nil {
		return nil, err
	}
	return r.owned(owner), nil
}

func (r memDocuments) GetByID(_ context.Context, owner, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == id && d.OwnerID == owner {
			d := d
			return &d, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct{ store *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Employees(dbx.DBTX) employees.Repository      { return memEmployees{m.store} }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return memProfiles{m.store} }
func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository      { return memDocuments{m.store} }

// fakeBlobs records payloads by key.
type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	signErr error
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{objects: map[string][]byte{}} }

func (b *fakeBlobs) Put(_ context.Context, key string, payload []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.objects[key] = append([]byte(nil), payload...)
	return nil
}

func (b *fakeBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *fakeBlobs) PresignGet(_ context.Context, key string) (string, error) {
	if b.signErr != nil {
		return "", b.signErr
	}
	return "https://blobs.test/" + key, nil
}

// seqIDs hands out ids from a fixed list, then repeats the last one.
type seqIDs struct {
	ids []string
	n   int
}

func (g *seqIDs) Generate() string {
	id := g.ids[min(g.n, len(g.ids)-1)]
	g.n++
	return id
}

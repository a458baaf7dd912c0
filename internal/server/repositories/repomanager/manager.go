package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/empvault/internal/dbx"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/documents"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/employees"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Employees(db dbx.DBTX) employees.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Documents(db dbx.DBTX) documents.Repository
}

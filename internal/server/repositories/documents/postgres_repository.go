package documents

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

const selectColumns = `id, emp_id, name, media_type, content_hash, storage_key, size, uploaded_at`

func (r *PostgresRepository) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (id, emp_id, name, media_type, content_hash, storage_key, size)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		d.ID, d.OwnerID, d.Name, d.MediaType, d.ContentDigest, d.StorageKey, d.Size).Scan(&d.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

// Latest orders by upload time and breaks ties by insertion order.
func (r *PostgresRepository) Latest(ctx context.Context, ownerID string) (*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		 WHERE emp_id = $1
		 ORDER BY uploaded_at DESC, seq DESC
		 LIMIT 1
		 `

	return r.getOne(ctx, query, ownerID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		 WHERE emp_id = $1 AND id = $2
		 `

	return r.getOne(ctx, query, ownerID, id)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	query := `SELECT ` + selectColumns + ` FROM documents
		 WHERE emp_id = $1
		 ORDER BY uploaded_at DESC, seq DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Document
	for rows.Next() {
		var d models.Document
		if err := scan(rows, &d); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner, d *models.Document) error {
	return s.Scan(&d.ID, &d.OwnerID, &d.Name, &d.MediaType, &d.ContentDigest, &d.StorageKey, &d.Size, &d.UploadedAt)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Document, error) {
	d := &models.Document{}
	if err := scan(r.db.QueryRowContext(ctx, query, args...), d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/logging"
	"github.com/dmitrijs2005/empvault/internal/server/blobstore"
	"github.com/dmitrijs2005/empvault/internal/server/hasher"
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultMediaType is stored when the uploader does not name one.
const DefaultMediaType = "application/octet-stream"

// Verdict is the outcome of a verification request.
type Verdict int

const (
	VerdictMatch Verdict = iota
	VerdictMismatch
	VerdictNoDocument
	VerdictNoSuchOwner
)

func (v Verdict) String() string {
	switch v {
	case VerdictMatch:
		return "match"
	case VerdictMismatch:
		return "mismatch"
	case VerdictNoDocument:
		return "no_document"
	case VerdictNoSuchOwner:
		return "no_such_owner"
	default:
		return "unknown"
	}
}

// Err returns the sentinel matching v, or nil for VerdictMatch.
func (v Verdict) Err() error {
	switch v {
	case VerdictMatch:
		return nil
	case VerdictMismatch:
		return common.ErrMismatch
	case VerdictNoDocument:
		return common.ErrNoDocument
	case VerdictNoSuchOwner:
		return common.ErrNoSuchOwner
	default:
		return common.ErrorUnexpected
	}
}

// DocumentService records uploads and answers tamper checks against the
// digest captured at upload time.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	now         func() time.Time
	log         logging.Logger
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, log logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		now:         time.Now,
		log:         log,
	}
}

func (s *DocumentService) unexpected(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "document store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s", common.ErrorUnexpected, op)
}

// Upload digests payload, stores it under a fresh object key and records
// the metadata. The object is removed again if the record cannot be written.
func (s *DocumentService) Upload(ctx context.Context, owner *models.Employee, payload []byte, name, mediaType string) (*models.Document, error) {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = DefaultMediaType
	}

	doc := &models.Document{
		ID:            uuid.NewString(),
		OwnerID:       owner.PublicID,
		Name:          name,
		MediaType:     mediaType,
		ContentDigest: hasher.DigestBytes(payload),
		StorageKey:    blobstore.NewStorageKey(s.now()),
		Size:          int64(len(payload)),
	}

	if err := s.blobs.Put(ctx, doc.StorageKey, payload, mediaType); err != nil {
		return nil, s.unexpected(ctx, "store payload", err)
	}

	created, err := s.repomanager.Documents(s.db).Create(ctx, doc)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, doc.StorageKey); delErr != nil {
			s.log.Warn(ctx, "orphaned document payload", "key", doc.StorageKey, "error", delErr)
		}
		return nil, s.unexpected(ctx, "record document", err)
	}

	s.log.Info(ctx, "document uploaded", "empid", owner.PublicID, "id", created.ID, "size", created.Size)
	return created, nil
}

// Verify compares claimedDigest with the owner's most recent document. The
// claimed hex is trimmed and lower-cased first. Only store failures produce
// an error; every other outcome is a Verdict.
func (s *DocumentService) Verify(ctx context.Context, publicID, claimedDigest string) (Verdict, error) {
	// Such ids can never be stored; asking the database would only fail.
	if publicID == "" || strings.ContainsRune(publicID, 0) {
		return VerdictNoSuchOwner, nil
	}

	_, err := s.repomanager.Employees(s.db).GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return VerdictNoSuchOwner, nil
		}
		return 0, s.unexpected(ctx, "lookup owner", err)
	}

	doc, err := s.repomanager.Documents(s.db).Latest(ctx, publicID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return VerdictNoDocument, nil
		}
		return 0, s.unexpected(ctx, "lookup document", err)
	}

	claimed := strings.ToLower(strings.TrimSpace(claimedDigest))
	if subtle.ConstantTimeCompare([]byte(claimed), []byte(doc.ContentDigest)) == 1 {
		return VerdictMatch, nil
	}
	return VerdictMismatch, nil
}

// List returns the owner's documents, newest first.
func (s *DocumentService) List(ctx context.Context, owner *models.Employee) ([]models.Document, error) {
	docs, err := s.repomanager.Documents(s.db).ListByOwner(ctx, owner.PublicID)
	if err != nil {
		return nil, s.unexpected(ctx, "list documents", err)
	}
	return docs, nil
}

// DownloadURL presigns a short-lived GET for one of the owner's documents.
// Unknown ids and documents of other employees are both ErrorNotFound.
func (s *DocumentService) DownloadURL(ctx context.Context, owner *models.Employee, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", common.ErrorNotFound
	}

	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, owner.PublicID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", s.unexpected(ctx, "lookup document", err)
	}

	url, err := s.blobs.PresignGet(ctx, doc.StorageKey)
	if err != nil {
		return "", s.unexpected(ctx, "presign download", err)
	}
	return url, nil
}

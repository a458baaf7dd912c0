// Package httpapi exposes the identity and document services over HTTP/JSON.
//
// Authenticated routes accept the session token from the session cookie or
// from an "Authorization: Bearer" header. /verify/ is public.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/empvault/internal/logging"
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/services"
)

// Users is the part of services.UserService the HTTP layer calls.
type Users interface {
	Register(ctx context.Context, email, password string) (*models.Employee, error)
	Login(ctx context.Context, email, password string) (*models.Employee, string, error)
	Authenticate(ctx context.Context, token string) (*models.Employee, error)
	Profile(ctx context.Context, employee *models.Employee) (*models.Profile, error)
	UpdateProfile(ctx context.Context, employee *models.Employee, u models.ProfileUpdate) (*models.Profile, error)
}

// Documents is the part of services.DocumentService the HTTP layer calls.
type Documents interface {
	Upload(ctx context.Context, owner *models.Employee, payload []byte, name, mediaType string) (*models.Document, error)
	Verify(ctx context.Context, publicID, claimedDigest string) (services.Verdict, error)
	List(ctx context.Context, owner *models.Employee) ([]models.Document, error)
	DownloadURL(ctx context.Context, owner *models.Employee, id string) (string, error)
}

// Options configure cookies, limits and the health check.
type Options struct {
	CookieName     string
	CookieSecure   bool
	TokenTTL       time.Duration
	MaxUploadBytes int64
	// HealthCheck, when set, backs GET /healthz.
	HealthCheck func(ctx context.Context) error
}

type Handler struct {
	users Users
	docs  Documents
	opts  Options
	log   logging.Logger
	now   func() time.Time
}

func NewHandler(users Users, docs Documents, opts Options, log logging.Logger) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "access_token"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{users: users, docs: docs, opts: opts, log: log, now: time.Now}
}

// Routes returns the router wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register/{$}", h.register)
	mux.HandleFunc("POST /auth/login/{$}", h.login)
	mux.HandleFunc("POST /auth/logout/{$}", h.logout)

	mux.HandleFunc("GET /me/{$}", h.requireEmployee(h.profile))
	mux.HandleFunc("GET /profile/{$}", h.requireEmployee(h.profile))
	mux.HandleFunc("PUT /profile/{$}", h.requireEmployee(h.updateProfile))

	mux.HandleFunc("POST /documents/{$}", h.requireEmployee(h.uploadDocument))
	mux.HandleFunc("GET /documents/{$}", h.requireEmployee(h.listDocuments))
	mux.HandleFunc("GET /documents/{id}/url", h.requireEmployee(h.documentURL))

	mux.HandleFunc("POST /verify/{$}", h.verify)
	mux.HandleFunc("GET /healthz", h.health)

	return withRequestLogging(mux, h.log)
}

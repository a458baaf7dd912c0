package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/server/models"
)

type ctxKey struct{}

// employeeFrom returns the employee stored by requireEmployee.
func employeeFrom(ctx context.Context) *models.Employee {
	e, _ := ctx.Value(ctxKey{}).(*models.Employee)
	return e
}

// tokenFromRequest prefers the session cookie and falls back to an
// Authorization: Bearer header.
func (h *Handler) tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(h.opts.CookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	return common.TokenFromAuthorization(r.Header.Get("Authorization"))
}

// requireEmployee authenticates the request and passes the employee down
// through the context.
func (h *Handler) requireEmployee(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := h.tokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		employee, err := h.users.Authenticate(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, employee)))
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  h.now().Add(h.opts.TokenTTL),
		MaxAge:   int(h.opts.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/empvault/internal/server/services"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	employee, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":         true,
		"message":    "Registration successful. Please login.",
		"employeeId": employee.PublicID,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	employee, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeServiceError(w, err)
		return
	}

	profile, err := h.users.Profile(r.Context(), employee)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "profile": newProfileView(profile)})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.expireSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Profile(r.Context(), employeeFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "profile": newProfileView(profile)})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update, err := req.toUpdate()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), employeeFrom(r.Context()), update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "profile": newProfileView(profile)})
}

// multipartOverhead is the slack allowed on top of MaxUploadBytes for
// multipart headers and boundaries.
const multipartOverhead = 1 << 20

func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, h.opts.MaxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return
	}
	if int64(len(payload)) > h.opts.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	doc, err := h.docs.Upload(r.Context(), employeeFrom(r.Context()), payload, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":           true,
		"documentHash": doc.ContentDigest,
		"document":     newDocumentView(*doc),
	})
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context(), employeeFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]documentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, newDocumentView(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "documents": views})
}

func (h *Handler) documentURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.docs.DownloadURL(r.Context(), employeeFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "url": url})
}

var verdictMessages = map[services.Verdict]string{
	services.VerdictMatch:       "Document is UNTAMPERED - Hash matches the record.",
	services.VerdictMismatch:    "Document has been TAMPERED - Hash does not match the record.",
	services.VerdictNoDocument:  "No document found for this employee.",
	services.VerdictNoSuchOwner: "No record found for this Employee ID.",
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	verdict, err := h.docs.Verify(r.Context(), strings.TrimSpace(req.EmployeeID), req.Hash)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if verdict == services.VerdictNoDocument || verdict == services.VerdictNoSuchOwner {
		status = http.StatusNotFound
	}

	body := map[string]any{"ok": verdict == services.VerdictMatch, "verdict": verdict.String()}
	if verdict == services.VerdictMatch {
		body["message"] = verdictMessages[verdict]
	} else {
		body["error"] = verdictMessages[verdict]
	}
	writeJSON(w, status, body)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.opts.HealthCheck != nil {
		if err := h.opts.HealthCheck(r.Context()); err != nil {
			h.log.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

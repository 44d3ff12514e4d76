package handler

import (
	"net/http"

	"github.com/Ernie1234/e-commerce-microrepo/internal/application/session"
	"github.com/Ernie1234/e-commerce-microrepo/internal/transport/http/middleware"
)

// SessionHandler handles login, refresh, logout and current-user endpoints.
type SessionHandler struct {
	svc  session.Service
	opts Options
}

func NewSessionHandler(svc session.Service, opts Options) *SessionHandler {
	return &SessionHandler{svc: svc, opts: opts}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	h.opts.setCookie(w, accessCookie, result.AccessToken)
	h.opts.setCookie(w, refreshCookie, result.RefreshToken)
	writeSuccess(w, "Login successful!", result.User)
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(refreshCookie); err == nil {
		token = c.Value
	}
	access, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	h.opts.setCookie(w, accessCookie, access)
	writeSuccess(w, "Access token refreshed.", nil)
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{Status: "error", Message: "Unauthorized!"})
		return
	}
	writeSuccess(w, "", u)
}

// Logout clears both cookies. Issued tokens stay valid until they expire.
func (h *SessionHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.opts.clearCookie(w, accessCookie)
	h.opts.clearCookie(w, refreshCookie)
	writeSuccess(w, "Logged out successfully.", nil)
}

package handler

import (
	"net/http"

	"github.com/Ernie1234/e-commerce-microrepo/internal/application/auth"
)

// PasswordRecoveryHandler handles the forgot/reset password flow endpoints.
type PasswordRecoveryHandler struct {
	svc  auth.Service
	opts Options
}

func NewPasswordRecoveryHandler(svc auth.Service, opts Options) *PasswordRecoveryHandler {
	return &PasswordRecoveryHandler{svc: svc, opts: opts}
}

func (h *PasswordRecoveryHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req auth.ForgotPasswordRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	if err := h.svc.RequestPasswordReset(r.Context(), req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "OTP sent to your email. Please verify to reset your password.", nil)
}

func (h *PasswordRecoveryHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyResetRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	if err := h.svc.VerifyPasswordResetOTP(r.Context(), req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "OTP verified successfully! You can now reset your password.", nil)
}

func (h *PasswordRecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	u, err := h.svc.ResetPassword(r.Context(), req)
	if err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "Password reset successfully!", u)
}

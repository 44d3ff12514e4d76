package handler

import (
	"net/http"

	"github.com/Ernie1234/e-commerce-microrepo/internal/application/auth"
)

// RegistrationHandler handles account registration endpoints.
type RegistrationHandler struct {
	svc  auth.Service
	opts Options
}

func NewRegistrationHandler(svc auth.Service, opts Options) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, opts: opts}
}

func (h *RegistrationHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req auth.RegistrationRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	if err := h.svc.RequestRegistration(r.Context(), req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "OTP sent to your email. Please verify your account.", nil)
}

func (h *RegistrationHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyRegistrationRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	u, err := h.svc.VerifyRegistration(r.Context(), req)
	if err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "Account verified successfully!", u)
}

func (h *RegistrationHandler) RegisterSeller(w http.ResponseWriter, r *http.Request) {
	var req auth.SellerRegistrationRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	if err := h.svc.RequestSellerRegistration(r.Context(), req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "OTP sent to your email. Please verify your account.", nil)
}

func (h *RegistrationHandler) VerifySeller(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifySellerRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	u, err := h.svc.VerifySellerRegistration(r.Context(), req)
	if err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "Seller account verified successfully!", u)
}

func (h *RegistrationHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.ResendOTPRequest
	if err := decode(w, r, &req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	if err := h.svc.ResendRegistrationOTP(r.Context(), req); err != nil {
		h.opts.writeError(w, r, err)
		return
	}
	writeSuccess(w, "A new OTP has been sent to your email.", nil)
}

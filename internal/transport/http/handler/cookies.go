package handler

import (
	"net/http"
	"time"

	"github.com/Ernie1234/e-commerce-microrepo/internal/transport/http/middleware"
)

const (
	accessCookie  = middleware.AccessCookie
	refreshCookie = "refreshToken"
)

const cookieMaxAge = 7 * 24 * time.Hour

// sameSite is None only over HTTPS; browsers drop None cookies without Secure.
func (o Options) sameSite() http.SameSite {
	if o.SecureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// setCookie writes an http-only auth cookie, cross-site when secure. The
// max-age is the same for both tokens; an expired access token is rejected on
// verification.
func (o Options) setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   o.SecureCookies,
		SameSite: o.sameSite(),
	})
}

func (o Options) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   o.SecureCookies,
		SameSite: o.sameSite(),
	})
}

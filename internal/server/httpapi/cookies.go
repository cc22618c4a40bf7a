package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// setAuthCookies attaches both tokens as HttpOnly cookies. Clients that
// cannot carry cookies use the tokens from the response body instead.
func setAuthCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, authCookie(common.AccessTokenCookieName, pair.AccessToken, 0))
	http.SetCookie(w, authCookie(common.RefreshTokenCookieName, pair.RefreshToken, 0))
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, authCookie(common.AccessTokenCookieName, "", -1))
	http.SetCookie(w, authCookie(common.RefreshTokenCookieName, "", -1))
}

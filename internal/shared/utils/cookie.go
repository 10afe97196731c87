package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/constants"
)

// SetSessionCookie sets the portal session token as an HttpOnly cookie.
// maxAge <= 0 produces a session cookie with no explicit expiry. The cookie
// is marked Secure when either configured so or the request arrived over TLS.
func SetSessionCookie(c *gin.Context, cookieConfig sharedConfig.CookieConfig, token string, maxAge int) {
	c.SetSameSite(parseSameSite(cookieConfig.SameSite))

	secure := cookieConfig.Secure || c.Request.TLS != nil
	if maxAge < 0 {
		maxAge = 0
	}

	c.SetCookie(
		constants.SessionCookieName,
		token,
		maxAge,
		cookieConfig.Path,
		cookieConfig.Domain,
		secure,
		true, // HttpOnly
	)
}

// ClearSessionCookie removes the portal session cookie.
func ClearSessionCookie(c *gin.Context, cookieConfig sharedConfig.CookieConfig) {
	c.SetSameSite(parseSameSite(cookieConfig.SameSite))

	c.SetCookie(
		constants.SessionCookieName,
		"",
		-1,
		cookieConfig.Path,
		cookieConfig.Domain,
		cookieConfig.Secure,
		true,
	)
}

// GetSessionCookie retrieves the session token from the request cookie.
func GetSessionCookie(c *gin.Context) string {
	token, err := c.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

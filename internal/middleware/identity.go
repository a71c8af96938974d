package middleware

// identity.go exposes the identity injected by JWTAuth.  Both helpers return
// the empty string for anonymous requests.

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user's store id.
func UserID(c echo.Context) string {
    s, _ := c.Get(ctxUserID).(string)
    return s
}

// Role returns the authenticated user's role claim.
func Role(c echo.Context) string {
    s, _ := c.Get(ctxRole).(string)
    return s
}

// rateIdentity is the user part of cache and rate limit keys.
func rateIdentity(c echo.Context) string {
    if id := UserID(c); id != "" {
        return id
    }
    return "anon"
}

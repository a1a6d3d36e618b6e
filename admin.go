package microlog

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged in", "csrf": CsrfToken(c)})
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Package shared
package shared

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
)

// ExtractAPIKey pulls a bearer token from the Authorization header. Only
// the /metrics endpoint is gated this way; inference routes are open.
func ExtractAPIKey(c echo.Context) (string, error) {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return "", fmt.Errorf("missing authorization header")
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("invalid authentication format")
	}

	return parts[1], nil
}

// TruncateBody caps backend bodies carried into logs and error details.
func TruncateBody(body string) string {
	if len(body) > MaxLoggedBodyLen {
		return body[:MaxLoggedBodyLen] + "... (truncated)"
	}
	return body
}

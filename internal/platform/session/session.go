package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/BanhTheCake/getnokori/internal/config"
)

const ctxAccountIDKey = "session_account_id"

// Middleware returns an Echo middleware that validates platform session JWTs
// and stores the account ID in the context. Authentication itself is owned by
// the platform auth service; this only verifies the token it minted.
func Middleware(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			tokStr := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(tokStr, func(token *jwt.Token) (any, error) {
				return []byte(cfg.JWTSigningKey), nil
			}, jwt.WithLeeway(30*time.Second), jwt.WithIssuedAt(), jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid claims"})
			}
			acc, _ := claims["account_id"].(string)
			accountID, err := uuid.Parse(acc)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid account claim"})
			}

			c.Set(ctxAccountIDKey, accountID)
			return next(c)
		}
	}
}

// AccountID extracts the authenticated account from the context.
func AccountID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ctxAccountIDKey).(uuid.UUID)
	return id, ok
}

// SetAccountID seeds the context, for tests and internal calls.
func SetAccountID(c echo.Context, id uuid.UUID) {
	c.Set(ctxAccountIDKey, id)
}

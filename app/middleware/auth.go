package middleware

import (
	"errors"
	"net/http"
	"strings"

	dto "github.com/vibast-solutions/ms-go-catalog/app/dto/http"
	"github.com/vibast-solutions/ms-go-catalog/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Context keys populated by the token gate.
const (
	ContextKeyClaims = "claims"
	ContextKeyUserID = "user_id"
)

type tokenValidator interface {
	ValidateToken(tokenString, tokenType string) (*service.Claims, error)
}

// AuthMiddleware is the authorization gate: it runs on every protected
// route and uniformly rejects missing tokens and revoked ones.
type AuthMiddleware struct {
	authService tokenValidator
}

func NewAuthMiddleware(authService tokenValidator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAccessToken accepts any valid, non-revoked access token.
func (m *AuthMiddleware) RequireAccessToken(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, service.TokenTypeAccess, false)
}

// RequireFreshAccessToken additionally demands a token issued directly by
// a password login, not one minted through /refresh.
func (m *AuthMiddleware) RequireFreshAccessToken(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, service.TokenTypeAccess, true)
}

// RequireRefreshToken accepts only refresh tokens.
func (m *AuthMiddleware) RequireRefreshToken(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, service.TokenTypeRefresh, false)
}

func (m *AuthMiddleware) require(next echo.HandlerFunc, tokenType string, fresh bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("missing authorization header")
			return c.JSON(http.StatusUnauthorized, dto.UnauthorizedResponse{
				Description: "Request does not contain an access token",
				Error:       "authorization_required",
			})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logrus.Debug("invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, dto.UnauthorizedResponse{
				Description: "Request does not contain an access token",
				Error:       "authorization_required",
			})
		}

		claims, err := m.authService.ValidateToken(parts[1], tokenType)
		if err != nil {
			if errors.Is(err, service.ErrTokenRevoked) {
				logrus.WithField("path", c.Path()).Debug("revoked token presented")
				return c.JSON(http.StatusUnauthorized, dto.UnauthorizedResponse{
					Description: "The token has been revoked.",
					Error:       "token_revoked",
				})
			}
			logrus.Debug("invalid or expired token")
			return c.JSON(http.StatusUnauthorized, dto.UnauthorizedResponse{
				Description: "Signature verification failed or token has expired",
				Error:       "invalid_token",
			})
		}

		if fresh && !claims.Fresh {
			return c.JSON(http.StatusUnauthorized, dto.UnauthorizedResponse{
				Description: "The token is not fresh.",
				Error:       "fresh_token_required",
			})
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)

		return next(c)
	}
}

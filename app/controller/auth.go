package controller

import (
	"errors"
	"fmt"
	"net/http"

	dto "github.com/vibast-solutions/ms-go-catalog/app/dto/http"
	"github.com/vibast-solutions/ms-go-catalog/app/middleware"
	"github.com/vibast-solutions/ms-go-catalog/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgUsernameExists  = "A user with that username already exists."
	msgEmailExists     = "A user with that email already exists."
	msgUserCreated     = "Account created successfully, an email with an activation link has been sent to your email address, please check."
	msgInvalidCreds    = "Invalid credentials!"
	msgNotConfirmed    = "You have not confirmed registration, please check your email '%s'."
	msgLoggedOut       = "User <id=%d> successfully logged out."
	msgInternalError   = "internal server error"
	msgInvalidBody     = "invalid request body"
	msgFailedToCreate  = "Internal server error. Failed to create user."
	msgUserNotFound    = "User not found."
	msgUserDeleted     = "User deleted."
	msgInvalidUserID   = "invalid user id"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidBody})
	}

	if errs := req.Validate(); errs != nil {
		return ctx.JSON(http.StatusBadRequest, errs)
	}

	_, err := c.authService.Register(ctx.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgUsernameExists})
		}
		if errors.Is(err, service.ErrEmailExists) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgEmailExists})
		}
		var mailErr *service.MailDeliveryError
		if errors.As(err, &mailErr) {
			return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: mailErr.Message})
		}
		logrus.WithError(err).Error("registration failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgFailedToCreate})
	}

	return ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: msgUserCreated})
}

func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidBody})
	}

	if errs := req.Validate(); errs != nil {
		return ctx.JSON(http.StatusBadRequest, errs)
	}

	result, err := c.authService.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: msgInvalidCreds})
		}
		var notActivated *service.NotActivatedError
		if errors.As(err, &notActivated) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{
				Message: fmt.Sprintf(msgNotConfirmed, notActivated.Email),
			})
		}
		logrus.WithError(err).Error("login failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

func (c *AuthController) Logout(ctx echo.Context) error {
	claims, ok := ctx.Get(middleware.ContextKeyClaims).(*service.Claims)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.UnauthorizedResponse{
			Description: "Request does not contain an access token",
			Error:       "authorization_required",
		})
	}

	c.authService.Logout(claims)

	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf(msgLoggedOut, claims.UserID),
	})
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	claims, ok := ctx.Get(middleware.ContextKeyClaims).(*service.Claims)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.UnauthorizedResponse{
			Description: "Request does not contain an access token",
			Error:       "authorization_required",
		})
	}

	result, err := c.authService.Refresh(claims)
	if err != nil {
		logrus.WithError(err).Error("token refresh failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

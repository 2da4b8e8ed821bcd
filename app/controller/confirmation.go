package controller

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	dto "github.com/vibast-solutions/ms-go-catalog/app/dto/http"
	"github.com/vibast-solutions/ms-go-catalog/app/service"
	"github.com/vibast-solutions/ms-go-catalog/app/templates"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgConfirmationNotFound = "Confirmation reference not found"
	msgLinkExpired          = "The link has expired"
	msgAlreadyConfirmed     = "Registration has already been confirmed"
	msgResendSuccessful     = "Email confirmation successfully re-sent"
	msgResendFailed         = "Internal server error, Failed to resend confirmation email"
)

type ConfirmationController struct {
	confirmationService *service.ConfirmationService
}

func NewConfirmationController(confirmationService *service.ConfirmationService) *ConfirmationController {
	return &ConfirmationController{confirmationService: confirmationService}
}

// Confirm handles the emailed activation link and returns an HTML page on
// success.
func (c *ConfirmationController) Confirm(ctx echo.Context) error {
	confirmationID := ctx.Param("confirmation_id")

	result, err := c.confirmationService.Confirm(ctx.Request().Context(), confirmationID)
	if err != nil {
		if errors.Is(err, service.ErrConfirmationNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgConfirmationNotFound})
		}
		if errors.Is(err, service.ErrLinkExpired) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgLinkExpired})
		}
		if errors.Is(err, service.ErrAlreadyConfirmed) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgAlreadyConfirmed})
		}
		logrus.WithError(err).Error("confirmation failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	page, err := templates.ConfirmationPage(result.User.Email)
	if err != nil {
		logrus.WithError(err).Error("failed to render confirmation page")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.HTMLBlob(http.StatusOK, page)
}

// ListByUser returns all confirmations for a user. Diagnostic endpoint.
func (c *ConfirmationController) ListByUser(ctx echo.Context) error {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidUserID})
	}

	confirmations, err := c.confirmationService.List(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgUserNotFound})
		}
		logrus.WithError(err).Error("confirmation listing failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	responses := make([]dto.ConfirmationResponse, 0, len(confirmations))
	for _, confirmation := range confirmations {
		responses = append(responses, dto.NewConfirmationResponse(confirmation))
	}

	return ctx.JSON(http.StatusOK, dto.ConfirmationListResponse{
		CurrentTime:   time.Now().Unix(),
		Confirmations: responses,
	})
}

// Resend supersedes the pending confirmation and re-sends the activation
// email.
func (c *ConfirmationController) Resend(ctx echo.Context) error {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidUserID})
	}

	if err := c.confirmationService.Resend(ctx.Request().Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgUserNotFound})
		}
		if errors.Is(err, service.ErrAlreadyConfirmed) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgAlreadyConfirmed})
		}
		var mailErr *service.MailDeliveryError
		if errors.As(err, &mailErr) {
			return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: mailErr.Message})
		}
		logrus.WithError(err).WithField("stack", string(debug.Stack())).Error("failed to resend confirmation email")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgResendFailed})
	}

	return ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: msgResendSuccessful})
}

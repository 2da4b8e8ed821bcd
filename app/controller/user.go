package controller

import (
	"errors"
	"net/http"
	"strconv"

	dto "github.com/vibast-solutions/ms-go-catalog/app/dto/http"
	"github.com/vibast-solutions/ms-go-catalog/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UserController exposes the user resource for testing and admin use; it
// is not meant for public clients.
type UserController struct {
	authService *service.AuthService
}

func NewUserController(authService *service.AuthService) *UserController {
	return &UserController{authService: authService}
}

func (c *UserController) Get(ctx echo.Context) error {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidUserID})
	}

	user, err := c.authService.GetUser(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgUserNotFound})
		}
		logrus.WithError(err).Error("user lookup failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (c *UserController) Delete(ctx echo.Context) error {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidUserID})
	}

	if err := c.authService.DeleteUser(ctx.Request().Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgUserNotFound})
		}
		logrus.WithError(err).Error("user delete failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: msgUserDeleted})
}

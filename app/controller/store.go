package controller

import (
	"errors"
	"fmt"
	"net/http"

	dto "github.com/vibast-solutions/ms-go-catalog/app/dto/http"
	"github.com/vibast-solutions/ms-go-catalog/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgStoreNotFound = "Store not found"
	msgStoreDeleted  = "Store deleted"
	msgStoreExists   = "A store with name '%s' already exist"
)

type StoreController struct {
	catalogService *service.CatalogService
}

func NewStoreController(catalogService *service.CatalogService) *StoreController {
	return &StoreController{catalogService: catalogService}
}

func (c *StoreController) Get(ctx echo.Context) error {
	name := ctx.Param("name")

	store, items, err := c.catalogService.GetStore(ctx.Request().Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgStoreNotFound})
		}
		logrus.WithError(err).Error("store lookup failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.StoreResponse{
		ID:    store.ID,
		Name:  store.Name,
		Items: dto.NewItemResponses(items),
	})
}

func (c *StoreController) List(ctx echo.Context) error {
	stores, err := c.catalogService.ListStores(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("store listing failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	responses := make([]dto.StoreResponse, 0, len(stores))
	for _, store := range stores {
		responses = append(responses, dto.StoreResponse{ID: store.ID, Name: store.Name})
	}

	return ctx.JSON(http.StatusOK, dto.StoreListResponse{Stores: responses})
}

// Create requires a fresh access token, like item creation.
func (c *StoreController) Create(ctx echo.Context) error {
	name := ctx.Param("name")

	store, err := c.catalogService.CreateStore(ctx.Request().Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrStoreExists) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{
				Message: fmt.Sprintf(msgStoreExists, name),
			})
		}
		logrus.WithError(err).Error("store insert failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusCreated, dto.StoreResponse{ID: store.ID, Name: store.Name})
}

func (c *StoreController) Delete(ctx echo.Context) error {
	name := ctx.Param("name")

	if err := c.catalogService.DeleteStore(ctx.Request().Context(), name); err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgStoreNotFound})
		}
		logrus.WithError(err).Error("store delete failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: msgStoreDeleted})
}

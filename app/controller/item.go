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
	msgItemNotFound   = "Item not found"
	msgItemDeleted    = "Item deleted"
	msgItemExists     = "An item with name '%s' already exist"
	msgErrorInserting = "An Error occurred inserting the item"
)

type ItemController struct {
	catalogService *service.CatalogService
}

func NewItemController(catalogService *service.CatalogService) *ItemController {
	return &ItemController{catalogService: catalogService}
}

func (c *ItemController) Get(ctx echo.Context) error {
	name := ctx.Param("name")

	item, err := c.catalogService.GetItem(ctx.Request().Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgItemNotFound})
		}
		logrus.WithError(err).Error("item lookup failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.NewItemResponse(item))
}

func (c *ItemController) List(ctx echo.Context) error {
	items, err := c.catalogService.ListItems(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("item listing failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.ItemListResponse{Items: dto.NewItemResponses(items)})
}

// Create requires a fresh access token: adding items to the catalog is
// gated on a recent password login.
func (c *ItemController) Create(ctx echo.Context) error {
	name := ctx.Param("name")

	var req dto.ItemRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidBody})
	}
	if errs := req.Validate(); errs != nil {
		return ctx.JSON(http.StatusBadRequest, errs)
	}

	item, err := c.catalogService.CreateItem(ctx.Request().Context(), name, req.Price, req.StoreID)
	if err != nil {
		if errors.Is(err, service.ErrItemExists) {
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{
				Message: fmt.Sprintf(msgItemExists, name),
			})
		}
		logrus.WithError(err).Error("item insert failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgErrorInserting})
	}

	return ctx.JSON(http.StatusCreated, dto.NewItemResponse(item))
}

func (c *ItemController) Upsert(ctx echo.Context) error {
	name := ctx.Param("name")

	var req dto.ItemRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidBody})
	}
	if errs := req.Validate(); errs != nil {
		return ctx.JSON(http.StatusBadRequest, errs)
	}

	item, _, err := c.catalogService.UpsertItem(ctx.Request().Context(), name, req.Price, req.StoreID)
	if err != nil {
		logrus.WithError(err).Error("item upsert failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgErrorInserting})
	}

	return ctx.JSON(http.StatusOK, dto.NewItemResponse(item))
}

func (c *ItemController) Delete(ctx echo.Context) error {
	name := ctx.Param("name")

	if err := c.catalogService.DeleteItem(ctx.Request().Context(), name); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.MessageResponse{Message: msgItemNotFound})
		}
		logrus.WithError(err).Error("item delete failed")
		return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgInternalError})
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: msgItemDeleted})
}

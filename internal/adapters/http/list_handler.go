package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// ListHandler handles task list requests
type ListHandler struct {
	listService ports.ListService
	logger      *logger.Logger
}

// NewListHandler creates a new list handler
func NewListHandler(listService ports.ListService, logger *logger.Logger) *ListHandler {
	return &ListHandler{
		listService: listService,
		logger:      logger,
	}
}

// CreateList handles list creation
func (h *ListHandler) CreateList(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := h.listService.CreateList(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Create list failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, list)
}

// GetLists handles listing the user's task lists
func (h *ListHandler) GetLists(c echo.Context) error {
	userID := getUserIDFromContext(c)

	lists, err := h.listService.GetLists(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Get lists failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve lists")
	}

	return c.JSON(http.StatusOK, lists)
}

// RenameList handles renaming a list
func (h *ListHandler) RenameList(c echo.Context) error {
	userID := getUserIDFromContext(c)

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid list ID")
	}

	var req struct {
		Title string `json:"title" validate:"required,min=1,max=100"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := h.listService.RenameList(c.Request().Context(), userID, listID, req.Title)
	if err != nil {
		return listError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, list)
}

// DeleteList handles deleting a list and its tasks
func (h *ListHandler) DeleteList(c echo.Context) error {
	userID := getUserIDFromContext(c)

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid list ID")
	}

	if err := h.listService.DeleteList(c.Request().Context(), userID, listID); err != nil {
		return listError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "List deleted"})
}

func listError(c echo.Context, log *logger.Logger, err error, userID uuid.UUID) error {
	switch {
	case errors.Is(err, entities.ErrListNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "List not found")
	case errors.Is(err, entities.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "List belongs to another user")
	default:
		log.Errorw("List operation failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "List operation failed")
	}
}

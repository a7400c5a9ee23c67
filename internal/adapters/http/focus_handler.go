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

// FocusHandler handles the focus session flow: trip catalog, start, live
// controls, end confirmation and the finish step.
type FocusHandler struct {
	focusService ports.FocusService
	logger       *logger.Logger
}

// NewFocusHandler creates a new focus handler
func NewFocusHandler(focusService ports.FocusService, logger *logger.Logger) *FocusHandler {
	return &FocusHandler{
		focusService: focusService,
		logger:       logger,
	}
}

// GetTrips returns the trip catalog for the trip selection stage
func (h *FocusHandler) GetTrips(c echo.Context) error {
	return c.JSON(http.StatusOK, h.focusService.Trips())
}

// Start begins a focus session from selected task ids and an optional trip
func (h *FocusHandler) Start(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.StartFocusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snap, err := h.focusService.Start(c.Request().Context(), userID, req)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusCreated, snap)
}

// State returns the current session snapshot
func (h *FocusHandler) State(c echo.Context) error {
	userID := getUserIDFromContext(c)

	snap, err := h.focusService.State(c.Request().Context(), userID)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, snap)
}

// Pause freezes the session timer
func (h *FocusHandler) Pause(c echo.Context) error {
	userID := getUserIDFromContext(c)

	snap, err := h.focusService.Pause(c.Request().Context(), userID)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, snap)
}

// Resume restarts a paused session timer
func (h *FocusHandler) Resume(c echo.Context) error {
	userID := getUserIDFromContext(c)

	snap, err := h.focusService.Resume(c.Request().Context(), userID)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, snap)
}

// CompleteTask marks one selected task complete inside the live session
func (h *FocusHandler) CompleteTask(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.ToggleFocusTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snap, err := h.focusService.CompleteTask(c.Request().Context(), userID, req.TaskID)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, snap)
}

// End requests an early end. The confirmed flag carries the user's answer
// to the confirmation prompt; an unconfirmed request changes nothing.
func (h *FocusHandler) End(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.EndFocusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	snap, err := h.focusService.End(c.Request().Context(), userID, req)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, snap)
}

// ToggleCompleted edits the completed set during post-end reconciliation
func (h *FocusHandler) ToggleCompleted(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.ToggleFocusTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snap, err := h.focusService.ToggleCompleted(c.Request().Context(), userID, req.TaskID)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, snap)
}

// Finish concludes an ended session and returns the recomputed stats
func (h *FocusHandler) Finish(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.FinishFocusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	stats, err := h.focusService.Finish(c.Request().Context(), userID, req)
	if err != nil {
		return focusError(c, h.logger, err, userID)
	}

	return c.JSON(http.StatusOK, ports.StatsResponse{
		Stats: stats,
		Band:  entities.HealthBand(stats.FocusHealthScore),
	})
}

func focusError(c echo.Context, log *logger.Logger, err error, userID uuid.UUID) error {
	switch {
	case errors.Is(err, entities.ErrNoActiveSession):
		return echo.NewHTTPError(http.StatusNotFound, "No active focus session")
	case errors.Is(err, entities.ErrSessionActive):
		return echo.NewHTTPError(http.StatusConflict, "A focus session is already active")
	case errors.Is(err, entities.ErrSessionNotEnded):
		return echo.NewHTTPError(http.StatusConflict, "Focus session has not ended")
	case errors.Is(err, entities.ErrNoTasksSelected):
		return echo.NewHTTPError(http.StatusBadRequest, "No tasks selected")
	case errors.Is(err, entities.ErrTooManyTasks):
		return echo.NewHTTPError(http.StatusBadRequest, "At most three tasks can be selected")
	case errors.Is(err, entities.ErrTaskNotSelectable):
		return echo.NewHTTPError(http.StatusBadRequest, "Task is not selectable for a focus session")
	case errors.Is(err, entities.ErrUnknownTrip):
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown trip")
	default:
		log.Errorw("Focus operation failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Focus operation failed")
	}
}

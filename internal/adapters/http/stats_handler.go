package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odysseyapp/core/internal/domain/entities"
	"github.com/odysseyapp/core/internal/infrastructure/logger"
	"github.com/odysseyapp/core/internal/ports"
)

// StatsHandler serves session history and the recomputed focus stats
type StatsHandler struct {
	sessionService ports.SessionService
	logger         *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(sessionService ports.SessionService, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// GetSessions returns the user's session history, newest first
func (h *StatsHandler) GetSessions(c echo.Context) error {
	userID := getUserIDFromContext(c)

	sessions, err := h.sessionService.GetSessions(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Get sessions failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve sessions")
	}

	return c.JSON(http.StatusOK, sessions)
}

// GetStats returns the recomputed focus stats with the health score band.
// Stats never fail; a storage problem yields a zero-valued snapshot.
func (h *StatsHandler) GetStats(c echo.Context) error {
	userID := getUserIDFromContext(c)

	stats := h.sessionService.RecomputeStats(c.Request().Context(), userID)

	return c.JSON(http.StatusOK, ports.StatsResponse{
		Stats: stats,
		Band:  entities.HealthBand(stats.FocusHealthScore),
	})
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairlink-server/internal/core"
	"github.com/vovakirdan/pairlink-server/internal/store"
)

// StatusHandlers provides the read-only operational monitoring surface.
type StatusHandlers struct {
	hub   *core.Hub
	store store.Store
	log   *zerolog.Logger
}

// NewStatusHandlers creates a new status handlers instance.
func NewStatusHandlers(hub *core.Hub, st store.Store, logger *zerolog.Logger) *StatusHandlers {
	return &StatusHandlers{
		hub:   hub,
		store: st,
		log:   logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse represents a recorded room session in API responses.
type SessionResponse struct {
	Room     string `json:"room"`
	OpenedAt string `json:"opened_at"`
	ClosedAt string `json:"closed_at,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// StatusResponse combines live counters with journal totals.
type StatusResponse struct {
	core.Stats
	RoomsOpenedTotal int64 `json:"rooms_opened_total"`
	RoomsClosedTotal int64 `json:"rooms_closed_total"`
}

// Status reports current active-room and active-player counts plus
// drop counters.
// GET /api/status
func (h *StatusHandlers) Status(c *gin.Context) {
	resp := StatusResponse{Stats: h.hub.Stats()}

	if h.store != nil {
		totals, err := h.store.Totals(c.Request.Context())
		if err != nil {
			h.log.Error().Err(err).Msg("failed to read journal totals")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		resp.RoomsOpenedTotal = totals.Opened
		resp.RoomsClosedTotal = totals.Closed
	}

	c.JSON(http.StatusOK, resp)
}

// History lists recent room sessions from the journal.
// GET /api/history?limit=20
func (h *StatusHandlers) History(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, []SessionResponse{})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	sessions, err := h.store.RecentSessions(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list sessions")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		item := SessionResponse{
			Room:     s.Room,
			OpenedAt: s.OpenedAt.Format("2006-01-02T15:04:05Z07:00"),
			Reason:   string(s.Reason),
		}
		if s.ClosedAt != nil {
			item.ClosedAt = s.ClosedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		response = append(response, item)
	}

	c.JSON(http.StatusOK, response)
}

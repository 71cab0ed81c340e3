package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schedulecore/masterschedule/internal/service"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
	"github.com/schedulecore/masterschedule/pkg/response"
)

// EventHandler exposes read access to calendar events.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler constructs a new EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List godoc
// @Summary List events in a calendar range
// @Tags Events
// @Produce json
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid start timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid end timestamp"))
		return
	}
	events, err := h.events.ListInRange(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

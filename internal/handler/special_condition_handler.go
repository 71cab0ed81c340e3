package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schedulecore/masterschedule/internal/models"
	"github.com/schedulecore/masterschedule/internal/service"
	"github.com/schedulecore/masterschedule/pkg/response"
)

// SpecialConditionHandler exposes read access to per-entity constraints.
type SpecialConditionHandler struct {
	conditions *service.SpecialConditionService
}

// NewSpecialConditionHandler constructs a new SpecialConditionHandler.
func NewSpecialConditionHandler(conditions *service.SpecialConditionService) *SpecialConditionHandler {
	return &SpecialConditionHandler{conditions: conditions}
}

// List godoc
// @Summary List special conditions for a schedule's entity pool
// @Tags SpecialConditions
// @Produce json
// @Param scheduleId query string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /special-conditions [get]
func (h *SpecialConditionHandler) List(c *gin.Context) {
	conditions, err := h.conditions.ListForSchedule(c.Request.Context(), c.Query("scheduleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conditions, nil)
}

// ListByTarget godoc
// @Summary List special conditions attached to one entity
// @Tags SpecialConditions
// @Produce json
// @Param targetKind query string true "Target kind (teacher, student, course, room)"
// @Param targetId query string true "Target entity ID"
// @Success 200 {object} response.Envelope
// @Router /special-conditions/by-target [get]
func (h *SpecialConditionHandler) ListByTarget(c *gin.Context) {
	conditions, err := h.conditions.ListByTarget(c.Request.Context(), models.ConditionTarget(c.Query("targetKind")), c.Query("targetId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conditions, nil)
}

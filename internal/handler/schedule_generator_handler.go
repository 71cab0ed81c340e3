package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schedulecore/masterschedule/internal/dto"
	"github.com/schedulecore/masterschedule/internal/service"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
	"github.com/schedulecore/masterschedule/pkg/response"
)

// ScheduleGeneratorHandler exposes the generate/analyze/audit pipeline.
type ScheduleGeneratorHandler struct {
	service *service.ScheduleGeneratorService
}

// NewScheduleGeneratorHandler constructs handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Create a schedule header and run the full generation pipeline
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerationRequest true "Generation request"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "malformed generation request"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Analyze godoc
// @Summary Run the pre-schedule analyzer without spending an optimization budget
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.AnalyzeRequest true "Analyze request"
// @Success 200 {object} response.Envelope
// @Router /schedules/analyze [post]
func (h *ScheduleGeneratorHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "malformed analyze request"))
		return
	}
	result, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Audit godoc
// @Summary Re-run conflict detection against a stored schedule's slots
// @Tags Scheduler
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/audit [get]
func (h *ScheduleGeneratorHandler) Audit(c *gin.Context) {
	conflicts, err := h.service.Audit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

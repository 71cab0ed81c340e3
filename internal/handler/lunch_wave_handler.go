package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schedulecore/masterschedule/internal/service"
	appErrors "github.com/schedulecore/masterschedule/pkg/errors"
	"github.com/schedulecore/masterschedule/pkg/response"
)

// LunchWaveHandler wires lunch-wave management to HTTP routes.
type LunchWaveHandler struct {
	waves *service.LunchWaveService
}

// NewLunchWaveHandler constructs a new LunchWaveHandler.
func NewLunchWaveHandler(waves *service.LunchWaveService) *LunchWaveHandler {
	return &LunchWaveHandler{waves: waves}
}

// List godoc
// @Summary List lunch waves
// @Tags LunchWaves
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lunch-waves [get]
func (h *LunchWaveHandler) List(c *gin.Context) {
	waves, err := h.waves.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, waves, nil)
}

// Create godoc
// @Summary Create lunch wave
// @Tags LunchWaves
// @Accept json
// @Produce json
// @Param payload body service.CreateLunchWaveRequest true "Lunch wave payload"
// @Success 201 {object} response.Envelope
// @Router /lunch-waves [post]
func (h *LunchWaveHandler) Create(c *gin.Context) {
	var req service.CreateLunchWaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lunch wave payload"))
		return
	}
	wave, err := h.waves.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, wave)
}

// RunAssignment godoc
// @Summary Run a lunch-wave assignment pass
// @Tags LunchWaves
// @Accept json
// @Produce json
// @Param payload body service.RunAssignmentRequest true "Assignment request"
// @Success 200 {object} response.Envelope
// @Router /lunch-waves/assign [post]
func (h *LunchWaveHandler) RunAssignment(c *gin.Context) {
	var req service.RunAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment request"))
		return
	}
	report, err := h.waves.RunAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

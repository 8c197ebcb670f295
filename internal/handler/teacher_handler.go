package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classcover/classcover-api/internal/service"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
	"github.com/classcover/classcover-api/pkg/response"
)

// TeacherHandler wires roster and free-period routes.
type TeacherHandler struct {
	roster    *service.RosterService
	timetable *service.TimetableService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(roster *service.RosterService, timetable *service.TimetableService) *TeacherHandler {
	return &TeacherHandler{roster: roster, timetable: timetable}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.List(), nil)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.roster.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Create godoc
// @Summary Add a teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req service.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.roster.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Delete godoc
// @Summary Remove a teacher
// @Tags Teachers
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	if err := h.roster.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type toggleFreePeriodRequest struct {
	Period int `json:"period" binding:"required"`
}

// ToggleFreePeriod godoc
// @Summary Toggle a manually maintained free period
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body toggleFreePeriodRequest true "Period to flip"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/free-periods [patch]
func (h *TeacherHandler) ToggleFreePeriod(c *gin.Context) {
	var req toggleFreePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid free-period payload"))
		return
	}
	teacher, err := h.timetable.ToggleManualFree(c.Request.Context(), c.Param("id"), req.Period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// RefreshFreePeriods godoc
// @Summary Recompute free periods from imported timetables for a date
// @Tags Teachers
// @Produce json
// @Param date query string true "School date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /teachers/free-periods/refresh [post]
func (h *TeacherHandler) RefreshFreePeriods(c *gin.Context) {
	refreshed, err := h.timetable.RefreshFreePeriods(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"refreshed": refreshed}, nil)
}

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/service"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
	"github.com/classcover/classcover-api/pkg/response"
)

// SubstitutionHandler wires candidate resolution and the substitution
// log to HTTP routes.
type SubstitutionHandler struct {
	availability *service.AvailabilityService
	assignments  *service.AssignmentService
}

// NewSubstitutionHandler constructs a new SubstitutionHandler.
func NewSubstitutionHandler(availability *service.AvailabilityService, assignments *service.AssignmentService) *SubstitutionHandler {
	return &SubstitutionHandler{availability: availability, assignments: assignments}
}

// Candidates godoc
// @Summary Rank substitute candidates for a slot
// @Tags Substitutions
// @Produce json
// @Param date query string true "School date (YYYY-MM-DD)"
// @Param period query int true "Period (1-based)"
// @Param absentTeacherId query string true "Absent teacher ID"
// @Param className query string false "Class needing cover"
// @Success 200 {object} response.Envelope
// @Router /substitutions/candidates [get]
func (h *SubstitutionHandler) Candidates(c *gin.Context) {
	period, err := strconv.Atoi(c.Query("period"))
	if err != nil || period < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be a positive integer"))
		return
	}
	query := models.ArrangeQuery{
		Date:            c.Query("date"),
		Period:          period,
		AbsentTeacherID: c.Query("absentTeacherId"),
		ClassName:       strings.TrimSpace(c.Query("className")),
	}
	candidates := h.availability.Resolve(c.Request.Context(), query)
	response.JSON(c, http.StatusOK, candidates, nil)
}

// Apply godoc
// @Summary Record a substitution
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body service.ApplyAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /substitutions [post]
func (h *SubstitutionHandler) Apply(c *gin.Context) {
	var req service.ApplyAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	result, err := h.assignments.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// DailyLog godoc
// @Summary List substitutions recorded for one date
// @Tags Substitutions
// @Produce json
// @Param date query string true "School date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /substitutions/daily [get]
func (h *SubstitutionHandler) DailyLog(c *gin.Context) {
	date := c.Query("date")
	if _, err := models.ParseSchoolDate(date); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date"))
		return
	}
	response.JSON(c, http.StatusOK, h.assignments.DailyLog(date), nil)
}

// FullLog godoc
// @Summary List the full substitution history, newest first
// @Tags Substitutions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /substitutions/log [get]
func (h *SubstitutionHandler) FullLog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.assignments.FullLog(), nil)
}

// Rollback godoc
// @Summary Revoke a recorded substitution
// @Tags Substitutions
// @Param id path string true "Log entry ID"
// @Success 204
// @Router /substitutions/{id} [delete]
func (h *SubstitutionHandler) Rollback(c *gin.Context) {
	if err := h.assignments.Rollback(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

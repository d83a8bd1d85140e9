package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/model"
	"github.com/stemsi/guesswise-backend/internal/response"
	"github.com/stemsi/guesswise-backend/internal/service"
	"github.com/stemsi/guesswise-backend/internal/validator"
)

// GradeHandler serves the grade calculator.
type GradeHandler struct {
	gradeService *service.GradeService
	log          zerolog.Logger
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(gradeService *service.GradeService, log zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		gradeService: gradeService,
		log:          log.With().Str("component", "grade_handler").Logger(),
	}
}

// Compute godoc
// POST /api/v1/grades/compute
// Grades a list of subjects without creating a sheet.
func (h *GradeHandler) Compute(c *gin.Context) {
	var req model.ComputeGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.gradeService.Compute(req.Subjects)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// CreateSheet godoc
// POST /api/v1/grades/sheets
func (h *GradeHandler) CreateSheet(c *gin.Context) {
	sheet, err := h.gradeService.CreateSheet(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, sheet)
}

// GetSheet godoc
// GET /api/v1/grades/sheets/:sheet_id
func (h *GradeHandler) GetSheet(c *gin.Context) {
	sheet, err := h.gradeService.GetSheet(c.Request.Context(), c.Param("sheet_id"))
	h.respondSheet(c, sheet, err)
}

// AddSubject godoc
// POST /api/v1/grades/sheets/:sheet_id/subjects
func (h *GradeHandler) AddSubject(c *gin.Context) {
	var req model.AddSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sheet, err := h.gradeService.AddSubject(c.Request.Context(), c.Param("sheet_id"), req.Name)
	h.respondSheet(c, sheet, err)
}

// RemoveSubject godoc
// DELETE /api/v1/grades/sheets/:sheet_id/subjects/:subject_id
func (h *GradeHandler) RemoveSubject(c *gin.Context) {
	subjectID, ok := subjectIDParam(c)
	if !ok {
		return
	}

	sheet, err := h.gradeService.RemoveSubject(c.Request.Context(), c.Param("sheet_id"), subjectID)
	h.respondSheet(c, sheet, err)
}

// SetMarks godoc
// PUT /api/v1/grades/sheets/:sheet_id/subjects/:subject_id/marks
func (h *GradeHandler) SetMarks(c *gin.Context) {
	subjectID, ok := subjectIDParam(c)
	if !ok {
		return
	}

	var req model.SetMarksRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sheet, err := h.gradeService.SetMarks(c.Request.Context(), c.Param("sheet_id"), subjectID, *req.Marks)
	h.respondSheet(c, sheet, err)
}

// Calculate godoc
// POST /api/v1/grades/sheets/:sheet_id/calculate
func (h *GradeHandler) Calculate(c *gin.Context) {
	sheet, err := h.gradeService.Calculate(c.Request.Context(), c.Param("sheet_id"))
	h.respondSheet(c, sheet, err)
}

// Reset godoc
// POST /api/v1/grades/sheets/:sheet_id/reset
func (h *GradeHandler) Reset(c *gin.Context) {
	sheet, err := h.gradeService.Reset(c.Request.Context(), c.Param("sheet_id"))
	h.respondSheet(c, sheet, err)
}

func (h *GradeHandler) respondSheet(c *gin.Context, sheet *model.GradeSheet, err error) {
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, sheet)
}

func subjectIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("subject_id"), 10, 64)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

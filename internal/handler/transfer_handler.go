package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classcover/classcover-api/internal/service"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
	"github.com/classcover/classcover-api/pkg/response"
)

// uploads past this size are rejected before parsing
const maxUploadBytes = 8 << 20

// TransferHandler wires bulk imports, exports and backup routes.
type TransferHandler struct {
	imports *service.ImportService
	exports *service.ExportService
}

// NewTransferHandler constructs a new TransferHandler.
func NewTransferHandler(imports *service.ImportService, exports *service.ExportService) *TransferHandler {
	return &TransferHandler{imports: imports, exports: exports}
}

// ImportStats godoc
// @Summary Import teacher counters from CSV
// @Tags Transfers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Stats CSV"
// @Success 200 {object} response.Envelope
// @Router /imports/stats [post]
func (h *TransferHandler) ImportStats(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.imports.ImportStats(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ImportTimetable godoc
// @Summary Import master timetables from CSV
// @Tags Transfers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Timetable CSV"
// @Param date query string false "Date whose free periods to refresh after import"
// @Success 200 {object} response.Envelope
// @Router /imports/timetable [post]
func (h *TransferHandler) ImportTimetable(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.imports.ImportTimetable(c.Request.Context(), data, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ExportStats godoc
// @Summary Download teacher counters as CSV
// @Tags Transfers
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/stats.csv [get]
func (h *TransferHandler) ExportStats(c *gin.Context) {
	body, err := h.exports.StatsCSV()
	if err != nil {
		response.Error(c, err)
		return
	}
	sendAttachment(c, fmt.Sprintf("stats-%s.csv", time.Now().Format("2006-01-02")), "text/csv; charset=utf-8", body)
}

// TimetableTemplate godoc
// @Summary Download the timetable upload template
// @Tags Transfers
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/timetable-template.csv [get]
func (h *TransferHandler) TimetableTemplate(c *gin.Context) {
	body, err := h.exports.TimetableTemplateCSV()
	if err != nil {
		response.Error(c, err)
		return
	}
	sendAttachment(c, "timetable-template.csv", "text/csv; charset=utf-8", body)
}

// Announcement godoc
// @Summary Download one day's substitution notice as PDF
// @Tags Transfers
// @Produce application/pdf
// @Param date query string true "School date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /exports/announcement.pdf [get]
func (h *TransferHandler) Announcement(c *gin.Context) {
	date := c.Query("date")
	body, err := h.exports.AnnouncementPDF(date)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendAttachment(c, fmt.Sprintf("announcement-%s.pdf", date), "application/pdf", body)
}

// Backup godoc
// @Summary Download the full state as JSON
// @Tags Transfers
// @Produce application/json
// @Success 200 {file} file
// @Router /exports/backup.json [get]
func (h *TransferHandler) Backup(c *gin.Context) {
	body, err := h.exports.BackupJSON()
	if err != nil {
		response.Error(c, err)
		return
	}
	sendAttachment(c, fmt.Sprintf("backup-%s.json", time.Now().Format("2006-01-02")), "application/json", body)
}

// Restore godoc
// @Summary Replace the full state from a backup file
// @Tags Transfers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Backup JSON"
// @Success 200 {object} response.Envelope
// @Router /backup/restore [post]
func (h *TransferHandler) Restore(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.exports.RestoreBackup(c.Request.Context(), data); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"restored": true}, nil)
}

func readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file upload is required")
	}
	if fh.Size > maxUploadBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file too large")
	}
	src, err := fh.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file could not be read")
	}
	defer src.Close() //nolint:errcheck
	return io.ReadAll(io.LimitReader(src, maxUploadBytes))
}

func sendAttachment(c *gin.Context, filename, mimeType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeType, body)
}

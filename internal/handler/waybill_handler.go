package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"remitra/internal/domain"
	"remitra/internal/service"
	"remitra/internal/xlsxexport"
)

// exportPageSize caps how many waybills a single XLSX export pulls.
const exportPageSize = 10000

// WaybillHandler handles waybill endpoints.
type WaybillHandler struct {
	waybillService service.WaybillService
}

// NewWaybillHandler creates a new WaybillHandler.
func NewWaybillHandler(waybillService service.WaybillService) *WaybillHandler {
	return &WaybillHandler{waybillService: waybillService}
}

// Upload handles POST /api/v1/waybills
func (h *WaybillHandler) Upload(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "failed to read uploaded file")
		return
	}

	wb, err := h.waybillService.Upload(c.Request.Context(), service.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		FileBytes:   fileBytes,
		UploadedBy:  userID,
	})
	if err != nil {
		// The waybill record may still exist in failed state; return it
		// alongside the error when available.
		if wb != nil {
			status, code, msg := MapDomainError(err)
			c.JSON(status, APIResponse{
				Success: false,
				Data:    wb,
				Error:   &APIError{Code: code, Message: msg},
			})
			return
		}
		HandleError(c, err)
		return
	}

	RespondCreated(c, wb)
}

// GetByID handles GET /api/v1/waybills/:id
func (h *WaybillHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid waybill ID")
		return
	}

	wb, err := h.waybillService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, wb)
}

// List handles GET /api/v1/waybills
func (h *WaybillHandler) List(c *gin.Context) {
	filter, ok := parseWaybillFilter(c)
	if !ok {
		return
	}

	list, total, err := h.waybillService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, list, PagMeta{Total: total, Page: filter.Page, PageSize: filter.PageSize})
}

// Update handles PATCH /api/v1/waybills/:id
func (h *WaybillHandler) Update(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid waybill ID")
		return
	}

	var input service.UpdateWaybillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.UpdatedBy = userID

	wb, err := h.waybillService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, wb)
}

// Reprocess handles POST /api/v1/waybills/:id/reprocess
func (h *WaybillHandler) Reprocess(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid waybill ID")
		return
	}

	wb, err := h.waybillService.Reprocess(c.Request.Context(), id, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, wb)
}

// SetVoided handles PATCH /api/v1/waybills/:id/voided
func (h *WaybillHandler) SetVoided(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid waybill ID")
		return
	}

	var req struct {
		Voided *bool `json:"voided" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "voided field is required")
		return
	}

	if err := h.waybillService.SetVoided(c.Request.Context(), id, *req.Voided, userID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"voided": *req.Voided})
}

// Delete handles DELETE /api/v1/waybills/:id
func (h *WaybillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid waybill ID")
		return
	}

	if err := h.waybillService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "waybill deleted"})
}

// FileURL handles GET /api/v1/waybills/:id/file-url
func (h *WaybillHandler) FileURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid waybill ID")
		return
	}

	url, err := h.waybillService.FileURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// Export handles GET /api/v1/waybills/export and streams an XLSX workbook
// of the waybills matching the same filters as List.
func (h *WaybillHandler) Export(c *gin.Context) {
	filter, ok := parseWaybillFilter(c)
	if !ok {
		return
	}
	filter.Page = 1
	filter.PageSize = exportPageSize

	list, _, err := h.waybillService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := xlsxexport.Write(list)
	if err != nil {
		HandleError(c, err)
		return
	}

	fileName := fmt.Sprintf("waybills_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// parseWaybillFilter reads the shared listing filters from query params.
// Returns false if validation failed (error response already written).
func parseWaybillFilter(c *gin.Context) (domain.WaybillFilter, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	filter := domain.WaybillFilter{
		Client:   c.Query("client"),
		Origin:   c.Query("origin"),
		Month:    c.Query("month"),
		Status:   domain.ParsingStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}

	if v := c.Query("voided"); v != "" {
		voided, err := strconv.ParseBool(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "voided must be true or false")
			return domain.WaybillFilter{}, false
		}
		filter.Voided = &voided
	}

	return filter, true
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"remitra/internal/service"
)

// TariffHandler handles tariff catalog endpoints.
type TariffHandler struct {
	tariffService service.TariffService
}

// NewTariffHandler creates a new TariffHandler.
func NewTariffHandler(tariffService service.TariffService) *TariffHandler {
	return &TariffHandler{tariffService: tariffService}
}

// Create handles POST /api/v1/tariffs
func (h *TariffHandler) Create(c *gin.Context) {
	var input service.TariffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	entry, err := h.tariffService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, entry)
}

// GetByID handles GET /api/v1/tariffs/:id
func (h *TariffHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid tariff ID")
		return
	}

	entry, err := h.tariffService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entry)
}

// List handles GET /api/v1/tariffs
func (h *TariffHandler) List(c *gin.Context) {
	list, err := h.tariffService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, list)
}

// Update handles PUT /api/v1/tariffs/:id
func (h *TariffHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid tariff ID")
		return
	}

	var input service.TariffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	entry, err := h.tariffService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entry)
}

// Delete handles DELETE /api/v1/tariffs/:id
func (h *TariffHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid tariff ID")
		return
	}

	if err := h.tariffService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "tariff deleted"})
}

// DimensionValues handles GET /api/v1/tariffs/dimensions/:field
// Returns the distinct values of a tariff dimension, used by the
// frontend for autocomplete when correcting waybill fields.
func (h *TariffHandler) DimensionValues(c *gin.Context) {
	field := c.Param("field")

	values, err := h.tariffService.DimensionValues(c.Request.Context(), field)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, values)
}

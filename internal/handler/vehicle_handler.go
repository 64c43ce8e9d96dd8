package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"remitra/internal/service"
)

// VehicleHandler handles fleet registry endpoints.
type VehicleHandler struct {
	vehicleService service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// Create handles POST /api/v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var input service.VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	veh, err := h.vehicleService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, veh)
}

// GetByID handles GET /api/v1/vehicles/:id
func (h *VehicleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid vehicle ID")
		return
	}

	veh, err := h.vehicleService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, veh)
}

// List handles GET /api/v1/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	list, err := h.vehicleService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, list)
}

// Update handles PUT /api/v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid vehicle ID")
		return
	}

	var input service.VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	veh, err := h.vehicleService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, veh)
}

// Delete handles DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid vehicle ID")
		return
	}

	if err := h.vehicleService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "vehicle deleted"})
}

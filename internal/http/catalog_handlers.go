package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/logistica/partes-service/internal/http/middleware"
	"github.com/logistica/partes-service/internal/model"
	"github.com/logistica/partes-service/internal/service"
)

// Catalog handlers back the admin list/dialog pages. They all follow
// the same shape: principal, bind, delegate, map errors.

type namedEntityRequest struct {
	Name string `json:"name" binding:"required"`
}

type vehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
}

type driverRequest struct {
	Name          string `json:"name" binding:"required"`
	AssignedPlate string `json:"assignedPlate" binding:"required"`
	Carrier       string `json:"carrier" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password"`
}

func (h *Handler) catalogContext(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, false
	}
	return principal, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) listDrivers(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	drivers, err := h.catalog.ListDrivers(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]gin.H, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, gin.H{
			"id":            d.ID,
			"name":          d.Name,
			"assignedPlate": d.AssignedPlate,
			"carrier":       d.Carrier,
			"email":         d.Email,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) createDriver(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	var req driverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver, err := h.catalog.CreateDriver(c.Request.Context(), principal, service.DriverInput{
		Name:          req.Name,
		AssignedPlate: req.AssignedPlate,
		Carrier:       req.Carrier,
		Email:         req.Email,
		Password:      req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, driver)
}

func (h *Handler) updateDriver(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req driverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver, err := h.catalog.UpdateDriver(c.Request.Context(), principal, id, service.DriverInput{
		Name:          req.Name,
		AssignedPlate: req.AssignedPlate,
		Carrier:       req.Carrier,
		Email:         req.Email,
		Password:      req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

func (h *Handler) deleteDriver(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteDriver(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listCarriers(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	carriers, err := h.catalog.ListCarriers(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, carriers)
}

func (h *Handler) createCarrier(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	carrier, err := h.catalog.CreateCarrier(c.Request.Context(), principal, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, carrier)
}

func (h *Handler) updateCarrier(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	carrier, err := h.catalog.UpdateCarrier(c.Request.Context(), principal, id, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, carrier)
}

func (h *Handler) deleteCarrier(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCarrier(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listVehicles(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	vehicles, err := h.catalog.ListVehicles(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *Handler) createVehicle(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := h.catalog.CreateVehicle(c.Request.Context(), principal, req.Plate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *Handler) updateVehicle(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := h.catalog.UpdateVehicle(c.Request.Context(), principal, id, req.Plate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteVehicle(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listClients(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	clients, err := h.catalog.ListClients(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) createClient(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.catalog.CreateClient(c.Request.Context(), principal, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) updateClient(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.catalog.UpdateClient(c.Request.Context(), principal, id, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) deleteClient(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteClient(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listMaterials(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	materials, err := h.catalog.ListMaterials(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

func (h *Handler) createMaterial(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	material, err := h.catalog.CreateMaterial(c.Request.Context(), principal, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, material)
}

func (h *Handler) updateMaterial(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	material, err := h.catalog.UpdateMaterial(c.Request.Context(), principal, id, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

func (h *Handler) deleteMaterial(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteMaterial(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listShiftTypes(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	shifts, err := h.catalog.ListShiftTypes(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, shifts)
}

func (h *Handler) createShiftType(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shift, err := h.catalog.CreateShiftType(c.Request.Context(), principal, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *Handler) updateShiftType(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req namedEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shift, err := h.catalog.UpdateShiftType(c.Request.Context(), principal, id, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *Handler) deleteShiftType(c *gin.Context) {
	principal, ok := h.catalogContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteShiftType(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

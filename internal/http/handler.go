package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/logistica/partes-service/internal/http/middleware"
	"github.com/logistica/partes-service/internal/model"
	"github.com/logistica/partes-service/internal/service"
)

type Handler struct {
	auth    *service.AuthService
	reports *service.ReportService
	refs    *service.ReferenceService
	catalog *service.CatalogService
	log     zerolog.Logger
}

func NewHandler(
	auth *service.AuthService,
	reports *service.ReportService,
	refs *service.ReferenceService,
	catalog *service.CatalogService,
	log zerolog.Logger,
) *Handler {
	return &Handler{auth: auth, reports: reports, refs: refs, catalog: catalog, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth/login", h.login)
	router.POST("/auth/conductor/login", h.loginDriver)
	router.POST("/auth/register", h.register)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/auth/me", h.me)
	protected.GET("/reference-data", h.referenceData)

	protected.GET("/reports", h.listReports)
	protected.GET("/reports/:id", h.getReport)
	protected.POST("/reports", h.createReport)
	protected.PUT("/reports/:id", h.updateReport)
	protected.DELETE("/reports/:id", h.deleteReport)
	protected.POST("/reports/export", h.exportReports)
	protected.GET("/reports/:id/pdf", h.exportReportPDF)

	catalog := protected.Group("/catalog")
	catalog.GET("/drivers", h.listDrivers)
	catalog.POST("/drivers", h.createDriver)
	catalog.PUT("/drivers/:id", h.updateDriver)
	catalog.DELETE("/drivers/:id", h.deleteDriver)
	catalog.GET("/carriers", h.listCarriers)
	catalog.POST("/carriers", h.createCarrier)
	catalog.PUT("/carriers/:id", h.updateCarrier)
	catalog.DELETE("/carriers/:id", h.deleteCarrier)
	catalog.GET("/vehicles", h.listVehicles)
	catalog.POST("/vehicles", h.createVehicle)
	catalog.PUT("/vehicles/:id", h.updateVehicle)
	catalog.DELETE("/vehicles/:id", h.deleteVehicle)
	catalog.GET("/clients", h.listClients)
	catalog.POST("/clients", h.createClient)
	catalog.PUT("/clients/:id", h.updateClient)
	catalog.DELETE("/clients/:id", h.deleteClient)
	catalog.GET("/materials", h.listMaterials)
	catalog.POST("/materials", h.createMaterial)
	catalog.PUT("/materials/:id", h.updateMaterial)
	catalog.DELETE("/materials/:id", h.deleteMaterial)
	catalog.GET("/shifts", h.listShiftTypes)
	catalog.POST("/shifts", h.createShiftType)
	catalog.PUT("/shifts/:id", h.updateShiftType)
	catalog.DELETE("/shifts/:id", h.deleteShiftType)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":   result.Principal.UserID,
			"name": result.Principal.Name,
			"role": result.Principal.Role,
		},
	})
}

func (h *Handler) loginDriver(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.LoginDriver(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":   result.Principal.UserID,
			"name": result.Principal.Name,
			"role": result.Principal.Role,
		},
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	if principal.IsDriver() {
		driver, err := h.refs.DriverProfile(c.Request.Context(), principal)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":            driver.ID,
			"name":          driver.Name,
			"role":          principal.Role,
			"assignedPlate": driver.AssignedPlate,
			"carrier":       driver.Carrier,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   principal.UserID,
		"name": principal.Name,
		"role": principal.Role,
	})
}

func (h *Handler) referenceData(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	data, err := h.refs.Fetch(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

type reportLinePayload struct {
	Client         string  `json:"client" binding:"required"`
	LoadingPlace   string  `json:"loadingPlace" binding:"required"`
	UnloadingPlace string  `json:"unloadingPlace" binding:"required"`
	WaitTime       string  `json:"waitTime" binding:"required"`
	WorkTime       string  `json:"workTime" binding:"required"`
	Tonnage        float64 `json:"tonnage"`
	Material       string  `json:"material" binding:"required"`
	Shift          string  `json:"shift" binding:"required"`
}

type reportPayload struct {
	Date         string              `json:"date" binding:"required"`
	VehiclePlate string              `json:"vehiclePlate" binding:"required"`
	Kilometers   float64             `json:"kilometers"`
	DriverName   string              `json:"driverName" binding:"required"`
	CarrierName  string              `json:"carrierName" binding:"required"`
	Status       string              `json:"status"`
	Lines        []reportLinePayload `json:"lines" binding:"required"`
}

type reportResponse struct {
	ID           uuid.UUID           `json:"id"`
	Date         string              `json:"date"`
	VehiclePlate string              `json:"vehiclePlate"`
	Kilometers   float64             `json:"kilometers"`
	DriverName   string              `json:"driverName"`
	CarrierName  string              `json:"carrierName"`
	Status       model.ReportStatus  `json:"status"`
	Lines        []reportLinePayload `json:"lines"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func toReportResponse(report model.WorkReport) reportResponse {
	lines := make([]reportLinePayload, 0, len(report.Lines))
	for _, line := range report.Lines {
		lines = append(lines, reportLinePayload{
			Client:         line.Client,
			LoadingPlace:   line.LoadingPlace,
			UnloadingPlace: line.UnloadingPlace,
			WaitTime:       line.WaitTime,
			WorkTime:       line.WorkTime,
			Tonnage:        line.Tonnage,
			Material:       line.Material,
			Shift:          string(line.Shift),
		})
	}
	return reportResponse{
		ID:           report.ID,
		Date:         report.Date.Format("2006-01-02"),
		VehiclePlate: report.VehiclePlate,
		Kilometers:   report.Kilometers,
		DriverName:   report.DriverName,
		CarrierName:  report.CarrierName,
		Status:       report.Status,
		Lines:        lines,
		CreatedAt:    report.CreatedAt,
		UpdatedAt:    report.UpdatedAt,
	}
}

func (h *Handler) listReports(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	reports, err := h.reports.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		out = append(out, toReportResponse(report))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	report, err := h.reports.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponse(*report))
}

func (h *Handler) createReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req reportPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := toWorkReport(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.reports.Create(c.Request.Context(), principal, report)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReportResponse(*saved))
}

func (h *Handler) updateReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req reportPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := toWorkReport(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.reports.Update(c.Request.Context(), principal, id, report)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponse(*saved))
}

func (h *Handler) deleteReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.reports.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type exportRequest struct {
	PeriodStart string `json:"periodStart" binding:"required"`
	PeriodEnd   string `json:"periodEnd" binding:"required"`
}

func (h *Handler) exportReports(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodStart"})
		return
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodEnd"})
		return
	}

	result, err := h.reports.ExportExcel(c.Request.Context(), principal, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxType, result.Content)
}

func (h *Handler) exportReportPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.reports.ExportPDF(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validation *model.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "messages": validation.Messages})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": errorDetail(err)})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": errorDetail(err)})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// errorDetail strips the sentinel prefix so the client sees only the
// human-readable part.
func errorDetail(err error) string {
	msg := err.Error()
	if _, detail, found := strings.Cut(msg, ": "); found {
		return detail
	}
	return msg
}

func toWorkReport(req reportPayload) (model.WorkReport, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return model.WorkReport{}, errors.New("invalid date")
	}

	lines := make([]model.ReportLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		shift, ok := model.ParseShift(line.Shift)
		if !ok {
			return model.WorkReport{}, errors.New("invalid shift: " + line.Shift)
		}
		lines = append(lines, model.ReportLine{
			Client:         line.Client,
			LoadingPlace:   line.LoadingPlace,
			UnloadingPlace: line.UnloadingPlace,
			WaitTime:       line.WaitTime,
			WorkTime:       line.WorkTime,
			Tonnage:        line.Tonnage,
			Material:       line.Material,
			Shift:          shift,
		})
	}

	status := model.ReportStatus(req.Status)
	if req.Status != "" && status != model.ReportStatusPending && status != model.ReportStatusCompleted {
		return model.WorkReport{}, errors.New("invalid status: " + req.Status)
	}

	return model.WorkReport{
		Date:         date,
		VehiclePlate: req.VehiclePlate,
		Kilometers:   req.Kilometers,
		DriverName:   req.DriverName,
		CarrierName:  req.CarrierName,
		Status:       status,
		Lines:        lines,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

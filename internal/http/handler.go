package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inymo/project-performance/internal/http/middleware"
	"github.com/inymo/project-performance/internal/model"
	"github.com/inymo/project-performance/internal/service"
)

type Handler struct {
	perf    *service.PerformanceService
	ledger  *service.LedgerService
	reports *service.ReportService
	log     zerolog.Logger
}

func NewHandler(
	perf *service.PerformanceService,
	ledger *service.LedgerService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{perf: perf, ledger: ledger, reports: reports, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	projects := router.Group("/projects/:id")
	projects.Use(authMiddleware)

	projects.POST("/sync", h.synchronize)
	projects.GET("/performance", h.performance)
	projects.GET("/performance/trend", h.trend)
	projects.GET("/report.pdf", h.reportPDF)
	projects.GET("/report.xlsx", h.reportExcel)

	projects.PUT("", h.updateProject)
	projects.DELETE("", h.archiveProject)
	projects.POST("/expenses", h.logExpense)
	projects.POST("/costs", h.accrueManualCost)
	projects.POST("/log", h.addLogEntry)
	projects.DELETE("/log/:entryID", h.removeLogEntry)

	projects.GET("/changes", h.listChanges)
	projects.POST("/changes", h.createChange)
	projects.POST("/changes/:changeID/approve", h.approveChange)
	projects.POST("/changes/:changeID/reject", h.rejectChange)
	projects.DELETE("/changes/:changeID", h.removeChange)

	projects.POST("/deliverables", h.addDeliverable)
	projects.PATCH("/deliverables/:deliverableID/progress", h.setDeliverableProgress)
	projects.DELETE("/deliverables/:deliverableID", h.removeDeliverable)
}

func (h *Handler) synchronize(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	if err := h.perf.Synchronize(c.Request.Context(), projectID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) performance(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	window, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	dashboard, err := h.perf.Dashboard(c.Request.Context(), projectID, window)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) trend(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	window, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	trend, err := h.perf.Trend(c.Request.Context(), projectID, window)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

type logExpenseRequest struct {
	Concept string  `json:"concept" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	Date    string  `json:"date"`
}

func (h *Handler) logExpense(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}

	var req logExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at := time.Time{}
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		at = parsed
	}

	entry, err := h.ledger.LogExpense(c.Request.Context(), service.LogExpenseInput{
		ProjectID: projectID,
		Concept:   req.Concept,
		Amount:    req.Amount,
		At:        at,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type accrueCostRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

func (h *Handler) accrueManualCost(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}

	var req accrueCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ledger.AccrueManualCost(c.Request.Context(), principal, projectID, req.Amount); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addLogEntryRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EntryType   string `json:"entry_type" binding:"required"`
}

func (h *Handler) addLogEntry(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}

	var req addLogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.ledger.AddLogEntry(c.Request.Context(), service.AddLogEntryInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		EntryType:   model.LogEntryType(strings.ToUpper(strings.TrimSpace(req.EntryType))),
		Principal:   principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) removeLogEntry(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}
	entryID, ok := h.uuidParam(c, "entryID")
	if !ok {
		return
	}

	if err := h.ledger.RemoveLogEntry(c.Request.Context(), principal, projectID, entryID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listChanges(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	changes, err := h.ledger.ListChanges(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}

type createChangeRequest struct {
	Title              string  `json:"title" binding:"required"`
	Description        string  `json:"description"`
	CostImpact         float64 `json:"cost_impact"`
	ScheduleImpactDays int     `json:"schedule_impact_days"`
}

func (h *Handler) createChange(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}

	var req createChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	change, err := h.ledger.CreateChangeRequest(c.Request.Context(), service.CreateChangeInput{
		ProjectID:          projectID,
		Title:              req.Title,
		Description:        req.Description,
		CostImpact:         req.CostImpact,
		ScheduleImpactDays: req.ScheduleImpactDays,
		Principal:          principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, change)
}

func (h *Handler) approveChange(c *gin.Context) {
	h.transitionChange(c, h.ledger.ApproveChange)
}

func (h *Handler) rejectChange(c *gin.Context) {
	h.transitionChange(c, h.ledger.RejectChange)
}

func (h *Handler) transitionChange(
	c *gin.Context,
	transition func(context.Context, model.Principal, uuid.UUID, uuid.UUID) error,
) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}
	changeID, ok := h.uuidParam(c, "changeID")
	if !ok {
		return
	}

	if err := transition(c.Request.Context(), principal, projectID, changeID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeChange(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}
	changeID, ok := h.uuidParam(c, "changeID")
	if !ok {
		return
	}

	if err := h.ledger.RemoveChange(c.Request.Context(), principal, projectID, changeID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addDeliverableRequest struct {
	Name  string `json:"name" binding:"required"`
	Owner string `json:"owner"`
	DueAt string `json:"due_at"`
}

func (h *Handler) addDeliverable(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}

	var req addDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dueAt *time.Time
	if req.DueAt != "" {
		parsed, err := parseDate(req.DueAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_at"})
			return
		}
		dueAt = &parsed
	}

	deliverable, err := h.ledger.AddDeliverable(c.Request.Context(), service.AddDeliverableInput{
		ProjectID: projectID,
		Name:      req.Name,
		Owner:     req.Owner,
		DueAt:     dueAt,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deliverable)
}

type deliverableProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

func (h *Handler) setDeliverableProgress(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}
	deliverableID, ok := h.uuidParam(c, "deliverableID")
	if !ok {
		return
	}

	var req deliverableProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.ledger.SetDeliverableProgress(c.Request.Context(), principal, projectID, deliverableID, *req.Progress)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeDeliverable(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}
	deliverableID, ok := h.uuidParam(c, "deliverableID")
	if !ok {
		return
	}

	if err := h.ledger.RemoveDeliverable(c.Request.Context(), principal, projectID, deliverableID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateProjectRequest struct {
	Name          string  `json:"name" binding:"required"`
	Client        string  `json:"client"`
	Lead          string  `json:"lead"`
	Phase         string  `json:"phase"`
	Health        string  `json:"health"`
	StartAt       string  `json:"start_at" binding:"required"`
	EndAt         string  `json:"end_at" binding:"required"`
	Budget        float64 `json:"budget"`
	BusinessValue float64 `json:"business_value"`
	Progress      *int    `json:"progress"`
}

func (h *Handler) updateProject(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startAt, err := parseDate(req.StartAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_at"})
		return
	}
	endAt, err := parseDate(req.EndAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_at"})
		return
	}

	err = h.ledger.UpdateProject(c.Request.Context(), service.UpdateProjectInput{
		ProjectID: projectID,
		Edit: model.ProjectEdit{
			Name:          req.Name,
			Client:        req.Client,
			Lead:          req.Lead,
			Phase:         req.Phase,
			Health:        req.Health,
			StartAt:       startAt,
			EndAt:         endAt,
			Budget:        req.Budget,
			BusinessValue: req.BusinessValue,
			ProgressPct:   req.Progress,
		},
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) archiveProject(c *gin.Context) {
	principal, projectID, ok := h.principalAndProject(c)
	if !ok {
		return
	}
	if err := h.ledger.ArchiveProject(c.Request.Context(), principal, projectID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) reportPDF(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	result, err := h.reports.PDF(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) reportExcel(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	result, err := h.reports.Excel(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) projectID(c *gin.Context) (uuid.UUID, bool) {
	return h.uuidParam(c, "id")
}

func (h *Handler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	value, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return value, true
}

func (h *Handler) principalAndProject(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, uuid.Nil, false
	}
	projectID, ok := h.projectID(c)
	if !ok {
		return model.Principal{}, uuid.Nil, false
	}
	return principal, projectID, true
}

func parseWindow(c *gin.Context) (service.DateWindow, error) {
	var window service.DateWindow
	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return window, err
		}
		window.Start = &parsed
	}
	if raw := strings.TrimSpace(c.Query("end")); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			return window, err
		}
		window.End = &parsed
	}
	return window, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
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
	return time.Time{}, service.ErrInvalidInput
}

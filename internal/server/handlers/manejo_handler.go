package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/models"
	"github.com/mamadbah2/ovinet/internal/service/manejo"
)

// ManejoHandler exposes the task board and calendar over HTTP.
type ManejoHandler struct {
	svc    *manejo.Service
	logger *zap.Logger
}

// NewManejoHandler constructs the HTTP handler adapter.
func NewManejoHandler(svc *manejo.Service, logger *zap.Logger) *ManejoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManejoHandler{svc: svc, logger: logger}
}

type manejoRequest struct {
	Title            string                  `json:"title" binding:"required"`
	Kind             models.ManejoKind       `json:"kind" binding:"required"`
	Recurrence       models.Recurrence       `json:"recurrence"`
	RecurrenceConfig models.RecurrenceConfig `json:"recurrence_config"`
	PlannedDate      string                  `json:"planned_date" binding:"required"`
	PlannedTime      string                  `json:"planned_time"`
	Procedure        string                  `json:"procedure"`
	Notes            string                  `json:"notes"`
	SheepIDs         []string                `json:"sheep_ids"`
	GroupID          string                  `json:"group_id"`
	AutoAdjust       bool                    `json:"auto_adjust"`
}

func (r manejoRequest) toInput() manejo.CreateInput {
	return manejo.CreateInput{
		Title:            r.Title,
		Kind:             r.Kind,
		Recurrence:       r.Recurrence,
		RecurrenceConfig: r.RecurrenceConfig,
		PlannedDate:      r.PlannedDate,
		PlannedTime:      r.PlannedTime,
		Procedure:        r.Procedure,
		Notes:            r.Notes,
		SheepIDs:         r.SheepIDs,
		GroupID:          r.GroupID,
		AutoAdjust:       r.AutoAdjust,
	}
}

// List returns every task.
func (h *ManejoHandler) List(c *gin.Context) {
	tasks, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get returns one task.
func (h *ManejoHandler) Get(c *gin.Context) {
	task, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create registers a new task.
func (h *ManejoHandler) Create(c *gin.Context) {
	var req manejoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update applies manager edits to a pending task.
func (h *ManejoHandler) Update(c *gin.Context) {
	var req manejoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type completeRequest struct {
	Worker        string `json:"worker"`
	Notes         string `json:"notes"`
	ExecutionDate string `json:"execution_date"`
}

// Complete marks a task done and returns the follow-up instance when the
// recurrence produced one.
func (h *ManejoHandler) Complete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	done, next, err := h.svc.Complete(c.Request.Context(), c.Param("id"), req.Worker, req.Notes, req.ExecutionDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manejo": done, "next": next})
}

// Cancel marks a pending task cancelled.
func (h *ManejoHandler) Cancel(c *gin.Context) {
	task, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete removes a task permanently.
func (h *ManejoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type validateDateRequest struct {
	Recurrence       models.Recurrence       `json:"recurrence" binding:"required"`
	RecurrenceConfig models.RecurrenceConfig `json:"recurrence_config"`
	Date             string                  `json:"date" binding:"required"`
}

// ValidateDate checks a candidate date against a recurrence rule and suggests
// a replacement on mismatch.
func (h *ManejoHandler) ValidateDate(c *gin.Context) {
	var req validateDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ok, reason, suggested := h.svc.ValidateDate(req.Recurrence, req.RecurrenceConfig, req.Date)
	c.JSON(http.StatusOK, gin.H{"valid": ok, "reason": reason, "suggested_date": suggested})
}

// CalendarYear projects every task over a calendar year.
func (h *ManejoHandler) CalendarYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	occurrences, err := h.svc.CalendarYear(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, occurrences)
}

// Agenda projects every task over an inclusive date window.
func (h *ManejoHandler) Agenda(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}

	occurrences, err := h.svc.Agenda(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, occurrences)
}

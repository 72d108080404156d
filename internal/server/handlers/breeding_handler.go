package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/domain/models"
	"github.com/mamadbah2/ovinet/internal/service/breeding"
)

// BreedingHandler exposes the breeding-plan protocol over HTTP.
type BreedingHandler struct {
	svc    *breeding.Service
	logger *zap.Logger
}

// NewBreedingHandler constructs the HTTP handler adapter.
func NewBreedingHandler(svc *breeding.Service, logger *zap.Logger) *BreedingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreedingHandler{svc: svc, logger: logger}
}

// ListPlans returns every breeding plan.
func (h *BreedingHandler) ListPlans(c *gin.Context) {
	plans, err := h.svc.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan returns a single plan.
func (h *BreedingHandler) GetPlan(c *gin.Context) {
	plan, err := h.svc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type createPlanRequest struct {
	Name      string   `json:"name" binding:"required"`
	StartDate string   `json:"start_date" binding:"required"`
	SyncDate  string   `json:"sync_date"`
	EweIDs    []string `json:"ewe_ids"`
}

// CreatePlan registers a new breeding plan with an optional initial batch.
func (h *BreedingHandler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.CreatePlan(c.Request.Context(), req.Name, req.StartDate, req.SyncDate, req.EweIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

type updateStatusRequest struct {
	Status models.PlanStatus `json:"status" binding:"required"`
}

// UpdatePlanStatus advances a plan through its phases.
func (h *BreedingHandler) UpdatePlanStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.UpdatePlanStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes an empty plan.
func (h *BreedingHandler) DeletePlan(c *gin.Context) {
	if err := h.svc.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addEweRequest struct {
	EweID string `json:"ewe_id" binding:"required"`
}

// AddEwe enrolls an eligible ewe into the plan.
func (h *BreedingHandler) AddEwe(c *gin.Context) {
	var req addEweRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.AddEwe(c.Request.Context(), c.Param("id"), req.EweID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// RemoveEwe takes an animal out of the plan, reverting its side effects.
func (h *BreedingHandler) RemoveEwe(c *gin.Context) {
	plan, err := h.svc.RemoveEwe(c.Request.Context(), c.Param("id"), c.Param("eweId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type moveEweRequest struct {
	TargetPlanID string `json:"target_plan_id" binding:"required"`
}

// MoveEwe transfers an animal between plans with a fresh cycle record.
func (h *BreedingHandler) MoveEwe(c *gin.Context) {
	var req moveEweRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.MoveEwe(c.Request.Context(), c.Param("id"), req.TargetPlanID, c.Param("eweId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type confirmHeatRequest struct {
	Detected *bool `json:"detected" binding:"required"`
}

// ConfirmHeat records the heat-detection observation for an ewe.
func (h *BreedingHandler) ConfirmHeat(c *gin.Context) {
	var req confirmHeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.ConfirmHeat(c.Request.Context(), c.Param("id"), c.Param("eweId"), *req.Detected)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type assignRamRequest struct {
	SireID string `json:"sire_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

// AssignRam pairs a ram with an ewe whose heat was confirmed.
func (h *BreedingHandler) AssignRam(c *gin.Context) {
	var req assignRamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.AssignRam(c.Request.Context(), c.Param("id"), c.Param("eweId"), req.SireID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type cycleResultRequest struct {
	Cycle  int                `json:"cycle" binding:"required"`
	Result models.CycleResult `json:"result" binding:"required"`
}

// RecordCycleResult lands a pregnancy-check outcome for one cycle.
func (h *BreedingHandler) RecordCycleResult(c *gin.Context) {
	var req cycleResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.svc.RecordCycleResult(c.Request.Context(), c.Param("id"), c.Param("eweId"), req.Cycle, req.Result)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DiscardEwe culls an animal that exhausted its attempts.
func (h *BreedingHandler) DiscardEwe(c *gin.Context) {
	if err := h.svc.DiscardEwe(c.Request.Context(), c.Param("id"), c.Param("eweId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AvailableEwes returns the pool of animals eligible for enrollment.
func (h *BreedingHandler) AvailableEwes(c *gin.Context) {
	ewes, err := h.svc.AvailableEwes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ewes)
}

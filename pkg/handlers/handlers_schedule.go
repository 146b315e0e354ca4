package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staffrota/roster-api-go/pkg/engine"
	"github.com/staffrota/roster-api-go/pkg/models"
)

const dateLayout = "2006-01-02"

type generateRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r *generateRequest) parse() (time.Time, time.Time, string) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, "start_date must be YYYY-MM-DD"
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, "end_date must be YYYY-MM-DD"
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, "end_date is before start_date"
	}
	return start, end, ""
}

// GenerateSchedule runs a full generation for the requested date range and
// returns the draft schedule with its shifts. Concurrent generations over
// overlapping ranges are not serialized here and will produce duplicate
// shift rows; callers own that serialization.
func (h *Handler) GenerateSchedule(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, msg := req.parse()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	requestedBy := c.GetString("clientID")
	result, err := h.Engine.GenerateSchedule(start, end, requestedBy)
	if err != nil {
		var loadErr *engine.DataLoadError
		if errors.As(err, &loadErr) {
			h.Log.Error("reference data unavailable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.Log.Error("schedule generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	employeeCount := 0
	seen := map[string]bool{}
	for _, sh := range result.Shifts {
		if sh.EmployeeID != nil && !seen[*sh.EmployeeID] {
			seen[*sh.EmployeeID] = true
			employeeCount++
		}
	}
	h.RecordUsage(c, len(result.Shifts), employeeCount)

	c.JSON(http.StatusCreated, result)
}

// ValidateGenerateRequest sanity-checks a generation request without running
// it: date parsing, range length, and whether any position requires coverage
// in the range.
func (h *Handler) ValidateGenerateRequest(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	start, end, msg := req.parse()
	if msg != "" {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": msg})
		return
	}

	if end.Sub(start) > 92*24*time.Hour {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "date range exceeds 92 days"})
		return
	}

	var positions []models.Position
	if err := h.DB.Find(&positions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load positions"})
		return
	}

	covered := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, p := range positions {
			if p.WeeklyPattern.On(day.Weekday()) {
				covered++
			}
		}
	}
	if covered == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "no position requires coverage in this range"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"position_count":    len(positions),
			"covered_day_slots": covered,
		},
	})
}

// ListSchedules returns all schedules, newest first
func (h *Handler) ListSchedules(c *gin.Context) {
	var schedules []models.Schedule
	if err := h.DB.Order("created_at desc").Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch schedules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GetSchedule returns one schedule with its shifts
func (h *Handler) GetSchedule(c *gin.Context) {
	var schedule models.Schedule
	if err := h.DB.Preload("Shifts").First(&schedule, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// PublishSchedule performs the one-way draft -> published transition.
func (h *Handler) PublishSchedule(c *gin.Context) {
	var schedule models.Schedule
	if err := h.DB.First(&schedule, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	if schedule.Status == models.ScheduleStatusPublished {
		c.JSON(http.StatusConflict, gin.H{"error": "Schedule already published"})
		return
	}
	if err := h.DB.Model(&schedule).Update("status", models.ScheduleStatusPublished).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not publish schedule"})
		return
	}
	schedule.Status = models.ScheduleStatusPublished
	c.JSON(http.StatusOK, schedule)
}

// ListViolations returns violations, optionally filtered by employee and
// resolution status
func (h *Handler) ListViolations(c *gin.Context) {
	q := h.DB.Order("violation_date desc, created_at desc")
	if employeeID := c.Query("employee_id"); employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("resolution_status = ?", status)
	}

	var violations []models.Violation
	if err := q.Find(&violations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch violations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"violations": violations})
}

// ResolveViolation moves a violation out of the open state. The audit only
// ever creates open violations; this transition lives at the API boundary.
func (h *Handler) ResolveViolation(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.ResolutionResolved && req.Status != models.ResolutionDismissed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be resolved or dismissed"})
		return
	}

	var violation models.Violation
	if err := h.DB.First(&violation, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Violation not found"})
		return
	}

	if err := h.DB.Model(&violation).Update("resolution_status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update violation"})
		return
	}
	violation.ResolutionStatus = req.Status
	c.JSON(http.StatusOK, violation)
}

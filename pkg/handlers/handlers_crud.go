package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffrota/roster-api-go/pkg/engine"
	"github.com/staffrota/roster-api-go/pkg/models"
)

// ListEmployees returns all employees
func (h *Handler) ListEmployees(c *gin.Context) {
	var employees []models.Employee
	q := h.DB.Order("last_name, first_name")
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch employees"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// GetEmployee returns one employee
func (h *Handler) GetEmployee(c *gin.Context) {
	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

type employeeRequest struct {
	FirstName       string  `json:"first_name" binding:"required"`
	LastName        string  `json:"last_name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	YearlyHourQuota float64 `json:"yearly_hour_quota"`
	UsedHours       float64 `json:"used_hours"`
}

// CreateEmployee creates an employee. The yearly quota must be positive and
// already-consumed hours non-negative.
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.YearlyHourQuota == 0 {
		req.YearlyHourQuota = 1760
	}
	if req.YearlyHourQuota < 0 || req.UsedHours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quota must be positive and used hours non-negative"})
		return
	}

	employee := models.Employee{
		ID:              uuid.NewString(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		IsActive:        true,
		YearlyHourQuota: req.YearlyHourQuota,
		UsedHours:       req.UsedHours,
	}
	if err := h.DB.Create(&employee).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Could not create employee"})
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee updates mutable employee fields
func (h *Handler) UpdateEmployee(c *gin.Context) {
	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var req struct {
		FirstName       *string  `json:"first_name"`
		LastName        *string  `json:"last_name"`
		Email           *string  `json:"email"`
		IsActive        *bool    `json:"is_active"`
		YearlyHourQuota *float64 `json:"yearly_hour_quota"`
		UsedHours       *float64 `json:"used_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.YearlyHourQuota != nil {
		if *req.YearlyHourQuota <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quota must be positive"})
			return
		}
		updates["yearly_hour_quota"] = *req.YearlyHourQuota
	}
	if req.UsedHours != nil {
		if *req.UsedHours < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "used hours must be non-negative"})
			return
		}
		updates["used_hours"] = *req.UsedHours
	}

	if err := h.DB.Model(&employee).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update employee"})
		return
	}
	h.DB.First(&employee, "id = ?", employee.ID)
	c.JSON(http.StatusOK, employee)
}

// DeactivateEmployee soft-disables an employee instead of deleting history
func (h *Handler) DeactivateEmployee(c *gin.Context) {
	res := h.DB.Model(&models.Employee{}).Where("id = ?", c.Param("id")).Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate employee"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deactivated"})
}

// SetEmployeePositions replaces the employee's eligibility relations
func (h *Handler) SetEmployeePositions(c *gin.Context) {
	employeeID := c.Param("id")
	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var req struct {
		PositionIDs []string `json:"position_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Where("employee_id = ?", employeeID).Delete(&models.EmployeePosition{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update eligibility"})
		return
	}
	for _, positionID := range req.PositionIDs {
		rel := models.EmployeePosition{EmployeeID: employeeID, PositionID: positionID}
		if err := h.DB.Create(&rel).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown position " + positionID})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"employee_id": employeeID, "position_ids": req.PositionIDs})
}

// ListAvailability returns an employee's availability windows
func (h *Handler) ListAvailability(c *gin.Context) {
	var windows []models.AvailabilityWindow
	if err := h.DB.Where("employee_id = ?", c.Param("id")).
		Order("start_datetime").Find(&windows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": windows})
}

// CreateAvailability records an unavailable or preferred window for an employee
func (h *Handler) CreateAvailability(c *gin.Context) {
	employeeID := c.Param("id")
	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var req struct {
		StartDatetime    time.Time `json:"start_datetime" binding:"required"`
		EndDatetime      time.Time `json:"end_datetime" binding:"required"`
		AvailabilityType string    `json:"availability_type" binding:"required"`
		Reason           string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AvailabilityType != models.AvailabilityUnavailable &&
		req.AvailabilityType != models.AvailabilityPreferred {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability_type must be unavailable or preferred"})
		return
	}
	if !req.EndDatetime.After(req.StartDatetime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_datetime must be after start_datetime"})
		return
	}

	window := models.AvailabilityWindow{
		ID:               uuid.NewString(),
		EmployeeID:       employeeID,
		StartDatetime:    req.StartDatetime,
		EndDatetime:      req.EndDatetime,
		AvailabilityType: req.AvailabilityType,
		Reason:           req.Reason,
	}
	if err := h.DB.Create(&window).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create availability window"})
		return
	}
	c.JSON(http.StatusCreated, window)
}

// ListPositions returns all positions
func (h *Handler) ListPositions(c *gin.Context) {
	var positions []models.Position
	if err := h.DB.Order("created_at, id").Find(&positions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch positions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

// GetPosition returns one position
func (h *Handler) GetPosition(c *gin.Context) {
	var position models.Position
	if err := h.DB.First(&position, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Position not found"})
		return
	}
	c.JSON(http.StatusOK, position)
}

type positionRequest struct {
	Name             string               `json:"name" binding:"required"`
	Department       string               `json:"department"`
	Is24x7           bool                 `json:"is_24x7"`
	WeeklyPattern    models.WeeklyPattern `json:"weekly_pattern"`
	DailyHours       float64              `json:"daily_hours"`
	MinStaffPerShift int                  `json:"min_staff_per_shift"`
	RequiredSkills   []string             `json:"required_skills"`
}

// CreatePosition creates a position
func (h *Handler) CreatePosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DailyHours == 0 {
		req.DailyHours = 8
	}
	if req.MinStaffPerShift == 0 {
		req.MinStaffPerShift = 1
	}

	position := models.Position{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Department:       req.Department,
		Is24x7:           req.Is24x7,
		WeeklyPattern:    req.WeeklyPattern,
		DailyHours:       req.DailyHours,
		MinStaffPerShift: req.MinStaffPerShift,
		RequiredSkills:   req.RequiredSkills,
	}
	if err := h.DB.Create(&position).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create position"})
		return
	}
	c.JSON(http.StatusCreated, position)
}

// UpdatePosition replaces a position's definition
func (h *Handler) UpdatePosition(c *gin.Context) {
	var position models.Position
	if err := h.DB.First(&position, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Position not found"})
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	position.Name = req.Name
	position.Department = req.Department
	position.Is24x7 = req.Is24x7
	position.WeeklyPattern = req.WeeklyPattern
	if req.DailyHours > 0 {
		position.DailyHours = req.DailyHours
	}
	if req.MinStaffPerShift > 0 {
		position.MinStaffPerShift = req.MinStaffPerShift
	}
	position.RequiredSkills = req.RequiredSkills

	if err := h.DB.Save(&position).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update position"})
		return
	}
	c.JSON(http.StatusOK, position)
}

// DeletePosition removes a position and its templates
func (h *Handler) DeletePosition(c *gin.Context) {
	id := c.Param("id")
	h.DB.Where("position_id = ?", id).Delete(&models.ShiftTemplate{})
	h.DB.Where("position_id = ?", id).Delete(&models.EmployeePosition{})
	res := h.DB.Delete(&models.Position{}, "id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete position"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Position not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position deleted"})
}

// ListTemplates returns a position's shift templates
func (h *Handler) ListTemplates(c *gin.Context) {
	var templates []models.ShiftTemplate
	if err := h.DB.Where("position_id = ?", c.Param("id")).
		Order("day_of_week, start_time").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateTemplate adds a recurring shift window to a position
func (h *Handler) CreateTemplate(c *gin.Context) {
	positionID := c.Param("id")
	var position models.Position
	if err := h.DB.First(&position, "id = ?", positionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Position not found"})
		return
	}

	var req struct {
		DayOfWeek int    `json:"day_of_week"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
		MinStaff  int    `json:"min_staff"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day_of_week must be 0-6 (Sunday = 0)"})
		return
	}
	if err := engine.ValidateClockTime(req.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be HH:MM"})
		return
	}
	if err := engine.ValidateClockTime(req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be HH:MM"})
		return
	}
	if req.MinStaff == 0 {
		req.MinStaff = 1
	}

	template := models.ShiftTemplate{
		ID:         uuid.NewString(),
		PositionID: positionID,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		MinStaff:   req.MinStaff,
		IsActive:   true,
	}
	if err := h.DB.Create(&template).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create template"})
		return
	}
	c.JSON(http.StatusCreated, template)
}

// DeleteTemplate removes a shift template
func (h *Handler) DeleteTemplate(c *gin.Context) {
	res := h.DB.Delete(&models.ShiftTemplate{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete template"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

// ListConstraints returns stored scheduling constraints by descending priority
func (h *Handler) ListConstraints(c *gin.Context) {
	var constraints []models.SchedulingConstraint
	if err := h.DB.Order("priority desc").Find(&constraints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch constraints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"constraints": constraints})
}

// CreateConstraint stores a scheduling constraint for future solver strategies
func (h *Handler) CreateConstraint(c *gin.Context) {
	var req struct {
		Name           string         `json:"name" binding:"required"`
		ConstraintType string         `json:"constraint_type" binding:"required"`
		Definition     map[string]any `json:"definition"`
		Priority       int            `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	constraint := models.SchedulingConstraint{
		ID:             uuid.NewString(),
		Name:           req.Name,
		ConstraintType: req.ConstraintType,
		Definition:     req.Definition,
		Priority:       req.Priority,
		IsActive:       true,
	}
	if err := h.DB.Create(&constraint).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create constraint"})
		return
	}
	c.JSON(http.StatusCreated, constraint)
}

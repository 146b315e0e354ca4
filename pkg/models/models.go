package models

import "time"

// Schedule lifecycle statuses. Publishing is a one-way transition performed
// through the HTTP layer; there is no path back to draft.
const (
	ScheduleStatusDraft     = "draft"
	ScheduleStatusPublished = "published"
)

// Shift statuses.
const (
	ShiftStatusScheduled = "scheduled"
	ShiftStatusCompleted = "completed"
	ShiftStatusCancelled = "cancelled"
)

// Availability window types.
const (
	AvailabilityUnavailable = "unavailable"
	AvailabilityPreferred   = "preferred"
)

// Violation types emitted by the compliance audit.
const (
	ViolationDailyHoursExceeded  = "daily_hours_exceeded"
	ViolationInsufficientRest    = "insufficient_rest"
	ViolationYearlyQuotaExceeded = "yearly_quota_exceeded"
)

// Violation severities.
const (
	SeverityWarning  = "warning"
	SeverityMinor    = "minor"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

// Violation resolution statuses.
const (
	ResolutionOpen      = "open"
	ResolutionResolved  = "resolved"
	ResolutionDismissed = "dismissed"
)

// Employee represents a worker who can be assigned to shifts
type Employee struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName       string    `gorm:"not null" json:"first_name"`
	LastName        string    `gorm:"not null" json:"last_name"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	YearlyHourQuota float64   `gorm:"default:1760" json:"yearly_hour_quota"`
	UsedHours       float64   `gorm:"default:0" json:"used_hours"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WeeklyPattern marks which weekdays a position must be staffed
type WeeklyPattern struct {
	Sun bool `json:"sun"`
	Mon bool `json:"mon"`
	Tue bool `json:"tue"`
	Wed bool `json:"wed"`
	Thu bool `json:"thu"`
	Fri bool `json:"fri"`
	Sat bool `json:"sat"`
}

// On reports whether the pattern requires coverage on the given weekday.
func (p WeeklyPattern) On(day time.Weekday) bool {
	switch day {
	case time.Sunday:
		return p.Sun
	case time.Monday:
		return p.Mon
	case time.Tuesday:
		return p.Tue
	case time.Wednesday:
		return p.Wed
	case time.Thursday:
		return p.Thu
	case time.Friday:
		return p.Fri
	default:
		return p.Sat
	}
}

// Position represents a staffed role with a weekly coverage requirement
type Position struct {
	ID               string        `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string        `gorm:"not null" json:"name"`
	Department       string        `json:"department"`
	Is24x7           bool          `gorm:"default:false" json:"is_24x7"`
	WeeklyPattern    WeeklyPattern `gorm:"serializer:json" json:"weekly_pattern"`
	DailyHours       float64       `gorm:"default:8" json:"daily_hours"`
	MinStaffPerShift int           `gorm:"default:1" json:"min_staff_per_shift"`
	RequiredSkills   []string      `gorm:"serializer:json" json:"required_skills"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// ShiftTemplate declares a recurring time window for a position on one weekday.
// StartTime/EndTime are clock times ("HH:MM"); an end earlier than the start
// means the window crosses midnight.
type ShiftTemplate struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	PositionID string    `gorm:"type:uuid;not null;index" json:"position_id"`
	DayOfWeek  int       `gorm:"not null" json:"day_of_week"` // 0 = Sunday
	StartTime  string    `gorm:"not null" json:"start_time"`
	EndTime    string    `gorm:"not null" json:"end_time"`
	MinStaff   int       `gorm:"default:1" json:"min_staff"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// AvailabilityWindow is an employee-declared time range, either a hard
// unavailability or a soft preference
type AvailabilityWindow struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID       string    `gorm:"type:uuid;not null;index" json:"employee_id"`
	StartDatetime    time.Time `gorm:"not null" json:"start_datetime"`
	EndDatetime      time.Time `gorm:"not null" json:"end_datetime"`
	AvailabilityType string    `gorm:"not null" json:"availability_type"`
	Reason           string    `json:"reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// EmployeePosition is the eligibility relation between employees and positions
type EmployeePosition struct {
	EmployeeID string    `gorm:"type:uuid;primaryKey" json:"employee_id"`
	PositionID string    `gorm:"type:uuid;primaryKey" json:"position_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SchedulingConstraint is a stored scheduling rule. Constraints are loaded
// into every snapshot ordered by priority but are not yet consumed by the
// greedy assigner; they are the extension point for a constraint-aware solver.
type SchedulingConstraint struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	ConstraintType string         `gorm:"not null" json:"constraint_type"`
	Definition     map[string]any `gorm:"serializer:json" json:"definition"`
	Priority       int            `gorm:"default:0" json:"priority"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Schedule is a named container for the shifts generated over a date range
type Schedule struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`
	Status           string    `gorm:"default:draft" json:"status"`
	GenerationMethod string    `json:"generation_method"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Shifts []Shift `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"shifts,omitempty"`
}

// Shift is a single staffing slot. A window needing N staff is stored as N
// separate rows; EmployeeID stays nil for an unfilled slot.
type Shift struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ScheduleID string    `gorm:"type:uuid;not null;index" json:"schedule_id"`
	PositionID string    `gorm:"type:uuid;not null;index" json:"position_id"`
	EmployeeID *string   `gorm:"type:uuid;index" json:"employee_id"`
	ShiftDate  time.Time `gorm:"not null" json:"shift_date"`
	StartTime  time.Time `gorm:"not null" json:"start_time"`
	EndTime    time.Time `gorm:"not null" json:"end_time"`
	Status     string    `gorm:"default:scheduled" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DurationHours returns the length of the slot in hours.
func (s *Shift) DurationHours() float64 {
	return s.EndTime.Sub(s.StartTime).Hours()
}

// Violation records a breach of a scheduling rule found by the audit
type Violation struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID       string    `gorm:"type:uuid;not null;index" json:"employee_id"`
	ShiftID          *string   `gorm:"type:uuid" json:"shift_id"`
	ViolationType    string    `gorm:"not null" json:"violation_type"`
	ViolationDate    time.Time `gorm:"not null" json:"violation_date"`
	Severity         string    `gorm:"not null" json:"severity"`
	Description      string    `json:"description"`
	ResolutionStatus string    `gorm:"default:open" json:"resolution_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// GenerationResult is what a schedule-generation run returns to the caller.
// Violations are persisted as a side effect and queried separately.
type GenerationResult struct {
	Schedule *Schedule `json:"schedule"`
	Shifts   []*Shift  `json:"shifts"`
}

package engine

import (
	"time"

	"gorm.io/gorm"

	"github.com/staffrota/roster-api-go/pkg/models"
)

// Store is the narrow write surface the engine needs. All writes are
// row-by-row or batched, with no enclosing transaction; a failure therefore
// leaves earlier writes behind (see PersistenceError).
type Store interface {
	CreateSchedule(schedule *models.Schedule) error
	CreateShifts(shifts []*models.Shift) error
	SaveAssignment(shift *models.Shift) error
	CreateViolation(v *models.Violation) error
}

// GormLoader builds snapshots from the GORM-backed reference tables.
type GormLoader struct {
	DB *gorm.DB
}

// LoadSnapshot pulls every reference table once. Ordering clauses make the
// snapshot deterministic: positions by creation time (declaration order),
// templates by weekday and start time, constraints by descending priority.
func (l *GormLoader) LoadSnapshot(now time.Time) (*Snapshot, error) {
	snap := &Snapshot{Now: now}

	if err := l.DB.Where("is_active = ?", true).Order("priority desc").
		Find(&snap.Constraints).Error; err != nil {
		return nil, &DataLoadError{Err: err}
	}
	if err := l.DB.Where("is_active = ?", true).Order("id").
		Find(&snap.Employees).Error; err != nil {
		return nil, &DataLoadError{Err: err}
	}
	if err := l.DB.Order("created_at, id").Find(&snap.Positions).Error; err != nil {
		return nil, &DataLoadError{Err: err}
	}
	if err := l.DB.Where("is_active = ?", true).
		Order("position_id, day_of_week, start_time, id").
		Find(&snap.Templates).Error; err != nil {
		return nil, &DataLoadError{Err: err}
	}
	if err := l.DB.Find(&snap.Eligibility).Error; err != nil {
		return nil, &DataLoadError{Err: err}
	}
	if err := l.DB.Where("start_datetime >= ?", now).
		Find(&snap.Availability).Error; err != nil {
		return nil, &DataLoadError{Err: err}
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	return snap, nil
}

// GormStore persists schedules, shifts and violations through GORM.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) CreateSchedule(schedule *models.Schedule) error {
	if err := s.DB.Create(schedule).Error; err != nil {
		return &PersistenceError{Op: "create schedule", Err: err}
	}
	return nil
}

// CreateShifts inserts slots in batches. Batching is a throughput measure
// only; the slice order is preserved.
func (s *GormStore) CreateShifts(shifts []*models.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	if err := s.DB.CreateInBatches(shifts, 200).Error; err != nil {
		return &PersistenceError{Op: "create shifts", Err: err}
	}
	return nil
}

func (s *GormStore) SaveAssignment(shift *models.Shift) error {
	if err := s.DB.Model(&models.Shift{}).Where("id = ?", shift.ID).
		Updates(map[string]any{
			"employee_id": shift.EmployeeID,
			"status":      shift.Status,
		}).Error; err != nil {
		return &PersistenceError{Op: "save assignment", Err: err}
	}
	return nil
}

func (s *GormStore) CreateViolation(v *models.Violation) error {
	if err := s.DB.Create(v).Error; err != nil {
		return &PersistenceError{Op: "create violation", Err: err}
	}
	return nil
}

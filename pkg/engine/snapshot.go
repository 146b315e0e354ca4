package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/staffrota/roster-api-go/pkg/models"
)

// Snapshot is the point-in-time bundle of reference data one generation run
// reads. It is built once per run and never refreshed mid-run, so every stage
// (materializer, solver, auditor) observes the same data regardless of
// concurrent writes to the backing store. No stage mutates it.
type Snapshot struct {
	Now          time.Time
	Constraints  []models.SchedulingConstraint // ordered by descending priority
	Employees    []models.Employee             // active only
	Positions    []models.Position             // all, in declaration order
	Templates    []models.ShiftTemplate        // active only
	Eligibility  []models.EmployeePosition
	Availability []models.AvailabilityWindow // windows starting at or after Now
}

// Loader builds a snapshot. Implementations return a *DataLoadError when the
// backing store is unreachable; a run never proceeds on a partial snapshot.
type Loader interface {
	LoadSnapshot(now time.Time) (*Snapshot, error)
}

// Validate rejects malformed reference data. Loaders call it before handing a
// snapshot to the engine, so a bad stored template fails the run while it is
// still write-free.
func (s *Snapshot) Validate() error {
	for _, t := range s.Templates {
		if err := ValidateClockTime(t.StartTime); err != nil {
			return &DataLoadError{Err: fmt.Errorf("template %s: %w", t.ID, err)}
		}
		if err := ValidateClockTime(t.EndTime); err != nil {
			return &DataLoadError{Err: fmt.Errorf("template %s: %w", t.ID, err)}
		}
	}
	return nil
}

// EmployeeByID looks up an employee in the snapshot.
func (s *Snapshot) EmployeeByID(id string) *models.Employee {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return &s.Employees[i]
		}
	}
	return nil
}

// EligibleEmployees returns the active employees holding an eligibility
// relation for the position, sorted by employee ID so candidate evaluation
// order is deterministic.
func (s *Snapshot) EligibleEmployees(positionID string) []*models.Employee {
	var out []*models.Employee
	for _, ep := range s.Eligibility {
		if ep.PositionID != positionID {
			continue
		}
		if emp := s.EmployeeByID(ep.EmployeeID); emp != nil && emp.IsActive {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TemplatesFor returns the position's templates for one weekday, in snapshot
// order.
func (s *Snapshot) TemplatesFor(positionID string, day time.Weekday) []models.ShiftTemplate {
	var out []models.ShiftTemplate
	for _, t := range s.Templates {
		if t.PositionID == positionID && t.DayOfWeek == int(day) {
			out = append(out, t)
		}
	}
	return out
}

// WindowsFor returns the employee's availability windows.
func (s *Snapshot) WindowsFor(employeeID string) []models.AvailabilityWindow {
	var out []models.AvailabilityWindow
	for _, w := range s.Availability {
		if w.EmployeeID == employeeID {
			out = append(out, w)
		}
	}
	return out
}

package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/staffrota/roster-api-go/pkg/models"
)

// AuditShifts re-scans a fully assigned slot set and returns the rule
// breaches it finds. Violations are data, never errors: the caller persists
// them and the run still succeeds. Every violation starts with open
// resolution status; resolving is owned by the HTTP layer.
//
// Checks: per-date totals over the 8-hour cap (major), consecutive
// assignments with under 11 hours of rest (major), and projected yearly
// totals over the employee's quota (warning).
func AuditShifts(snap *Snapshot, shifts []*models.Shift) []*models.Violation {
	byEmployee := make(map[string][]*models.Shift)
	for _, sh := range shifts {
		if sh.EmployeeID != nil {
			byEmployee[*sh.EmployeeID] = append(byEmployee[*sh.EmployeeID], sh)
		}
	}

	employeeIDs := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	var violations []*models.Violation
	for _, employeeID := range employeeIDs {
		emp := snap.EmployeeByID(employeeID)
		if emp == nil {
			continue
		}
		assigned := byEmployee[employeeID]
		sort.SliceStable(assigned, func(i, j int) bool {
			return assigned[i].StartTime.Before(assigned[j].StartTime)
		})

		violations = append(violations, auditDailyHours(employeeID, assigned)...)
		violations = append(violations, auditRest(employeeID, assigned)...)

		// TODO: flag weeks without 2 consecutive days off once that rest-day
		// rule is specified; the check is a known gap, not silently passing.

		if v := auditYearlyQuota(snap.Now, emp, assigned); v != nil {
			violations = append(violations, v)
		}
	}
	return violations
}

func auditDailyHours(employeeID string, assigned []*models.Shift) []*models.Violation {
	type dayTotal struct {
		date  time.Time
		hours float64
		first *models.Shift
	}
	totals := make(map[string]*dayTotal)
	var keys []string
	for _, sh := range assigned {
		key := sh.ShiftDate.Format("2006-01-02")
		dt, ok := totals[key]
		if !ok {
			dt = &dayTotal{date: dayStart(sh.ShiftDate), first: sh}
			totals[key] = dt
			keys = append(keys, key)
		}
		dt.hours += sh.DurationHours()
	}
	sort.Strings(keys)

	var out []*models.Violation
	for _, key := range keys {
		dt := totals[key]
		if dt.hours <= maxDailyHours {
			continue
		}
		shiftID := dt.first.ID
		out = append(out, &models.Violation{
			ID:            uuid.NewString(),
			EmployeeID:    employeeID,
			ShiftID:       &shiftID,
			ViolationType: models.ViolationDailyHoursExceeded,
			ViolationDate: dt.date,
			Severity:      models.SeverityMajor,
			Description: fmt.Sprintf(
				"employee scheduled for %.1f hours on %s, exceeding the 8-hour daily limit",
				dt.hours, key),
			ResolutionStatus: models.ResolutionOpen,
		})
	}
	return out
}

func auditRest(employeeID string, assigned []*models.Shift) []*models.Violation {
	var out []*models.Violation
	for i := 0; i+1 < len(assigned); i++ {
		rest := assigned[i+1].StartTime.Sub(assigned[i].EndTime).Hours()
		if rest >= minRestHours {
			continue
		}
		shiftID := assigned[i+1].ID
		out = append(out, &models.Violation{
			ID:            uuid.NewString(),
			EmployeeID:    employeeID,
			ShiftID:       &shiftID,
			ViolationType: models.ViolationInsufficientRest,
			ViolationDate: dayStart(assigned[i+1].ShiftDate),
			Severity:      models.SeverityMajor,
			Description: fmt.Sprintf(
				"only %.1f hours of rest between shifts, below the 11-hour minimum",
				rest),
			ResolutionStatus: models.ResolutionOpen,
		})
	}
	return out
}

func auditYearlyQuota(now time.Time, emp *models.Employee, assigned []*models.Shift) *models.Violation {
	total := emp.UsedHours
	for _, sh := range assigned {
		total += sh.DurationHours()
	}
	if total <= emp.YearlyHourQuota {
		return nil
	}
	return &models.Violation{
		ID:            uuid.NewString(),
		EmployeeID:    emp.ID,
		ShiftID:       nil,
		ViolationType: models.ViolationYearlyQuotaExceeded,
		ViolationDate: dayStart(now),
		Severity:      models.SeverityWarning,
		Description: fmt.Sprintf(
			"projected hours (%.1f) exceed the yearly quota of %.0f hours",
			total, emp.YearlyHourQuota),
		ResolutionStatus: models.ResolutionOpen,
	}
}

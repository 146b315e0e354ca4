package engine

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/staffrota/roster-api-go/pkg/models"
)

// Hard limits the solver enforces per candidate.
const (
	maxDailyHours = 8.0
	minRestHours  = 11.0
)

// Soft-scoring weights.
const (
	preferredBonus = 50.0
	hoursWeight    = 100.0
	daysOffPenalty = 10.0
	nightPenalty   = 5.0
	weekendPenalty = 5.0
	nightStartHour = 22
	nightEndHour   = 6
)

// SlotAssigner assigns employees to materialized slots. GreedyAssigner is the
// shipped strategy; an exact solver can be swapped in behind this interface
// without touching materialization or auditing.
type SlotAssigner interface {
	Assign(snap *Snapshot, shifts []*models.Shift) error
}

// GreedyAssigner fills slots position by position, chronologically, picking
// the highest-scoring valid candidate for each slot. Candidates are evaluated
// in ascending employee-ID order and only a strictly greater score displaces
// the incumbent, so equal scores resolve to the lowest employee ID.
type GreedyAssigner struct {
	store Store
	log   *zap.Logger
}

func NewGreedyAssigner(store Store, log *zap.Logger) *GreedyAssigner {
	if log == nil {
		log = zap.NewNop()
	}
	return &GreedyAssigner{store: store, log: log}
}

// tracker holds one employee's run-local assignment state. Trackers are
// scoped per position: positions share no state, which is what makes
// per-position processing independent.
type tracker struct {
	shifts      []*models.Shift
	hours       float64 // seeded from pre-run used hours
	daysOffGap  int     // modular weekday distance since last worked day
	lastWorkday int     // -1 until the first assignment
}

// Assign processes slots grouped by position in first-seen (materialization)
// order. Positions with no eligible employees pass their slots through
// unassigned; an unfillable slot is a coverage gap, not an error. Every
// accepted assignment is persisted immediately through the store.
func (g *GreedyAssigner) Assign(snap *Snapshot, shifts []*models.Shift) error {
	byPosition := make(map[string][]*models.Shift)
	var order []string
	for _, sh := range shifts {
		if _, ok := byPosition[sh.PositionID]; !ok {
			order = append(order, sh.PositionID)
		}
		byPosition[sh.PositionID] = append(byPosition[sh.PositionID], sh)
	}

	for _, positionID := range order {
		slots := byPosition[positionID]
		eligible := snap.EligibleEmployees(positionID)
		if len(eligible) == 0 {
			g.log.Debug("no eligible employees for position",
				zap.String("position_id", positionID),
				zap.Int("open_slots", len(slots)))
			continue
		}
		if err := g.assignPosition(snap, slots, eligible); err != nil {
			return err
		}
	}
	return nil
}

func (g *GreedyAssigner) assignPosition(snap *Snapshot, slots []*models.Shift, eligible []*models.Employee) error {
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].ID < slots[j].ID
	})

	trackers := make(map[string]*tracker, len(eligible))
	for _, emp := range eligible {
		trackers[emp.ID] = &tracker{hours: emp.UsedHours, lastWorkday: -1}
	}

	for _, slot := range slots {
		duration := slot.DurationHours()

		var best *models.Employee
		bestScore := 0.0
		for _, emp := range eligible {
			tr := trackers[emp.ID]
			if !g.valid(snap, emp, tr, slot, duration) {
				continue
			}
			score := g.score(snap, emp, tr, slot)
			if best == nil || score > bestScore {
				best = emp
				bestScore = score
			}
		}

		if best == nil {
			// Coverage gap: the slot stays unassigned and surfaces in the
			// result for downstream reporting.
			continue
		}

		employeeID := best.ID
		slot.EmployeeID = &employeeID

		tr := trackers[best.ID]
		tr.shifts = append(tr.shifts, slot)
		tr.hours += duration
		weekday := int(slot.ShiftDate.Weekday())
		if tr.lastWorkday >= 0 {
			tr.daysOffGap = (weekday - tr.lastWorkday + 7) % 7
		}
		tr.lastWorkday = weekday

		if err := g.store.SaveAssignment(slot); err != nil {
			return err
		}
	}
	return nil
}

// valid applies the hard constraints: no overlapping unavailability window,
// the 8-hour daily cap, the yearly quota, and 11 hours of rest since the
// employee's previous assignment in this run.
func (g *GreedyAssigner) valid(snap *Snapshot, emp *models.Employee, tr *tracker, slot *models.Shift, duration float64) bool {
	for _, w := range snap.WindowsFor(emp.ID) {
		if w.AvailabilityType == models.AvailabilityUnavailable &&
			overlaps(w.StartDatetime, w.EndDatetime, slot.StartTime, slot.EndTime) {
			return false
		}
	}

	var dayHours float64
	for _, s := range tr.shifts {
		if sameDay(s.ShiftDate, slot.ShiftDate) {
			dayHours += s.DurationHours()
		}
	}
	if dayHours+duration > maxDailyHours {
		return false
	}

	if tr.hours+duration > emp.YearlyHourQuota {
		return false
	}

	if n := len(tr.shifts); n > 0 {
		rest := slot.StartTime.Sub(tr.shifts[n-1].EndTime).Hours()
		if rest < minRestHours {
			return false
		}
	}

	return true
}

// score computes the desirability of assigning the employee to the slot.
// Higher is better; only valid candidates are scored.
func (g *GreedyAssigner) score(snap *Snapshot, emp *models.Employee, tr *tracker, slot *models.Shift) float64 {
	score := -tr.hours / hoursWeight

	for _, w := range snap.WindowsFor(emp.ID) {
		if w.AvailabilityType == models.AvailabilityPreferred &&
			overlaps(w.StartDatetime, w.EndDatetime, slot.StartTime, slot.EndTime) {
			score += preferredBonus
			break
		}
	}

	score -= float64(tr.daysOffGap) * daysOffPenalty

	if isNightShift(slot.StartTime) {
		nights := 0
		for _, s := range tr.shifts {
			if isNightShift(s.StartTime) {
				nights++
			}
		}
		score -= float64(nights) * nightPenalty
	}

	if isWeekend(slot.ShiftDate) {
		weekends := 0
		for _, s := range tr.shifts {
			if isWeekend(s.ShiftDate) {
				weekends++
			}
		}
		score -= float64(weekends) * weekendPenalty
	}

	return score
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func isNightShift(start time.Time) bool {
	return start.Hour() >= nightStartHour || start.Hour() < nightEndHour
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

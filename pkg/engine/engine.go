// Package engine implements the schedule generation pipeline: a point-in-time
// reference-data snapshot is expanded into concrete shift slots, a greedy
// constraint-checked solver assigns eligible employees to them, and a
// compliance audit records any rule breaches as violation records.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/staffrota/roster-api-go/pkg/models"
)

// Engine sequences one generation run: load snapshot, create the schedule
// record, materialize slots, solve, audit. It is sequential and provides no
// mutual exclusion: two concurrent runs over overlapping date ranges will
// both write their own shift rows. Callers are expected to serialize
// generation requests for a given footprint.
type Engine struct {
	loader   Loader
	store    Store
	assigner SlotAssigner
	log      *zap.Logger
}

// New wires an engine from explicit collaborators. A nil assigner gets the
// greedy default; a nil logger is replaced with a no-op one.
func New(loader Loader, store Store, assigner SlotAssigner, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if assigner == nil {
		assigner = NewGreedyAssigner(store, log)
	}
	return &Engine{loader: loader, store: store, assigner: assigner, log: log}
}

// NewWithDB wires the engine against GORM-backed loader and store.
func NewWithDB(db *gorm.DB, log *zap.Logger) *Engine {
	return New(&GormLoader{DB: db}, &GormStore{DB: db}, nil, log)
}

// GenerateSchedule runs the full pipeline for [start, end] inclusive and
// returns the draft schedule with its shifts. Violations found by the audit
// are persisted as a side effect and queried separately. There is no
// idempotency: generating twice over overlapping ranges creates a second,
// independent set of shift rows.
func (e *Engine) GenerateSchedule(start, end time.Time, requestedBy string) (*models.GenerationResult, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	snap, err := e.loader.LoadSnapshot(time.Now())
	if err != nil {
		return nil, err
	}
	e.log.Info("reference data loaded",
		zap.Int("employees", len(snap.Employees)),
		zap.Int("positions", len(snap.Positions)),
		zap.Int("templates", len(snap.Templates)),
		zap.Int("constraints", len(snap.Constraints)))

	schedule := &models.Schedule{
		ID: uuid.NewString(),
		Name: fmt.Sprintf("Schedule %s to %s",
			start.Format("2006-01-02"), end.Format("2006-01-02")),
		StartDate:        dayStart(start),
		EndDate:          dayStart(end),
		Status:           models.ScheduleStatusDraft,
		GenerationMethod: "automatic",
		CreatedBy:        requestedBy,
	}
	if err := e.store.CreateSchedule(schedule); err != nil {
		return nil, err
	}

	shifts, err := MaterializeShifts(schedule.ID, start, end, snap)
	if err != nil {
		// Not a load failure: the schedule row already exists at this point,
		// and load failures promise that nothing has been written yet.
		return nil, fmt.Errorf("materializing shifts: %w", err)
	}
	if err := e.store.CreateShifts(shifts); err != nil {
		return nil, err
	}

	if err := e.assigner.Assign(snap, shifts); err != nil {
		return nil, err
	}

	violations := AuditShifts(snap, shifts)
	for _, v := range violations {
		if err := e.store.CreateViolation(v); err != nil {
			return nil, err
		}
	}

	assigned := 0
	for _, sh := range shifts {
		if sh.EmployeeID != nil {
			assigned++
		}
	}
	e.log.Info("schedule generated",
		zap.String("schedule_id", schedule.ID),
		zap.Int("slots", len(shifts)),
		zap.Int("assigned", assigned),
		zap.Int("coverage_gaps", len(shifts)-assigned),
		zap.Int("violations", len(violations)))

	return &models.GenerationResult{Schedule: schedule, Shifts: shifts}, nil
}

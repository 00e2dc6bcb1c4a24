package app

import (
	"database/sql"

	log "github.com/sirupsen/logrus"
	"github.com/syllabussync/syllabussync/internal/config"
	"github.com/syllabussync/syllabussync/internal/event_bus"
	"github.com/syllabussync/syllabussync/internal/utils"
	"github.com/syllabussync/syllabussync/pkg/extraction"
	"github.com/syllabussync/syllabussync/pkg/ical"
	"github.com/syllabussync/syllabussync/pkg/schedule"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock utils.Clock
	Bus   *event_bus.EventBus

	ExtractionClient extraction.Client

	ScheduleRepo    schedule.Repository
	ScheduleService *schedule.Service
	ScheduleHandler *schedule.Handler

	CalendarEncoder *ical.Encoder
	ExportHandler   *ical.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Bus = event_bus.NewEventBus()

	deps.ExtractionClient = extraction.NewClient(cfg.Extraction.URL)

	deps.ScheduleRepo = schedule.NewRepository(db)
	deps.ScheduleService = schedule.NewService(deps.ScheduleRepo, deps.Bus)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService, deps.ExtractionClient)

	deps.CalendarEncoder = ical.NewEncoder(deps.Clock, cfg.Calendar.Timezone, cfg.Calendar.DefaultName)
	deps.ExportHandler = ical.NewHandler(deps.ScheduleService, deps.CalendarEncoder)

	event_bus.SubscribeTyped[event_bus.ScheduleImported](deps.Bus, event_bus.ScheduleImportedType,
		func(e event_bus.EventT[event_bus.ScheduleImported]) error {
			log.Infof("Imported syllabus %q (%s): %d events, %d dropped, %d repaired",
				e.Data.CourseName, e.Data.CourseCode, e.Data.EventCount, e.Data.DroppedCount, e.Data.RepairCount)
			return nil
		})

	return deps
}

package event_bus

// ScheduleImportedType is published after a syllabus import replaced a user's schedule.
const ScheduleImportedType EventType = "schedule.imported"

type ScheduleImported struct {
	CourseName   string
	CourseCode   string
	EventCount   int
	DroppedCount int
	RepairCount  int
}

package extraction

// Payload is the structured course description returned by the external
// extraction service. All dates are contracted to arrive as YYYY-MM-DD strings;
// anything else is treated as a parse failure downstream, never guessed at.
// Fields are typed per source list so that malformed input is rejected at this
// boundary instead of being poked at speculatively deeper in the pipeline.
type Payload struct {
	CourseName    string             `json:"course_name"`
	CourseCode    string             `json:"course_code"`
	Professor     Professor          `json:"professor"`
	ClassSchedule string             `json:"class_schedule"`
	Homework      []HomeworkItem     `json:"homework"`
	Exams         []ExamItem         `json:"exams"`
	Projects      []ProjectItem      `json:"projects"`
	OfficeHours   []OfficeHoursItem  `json:"office_hours"`
	ClassMeetings []ClassMeetingItem `json:"class_meetings"`
}

type Professor struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OfficeHours string `json:"office_hours"`
}

type HomeworkItem struct {
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
}

type ExamItem struct {
	// Type is the exam label, e.g. "Midterm" or "Final".
	Type string `json:"type"`
	Date string `json:"date"`
}

type ProjectItem struct {
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
}

// OfficeHoursItem describes a weekly office-hours slot over a date range.
type OfficeHoursItem struct {
	Day       string `json:"day"`
	Time      string `json:"time"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ClassMeetingItem describes the weekly class meeting pattern over the term.
type ClassMeetingItem struct {
	Days      []string `json:"days"`
	Time      string   `json:"time"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

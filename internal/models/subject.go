package models

// Subject represents an academic subject in the course catalog.
type Subject struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Credits int    `db:"credits" json:"credits"`
}

// TeachingAssignment is the one-to-one teaching slot attached to a subject.
// It is written together with its subject as a single unit.
type TeachingAssignment struct {
	SubjectID string `db:"subject_id" json:"subject_id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	Room      string `db:"room" json:"room"`
	Day       string `db:"day" json:"day"`
	Time      string `db:"time" json:"time"`
}

// SubjectDetail bundles a subject with its teaching assignment.
type SubjectDetail struct {
	Subject
	Assignment *TeachingAssignment `json:"assignment,omitempty"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

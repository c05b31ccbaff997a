package models

import "time"

// Grade sentinels. GradeNotSet marks an enrollment awaiting a final grade and
// GradeWithdrawn marks a withdrawal; neither contributes credit weight to GPA.
const (
	GradeNotSet    = "N/A"
	GradeWithdrawn = "W"
)

// Enrollment links a student to a subject and carries the final grade.
// The grade is free text: it is upper-cased on write but never validated
// against the grade-point table.
type Enrollment struct {
	ID        int64  `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
	Grade     string `db:"grade" json:"grade"`
}

// EnrollmentRecord is an enrollment joined with subject and student context
// for listings and GPA derivation.
type EnrollmentRecord struct {
	ID          int64  `db:"id" json:"id"`
	StudentID   string `db:"student_id" json:"student_id"`
	StudentName string `db:"student_name" json:"student_name,omitempty"`
	SubjectID   string `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Credits     int    `db:"credits" json:"credits"`
	Grade       string `db:"grade" json:"grade"`
}

// AssignmentScore is a per-assignment score row under an enrollment.
type AssignmentScore struct {
	ID           int64     `db:"id" json:"id"`
	EnrollmentID int64     `db:"enrollment_id" json:"enrollment_id"`
	Name         string    `db:"name" json:"name"`
	Score        float64   `db:"score" json:"score"`
	MaxScore     float64   `db:"max_score" json:"max_score"`
	RecordedAt   time.Time `db:"recorded_at" json:"recorded_at"`
}

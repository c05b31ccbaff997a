package models

// StudentStatus enumerates a student's registration state.
type StudentStatus string

const (
	StudentStatusEnrolled  StudentStatus = "ENROLLED"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusOnLeave   StudentStatus = "ON_LEAVE"
	StudentStatusDropped   StudentStatus = "DROPPED"
)

// Student represents a learner owned by the ledger. GPA is a cached value
// derived from graded enrollments and written back by the GPA calculator.
type Student struct {
	ID       string        `db:"id" json:"id"`
	FullName string        `db:"full_name" json:"full_name"`
	Status   StudentStatus `db:"status" json:"status"`
	GPA      float64       `db:"gpa" json:"gpa"`
}

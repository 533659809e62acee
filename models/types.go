package models

import "time"

// Client status constants
const (
	ClientActive   = "active"
	ClientInactive = "inactive"
)

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Enrollment status constants
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentWithdrawn = "withdrawn"
)

// Assessment scales
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Program capability tags
const (
	InfoTestResults = "testResults"
	InfoMedication  = "medication"
	InfoSymptoms    = "symptoms"
	InfoFollowup    = "followup"
)

// User roles
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// Domain types

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash, never exposed
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Program struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	RequiredInfo []string  `json:"requiredInfo"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ProgramWithCount struct {
	Program
	EnrollmentCount int64 `json:"enrollmentCount"`
}

type Client struct {
	ID               int64     `json:"id"`
	ClientID         string    `json:"clientId"`
	Name             string    `json:"name"`
	DOB              string    `json:"dob"`
	Gender           string    `json:"gender"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	Email            *string   `json:"email"`
	EmergencyContact string    `json:"emergencyContact"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Enrollment struct {
	ID               int64     `json:"id"`
	ClientID         int64     `json:"clientId"`
	ProgramID        int64     `json:"programId"`
	EnrollDate       string    `json:"enrollDate"`
	Notes            *string   `json:"notes"`
	Status           string    `json:"status"`
	SymptomSeverity  *string   `json:"symptomSeverity"`
	RiskLevel        *string   `json:"riskLevel"`
	FollowUpRequired bool      `json:"followUpRequired"`
	CreatedAt        time.Time `json:"createdAt"`
}

// EnrollmentWithProgram embeds the enrolled program
type EnrollmentWithProgram struct {
	Enrollment
	Program Program `json:"program"`
}

type Visit struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"clientId"`
	ProgramID *int64    `json:"programId"`
	Date      string    `json:"date"`
	Doctor    string    `json:"doctor"`
	Purpose   string    `json:"purpose"`
	CreatedAt time.Time `json:"createdAt"`
}

type VisitWithProgram struct {
	Visit
	Program *Program `json:"program,omitempty"`
}

type Note struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"clientId"`
	ProgramID *int64    `json:"programId"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type NoteWithProgram struct {
	Note
	Program *Program `json:"program,omitempty"`
}

// ClientDetails is a client together with everything recorded against it
type ClientDetails struct {
	Client
	Enrollments []EnrollmentWithProgram `json:"enrollments"`
	Visits      []VisitWithProgram      `json:"visits"`
	Notes       []NoteWithProgram       `json:"notes"`
}

// Stats keeps the dashboard field names.
// ActivePrograms counts every program and NewEnrollments counts every enrollment.
type Stats struct {
	TotalClients   int64 `json:"totalClients"`
	ActivePrograms int64 `json:"activePrograms"`
	NewEnrollments int64 `json:"newEnrollments"`
}

// Error response

type ErrorResponse struct {
	Message string `json:"message"`
}

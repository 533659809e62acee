package models

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateProgramRequest struct {
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	Description  string   `json:"description"`
	RequiredInfo []string `json:"requiredInfo"`
}

// ClientID is optional; one is generated when it is empty.
type CreateClientRequest struct {
	ClientID         string  `json:"clientId"`
	Name             string  `json:"name"`
	DOB              string  `json:"dob"`
	Gender           string  `json:"gender"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	Email            *string `json:"email"`
	EmergencyContact string  `json:"emergencyContact"`
	Status           string  `json:"status"`
}

type CreateEnrollmentRequest struct {
	ClientID         int64   `json:"clientId"`
	ProgramID        int64   `json:"programId"`
	EnrollDate       string  `json:"enrollDate"`
	Notes            *string `json:"notes"`
	Status           string  `json:"status"`
	SymptomSeverity  *string `json:"symptomSeverity"`
	RiskLevel        *string `json:"riskLevel"`
	FollowUpRequired bool    `json:"followUpRequired"`
}

type CreateVisitRequest struct {
	ClientID  int64  `json:"clientId"`
	ProgramID int64  `json:"programId"`
	Date      string `json:"date"`
	Doctor    string `json:"doctor"`
	Purpose   string `json:"purpose"`
}

type CreateNoteRequest struct {
	ClientID  int64  `json:"clientId"`
	ProgramID *int64 `json:"programId"`
	Content   string `json:"content"`
}

// Patch types. Only fields present in the JSON body are applied.

type ClientPatch struct {
	Name             Optional[string] `json:"name"`
	DOB              Optional[string] `json:"dob"`
	Gender           Optional[string] `json:"gender"`
	Phone            Optional[string] `json:"phone"`
	Address          Optional[string] `json:"address"`
	Email            Optional[string] `json:"email"`
	EmergencyContact Optional[string] `json:"emergencyContact"`
	Status           Optional[string] `json:"status"`
}

type ProgramPatch struct {
	Name         Optional[string]   `json:"name"`
	Code         Optional[string]   `json:"code"`
	Description  Optional[string]   `json:"description"`
	RequiredInfo Optional[[]string] `json:"requiredInfo"`
}

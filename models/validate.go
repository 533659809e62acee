package models

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for dob, enrollDate and visit dates.
const DateLayout = "2006-01-02"

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)
)

var (
	genders            = []string{GenderMale, GenderFemale, GenderOther}
	clientStatuses     = []string{ClientActive, ClientInactive}
	enrollmentStatuses = []string{EnrollmentActive, EnrollmentCompleted, EnrollmentWithdrawn}
	severities         = []string{SeverityMild, SeverityModerate, SeveritySevere}
	riskLevels         = []string{RiskLow, RiskMedium, RiskHigh}
	requiredInfoTags   = []string{InfoTestResults, InfoMedication, InfoSymptoms, InfoFollowup}
	roles              = []string{RoleStaff, RoleAdmin}
)

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	if !slices.Contains(allowed, v) {
		return fmt.Errorf("%s must be one of: %s", field, strings.Join(allowed, ", "))
	}
	return nil
}

func isoDate(field, v string) error {
	if _, err := time.Parse(DateLayout, v); err != nil {
		return fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return nil
}

func email(field, v string) error {
	if !emailRegex.MatchString(v) {
		return fmt.Errorf("%s is not a valid email address", field)
	}
	return nil
}

// NormalizeCode trims and upper-cases a program code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeRequiredInfo validates tags and drops repeats, keeping first-seen order.
func NormalizeRequiredInfo(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if err := oneOf("requiredInfo", tag, requiredInfoTags); err != nil {
			return nil, err
		}
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out, nil
}

// Normalize trims input and fills defaults, then validates.
func (r *RegisterRequest) Normalize() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if r.Role == "" {
		r.Role = RoleStaff
	}

	if !usernameRegex.MatchString(r.Username) {
		return errors.New("username must be 3-30 letters, digits, dots, dashes or underscores")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if err := required("name", r.Name); err != nil {
		return err
	}
	if r.Email != "" {
		if err := email("email", r.Email); err != nil {
			return err
		}
	}
	return oneOf("role", r.Role, roles)
}

func (r *CreateProgramRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = NormalizeCode(r.Code)
	r.Description = strings.TrimSpace(r.Description)

	if err := required("name", r.Name); err != nil {
		return err
	}
	if err := required("code", r.Code); err != nil {
		return err
	}
	info, err := NormalizeRequiredInfo(r.RequiredInfo)
	if err != nil {
		return err
	}
	r.RequiredInfo = info
	return nil
}

func (r *CreateClientRequest) Normalize() error {
	r.ClientID = strings.TrimSpace(r.ClientID)
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.EmergencyContact = strings.TrimSpace(r.EmergencyContact)
	if r.Status == "" {
		r.Status = ClientActive
	}
	if r.Email != nil {
		trimmed := strings.TrimSpace(*r.Email)
		if trimmed == "" {
			r.Email = nil
		} else {
			r.Email = &trimmed
		}
	}

	for _, f := range []struct{ name, v string }{
		{"name", r.Name}, {"dob", r.DOB}, {"gender", r.Gender}, {"phone", r.Phone}, {"address", r.Address},
	} {
		if err := required(f.name, f.v); err != nil {
			return err
		}
	}
	if err := isoDate("dob", r.DOB); err != nil {
		return err
	}
	if err := oneOf("gender", r.Gender, genders); err != nil {
		return err
	}
	if err := oneOf("status", r.Status, clientStatuses); err != nil {
		return err
	}
	if r.Email != nil {
		return email("email", *r.Email)
	}
	return nil
}

// Normalize fills enrollDate with today when absent; now supplies "today".
func (r *CreateEnrollmentRequest) Normalize(now time.Time) error {
	if r.ClientID <= 0 {
		return errors.New("clientId is required")
	}
	if r.ProgramID <= 0 {
		return errors.New("programId is required")
	}
	if r.EnrollDate == "" {
		r.EnrollDate = now.Format(DateLayout)
	}
	if r.Status == "" {
		r.Status = EnrollmentActive
	}
	if err := isoDate("enrollDate", r.EnrollDate); err != nil {
		return err
	}
	if err := oneOf("status", r.Status, enrollmentStatuses); err != nil {
		return err
	}
	if r.SymptomSeverity != nil {
		if err := oneOf("symptomSeverity", *r.SymptomSeverity, severities); err != nil {
			return err
		}
	}
	if r.RiskLevel != nil {
		if err := oneOf("riskLevel", *r.RiskLevel, riskLevels); err != nil {
			return err
		}
	}
	return nil
}

func (r *CreateVisitRequest) Normalize() error {
	r.Doctor = strings.TrimSpace(r.Doctor)
	r.Purpose = strings.TrimSpace(r.Purpose)

	if r.ClientID <= 0 {
		return errors.New("clientId is required")
	}
	if r.ProgramID <= 0 {
		return errors.New("programId is required")
	}
	if err := isoDate("date", r.Date); err != nil {
		return err
	}
	if err := required("doctor", r.Doctor); err != nil {
		return err
	}
	return required("purpose", r.Purpose)
}

func (r *CreateNoteRequest) Normalize() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.ClientID <= 0 {
		return errors.New("clientId is required")
	}
	if r.ProgramID != nil && *r.ProgramID <= 0 {
		return errors.New("programId must be a positive id")
	}
	return required("content", r.Content)
}

// Normalize validates every present field. Null is only accepted for email.
func (p *ClientPatch) Normalize() error {
	for _, f := range []struct {
		name string
		o    *Optional[string]
	}{
		{"name", &p.Name}, {"dob", &p.DOB}, {"gender", &p.Gender}, {"phone", &p.Phone},
		{"address", &p.Address}, {"emergencyContact", &p.EmergencyContact}, {"status", &p.Status},
	} {
		if !f.o.Set {
			continue
		}
		if f.o.Null {
			return fmt.Errorf("%s cannot be null", f.name)
		}
		f.o.Value = strings.TrimSpace(f.o.Value)
		if f.name != "emergencyContact" {
			if err := required(f.name, f.o.Value); err != nil {
				return err
			}
		}
	}

	if p.DOB.Set {
		if err := isoDate("dob", p.DOB.Value); err != nil {
			return err
		}
	}
	if p.Gender.Set {
		if err := oneOf("gender", p.Gender.Value, genders); err != nil {
			return err
		}
	}
	if p.Status.Set {
		if err := oneOf("status", p.Status.Value, clientStatuses); err != nil {
			return err
		}
	}
	if p.Email.Set && !p.Email.Null {
		p.Email.Value = strings.TrimSpace(p.Email.Value)
		if p.Email.Value == "" {
			p.Email.Null = true
		} else if err := email("email", p.Email.Value); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether no field is present.
func (p *ClientPatch) Empty() bool {
	return !p.Name.Set && !p.DOB.Set && !p.Gender.Set && !p.Phone.Set &&
		!p.Address.Set && !p.Email.Set && !p.EmergencyContact.Set && !p.Status.Set
}

func (p *ProgramPatch) Normalize() error {
	if p.Name.Set {
		if p.Name.Null {
			return errors.New("name cannot be null")
		}
		p.Name.Value = strings.TrimSpace(p.Name.Value)
		if err := required("name", p.Name.Value); err != nil {
			return err
		}
	}
	if p.Code.Set {
		if p.Code.Null {
			return errors.New("code cannot be null")
		}
		p.Code.Value = NormalizeCode(p.Code.Value)
		if err := required("code", p.Code.Value); err != nil {
			return err
		}
	}
	if p.Description.Set {
		// null clears the description
		p.Description.Value = strings.TrimSpace(p.Description.Value)
	}
	if p.RequiredInfo.Set {
		info, err := NormalizeRequiredInfo(p.RequiredInfo.Value)
		if err != nil {
			return err
		}
		p.RequiredInfo.Value = info
	}
	return nil
}

func (p *ProgramPatch) Empty() bool {
	return !p.Name.Set && !p.Code.Set && !p.Description.Set && !p.RequiredInfo.Set
}

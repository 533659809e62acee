// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, patch, and domain types for the API.

All JSON field names are camelCase.

# Request Types

Types for parsing incoming JSON. Each has a Normalize method that trims input,
fills defaults, and returns a descriptive error for invalid values:

  - RegisterRequest, LoginRequest
  - CreateProgramRequest: code is upper-cased, requiredInfo de-duplicated
  - CreateClientRequest: clientId optional (generated when empty)
  - CreateEnrollmentRequest: enrollDate defaults to today, status to "active"
  - CreateVisitRequest, CreateNoteRequest

# Patch Types

ClientPatch and ProgramPatch use Optional[T] for every field:

	var p models.ClientPatch
	json.Unmarshal([]byte(`{"phone":"555-0100"}`), &p)
	// p.Phone.Set == true, p.Name.Set == false

A field that is absent from the body is left unchanged. A field sent as null
clears it where that is allowed (client email, program description) and is a
validation error otherwise.

# Domain Types

  - User: staff account (password hash never serialized)
  - Program, ProgramWithCount
  - Client, ClientDetails
  - Enrollment, EnrollmentWithProgram
  - Visit, VisitWithProgram
  - Note, NoteWithProgram
  - Stats: totalClients, activePrograms, newEnrollments

# Constants

Client status: ClientActive, ClientInactive

Gender: GenderMale, GenderFemale, GenderOther

Enrollment status: EnrollmentActive, EnrollmentCompleted, EnrollmentWithdrawn

Assessment: SeverityMild/Moderate/Severe, RiskLow/Medium/High

Program capabilities: InfoTestResults, InfoMedication, InfoSymptoms, InfoFollowup

Roles: RoleStaff, RoleAdmin
*/
package models

package domain

import (
	"fmt"
	"time"
)

// DateLayout is the string form used for every date in a submission payload.
const DateLayout = "2006-01-02"

// Option lists offered by the intake form.
var (
	Genders          = []string{"Male", "Female", "Other"}
	MaritalStatuses  = []string{"", "Single", "Married", "Divorced", "Widowed"}
	Occupations      = []string{"", "Clerical", "Manual Labor", "Driver", "Supervisor", "Other"}
	Departments      = []string{"", "HR", "Operations", "Production", "Sales", "Finance", "IT"}
	WageRateUnits    = []string{"hour", "day", "week"}
	ToolsSubstances  = []string{"Forklift", "Ladder", "Machine", "Chemical", "Tool", "Other"}
	TreatmentExtents = []string{"ER Visit", "Surgery", "Physical Therapy", "Medication", "Other"}
	ClaimTypes       = []string{"", "Injury", "Illness", "Death"}
	LossTypes        = []string{"", "Strain", "Contusion", "Laceration", "Other"}
	LateReasons      = []string{"", "Late Reporting — reason 1", "Late Reporting — reason 2"}
)

// Address is a US street address. Every part is free text.
type Address struct {
	Street string
	City   string
	State  string
	ZIP    string
}

// IsZero reports whether no part of the address was filled in.
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.ZIP == ""
}

// TimeOfDay is a wall-clock time with minute precision. Midnight is a
// valid value, so an unset time is represented by a nil *TimeOfDay.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (*TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return nil, fmt.Errorf("invalid time of day %q", s)
}

// String formats as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute)
}

// Attachment is an uploaded file. Data is owned by the upload collaborator
// and is never rewritten by the intake engine.
type Attachment struct {
	Filename    string
	ContentType string // sniffed, e.g. "application/pdf"
	Data        []byte
}

// Signature is a captured handwritten signature.
type Signature struct {
	PNG    []byte
	Width  int
	Height int
}

// ClaimDraft is the in-progress state of a single intake form. Every field
// is optional; which ones must be filled is decided by the intake rule set.
// Date fields use the zero time.Time for "not set".
type ClaimDraft struct {
	// Employee
	FirstName     string
	MiddleName    string
	LastName      string
	SSN           string // raw as typed
	DOB           time.Time
	Gender        string
	MaritalStatus string
	Home          Address
	HomePhone     string

	// Employment & compensation
	DateHired        time.Time
	Occupation       string // selected option
	OccupationManual string // free text when Occupation is "" or "Other"
	Department       string
	Apprentice       bool
	AvgWeeklyWage    string // raw, not parsed
	WageRateUnit     string
	WageRateValue    float64
	HoursPer         float64
	Schedule         string

	// Incident
	DateOfInjury                 time.Time
	TimeOfInjury                 *TimeOfDay
	Description                  string
	HowOccurred                  string
	ToolsSubstances              []string
	OnPremises                   string // "Yes" or "No"
	OccurrenceAddress            Address
	Witness                      string
	FirstDayLost                 time.Time
	EmployerPaidLostTime         string
	DateEmployerNotifiedInjury   time.Time
	DateEmployerNotifiedLostTime time.Time
	ReturnToWork                 time.Time
	RTWSameEmployer              string
	RTWRestrictions              bool
	RTWRestrictionsText          string

	// Medical
	TreatingPhysician string
	ExtentOfTreatment []string
	DeathResult       string // "Yes" or "No"
	ObjectiveFindings string
	MedicalDiagnoses  string
	ICDCodes          string

	// Employer & insurer
	EmployerLegal             string
	EmployerDBA               string
	EmployerMailing           Address
	EmployerFEIN              string // raw as typed
	UnemploymentID            string
	EmployerContact           string
	PhysicalDiffers           bool
	EmployerPhysical          Address
	InsurerName               string
	InsuredLegalNameFEIN      string
	PolicyNumber              string
	DateInsurerReceivedNotice time.Time

	// Claims administrator
	ClaimsAdmin   string
	CAAddress     Address
	CAFEIN        string // raw as typed
	CAClaimNumber string
	ClaimType     string
	LossType      string
	LateReason    string

	// Attachments
	WageStatement *Attachment
	Documents     []Attachment
	Signature     *Signature
}

// OffPremises reports whether the injury happened away from the employer's
// premises.
func (d *ClaimDraft) OffPremises() bool {
	return d.OnPremises == "No"
}

// ── Submission payload ────────────────────────────────────────────────────────

type EmployeeSection struct {
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
	SSN    string `json:"ssn"`
	DOB    string `json:"dob"`
}

type EmploymentSection struct {
	Hired         string `json:"hired"`
	Occupation    string `json:"occupation"`
	AvgWeeklyWage string `json:"avg_weekly_wage"`
}

type IncidentSection struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"desc"`
	HowOccurred string `json:"how"`
	OnPremises  string `json:"on_premises"`
}

type MedicalSection struct {
	Physician string `json:"physician"`
	Diagnoses string `json:"diagnoses"`
}

type EmployerSection struct {
	Legal   string `json:"legal"`
	FEIN    string `json:"fein"`
	Contact string `json:"contact"`
}

// SubmissionPayload is the snapshot emitted on a successful submit. It is a
// plain value; copies never share state with the draft it came from.
type SubmissionPayload struct {
	Employee        EmployeeSection   `json:"employee"`
	Employment      EmploymentSection `json:"employment"`
	Incident        IncidentSection   `json:"incident"`
	Medical         MedicalSection    `json:"medical"`
	Employer        EmployerSection   `json:"employer"`
	CompletenessPct int               `json:"completeness_pct"`
}

// FormatDate renders t with DateLayout, or "" when t is the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ── Review ────────────────────────────────────────────────────────────────────

// ReviewLine is one label/value row of the final review summary.
type ReviewLine struct {
	Label string
	Value string
}

// ReviewDocument is everything a rendered claim review shows.
type ReviewDocument struct {
	Lines       []ReviewLine
	Completed   int // completeness percentage
	Reasons     []string
	Advisories  []string
	Signature   *Signature
	Attachments []Attachment
	GeneratedAt time.Time
}

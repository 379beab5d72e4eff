package intake

import (
	"fmt"
	"time"

	"github.com/csg33k/wc-intake/internal/domain"
)

// Requirement keys.
const (
	KeyEmployeeName      = "employee_name"
	KeySSN               = "ssn"
	KeyDOB               = "dob"
	KeyDateHired         = "date_hired"
	KeyDateOfInjury      = "date_of_injury"
	KeyTimeOfInjury      = "time_of_injury"
	KeyDescription       = "description"
	KeyHowOccurred       = "how_occurred"
	KeyTreatingPhysician = "treating_physician"
	KeyEmployerLegal     = "employer_legal"
	KeyEmployerFEIN      = "employer_fein"
	KeyPolicyNumber      = "policy_number"
	KeyInsurerNotice     = "date_insurer_received_notice"
	KeyCAClaimNumber     = "ca_claim_number"
	KeyOccurrenceAddress = "occurrence_address"
	KeySignature         = "signature"
)

// Env carries the values a predicate may need besides the draft itself.
type Env struct {
	Today  time.Time
	MinAge int
}

// Requirement is one entry of the rule set. Active is nil for requirements
// that always count; otherwise the requirement is left out of the
// evaluation entirely while Active returns false.
type Requirement struct {
	Key       string
	Active    func(d *domain.ClaimDraft) bool
	Satisfied func(d *domain.ClaimDraft, env Env) bool
}

// IsActive reports whether r counts toward the current evaluation.
func (r Requirement) IsActive(d *domain.ClaimDraft) bool {
	return r.Active == nil || r.Active(d)
}

var rules = []Requirement{
	{Key: KeyEmployeeName, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return d.FirstName != "" && d.LastName != ""
	}},
	{Key: KeySSN, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsValidSSN(NormalizeSSN(d.SSN))
	}},
	{Key: KeyDOB, Satisfied: func(d *domain.ClaimDraft, env Env) bool {
		return IsAdult(d.DOB, env.Today, env.MinAge)
	}},
	{Key: KeyDateHired, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return !d.DateHired.IsZero()
	}},
	{Key: KeyDateOfInjury, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return !d.DateOfInjury.IsZero()
	}},
	{Key: KeyTimeOfInjury, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return d.TimeOfInjury != nil
	}},
	{Key: KeyDescription, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsNonEmptyText(d.Description)
	}},
	{Key: KeyHowOccurred, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsNonEmptyText(d.HowOccurred)
	}},
	{Key: KeyTreatingPhysician, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsNonEmptyText(d.TreatingPhysician)
	}},
	{Key: KeyEmployerLegal, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsNonEmptyText(d.EmployerLegal)
	}},
	{Key: KeyEmployerFEIN, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsValidFEIN(NormalizeFEIN(d.EmployerFEIN))
	}},
	{Key: KeyPolicyNumber, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsNonEmptyText(d.PolicyNumber)
	}},
	{Key: KeyInsurerNotice, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return !d.DateInsurerReceivedNotice.IsZero()
	}},
	{Key: KeyCAClaimNumber, Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
		return IsNonEmptyText(d.CAClaimNumber)
	}},
	{
		Key:    KeyOccurrenceAddress,
		Active: (*domain.ClaimDraft).OffPremises,
		Satisfied: func(d *domain.ClaimDraft, _ Env) bool {
			a := d.OccurrenceAddress
			return a.Street != "" && a.City != "" && a.State != "" && a.ZIP != ""
		},
	},
}

// Rules returns the requirement rule set in evaluation order.
func Rules() []Requirement {
	out := make([]Requirement, len(rules))
	copy(out, rules)
	return out
}

// gate lists the requirements that must hold before a claim can be
// submitted, in reporting order, with the message shown when each fails.
// The signature check is appended after these by CanSubmit.
var gate = []struct {
	key     string
	message string
}{
	{KeyEmployeeName, "Employee full name required."},
	{KeySSN, "Valid SSN required (###-##-####)."},
	{KeyDOB, ageMessage(MinAge)},
	{KeyDateOfInjury, "Date of injury required."},
	{KeyTreatingPhysician, "Treating physician required."},
	{KeyEmployerLegal, "Employer legal name required."},
	{KeyEmployerFEIN, "Valid Employer FEIN required (##-#######)."},
}

const signatureMessage = "Digital signature required."

// ageMessage is the gate message for the configured minimum age.
func ageMessage(minAge int) string {
	return fmt.Sprintf("Employee must be ≥ %d years old.", minAge)
}

// GateKeys returns the requirement keys checked by the submission gate,
// signature last.
func GateKeys() []string {
	keys := make([]string, 0, len(gate)+1)
	for _, g := range gate {
		keys = append(keys, g.key)
	}
	return append(keys, KeySignature)
}

func ruleByKey(key string) Requirement {
	for _, r := range rules {
		if r.Key == key {
			return r
		}
	}
	panic("intake: unknown requirement " + key)
}

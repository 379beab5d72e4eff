package intake

import "github.com/csg33k/wc-intake/internal/domain"

// BuildPayload snapshots d into a submission payload. Callers invoke it only
// after CanSubmit has allowed the submission; it does not re-check.
func BuildPayload(d *domain.ClaimDraft, completenessPct int) domain.SubmissionPayload {
	var tod string
	if d.TimeOfInjury != nil {
		tod = d.TimeOfInjury.String()
	}
	return domain.SubmissionPayload{
		Employee: domain.EmployeeSection{
			First:  d.FirstName,
			Middle: d.MiddleName,
			Last:   d.LastName,
			SSN:    NormalizeSSN(d.SSN),
			DOB:    domain.FormatDate(d.DOB),
		},
		Employment: domain.EmploymentSection{
			Hired:         domain.FormatDate(d.DateHired),
			Occupation:    ResolveOccupation(d),
			AvgWeeklyWage: d.AvgWeeklyWage,
		},
		Incident: domain.IncidentSection{
			Date:        domain.FormatDate(d.DateOfInjury),
			Time:        tod,
			Description: d.Description,
			HowOccurred: d.HowOccurred,
			OnPremises:  d.OnPremises,
		},
		Medical: domain.MedicalSection{
			Physician: d.TreatingPhysician,
			Diagnoses: d.MedicalDiagnoses,
		},
		Employer: domain.EmployerSection{
			Legal:   d.EmployerLegal,
			FEIN:    NormalizeFEIN(d.EmployerFEIN),
			Contact: d.EmployerContact,
		},
		CompletenessPct: completenessPct,
	}
}

// ResolveOccupation returns the free-text occupation when the selection is
// empty or "Other", otherwise the selected option.
func ResolveOccupation(d *domain.ClaimDraft) string {
	if d.Occupation == "" || d.Occupation == "Other" {
		return d.OccupationManual
	}
	return d.Occupation
}

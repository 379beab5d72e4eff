package intake

import (
	"fmt"
	"strings"

	"github.com/csg33k/wc-intake/internal/domain"
)

// Review builds the summary a user checks before signing. Invalid SSN and
// FEIN values are shown as typed, marked "(INVALID)".
func (e *Engine) Review(d *domain.ClaimDraft) []domain.ReviewLine {
	env := e.env()
	score := e.Score(d)

	ssn := NormalizeSSN(d.SSN)
	if !IsValidSSN(ssn) {
		ssn += " (INVALID)"
	}
	fein := NormalizeFEIN(d.EmployerFEIN)
	if !IsValidFEIN(fein) {
		fein += " (INVALID)"
	}
	age := fmt.Sprintf("Under %d!", env.MinAge)
	if IsAdult(d.DOB, env.Today, env.MinAge) {
		age = "Age OK"
	}
	tod := ""
	if d.TimeOfInjury != nil {
		tod = d.TimeOfInjury.String()
	}

	return []domain.ReviewLine{
		{Label: "Employee", Value: strings.Join(strings.Fields(d.FirstName+" "+d.MiddleName+" "+d.LastName), " ")},
		{Label: "SSN", Value: ssn},
		{Label: "DOB", Value: strings.TrimSpace(domain.FormatDate(d.DOB) + " " + age)},
		{Label: "Date of Injury", Value: strings.TrimSpace(domain.FormatDate(d.DateOfInjury) + " " + tod)},
		{Label: "Employer", Value: d.EmployerLegal + " FEIN: " + fein},
		{Label: "Insurer", Value: d.InsurerName + " Policy: " + d.PolicyNumber},
		{Label: "Claim Type", Value: d.ClaimType + " Loss Type: " + d.LossType},
		{Label: "Completeness", Value: fmt.Sprintf("%d%%", score)},
	}
}

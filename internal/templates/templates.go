package templates

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/csg33k/wc-intake/internal/domain"
	"github.com/csg33k/wc-intake/internal/intake"
)

// Status is the live state shown under the form after every edit.
type Status struct {
	Score        int
	Checks       []intake.Check
	Requirements intake.RequirementResult
	CanSubmit    bool
	Reasons      []string
	Advisories   []string
}

// FormView carries the option lists and bounds the intake page needs.
type FormView struct {
	Today  string // YYYY-MM-DD, max for past-only date inputs
	MinAge int
	Status Status

	Genders, MaritalStatuses, Occupations, Departments, WageRateUnits []string
	ToolsSubstances, TreatmentExtents                                []string
	ClaimTypes, LossTypes, LateReasons                               []string
}

// NewFormView fills the option lists from the domain package.
func NewFormView(today string, minAge int, s Status) FormView {
	return FormView{
		Today:            today,
		MinAge:           minAge,
		Status:           s,
		Genders:          domain.Genders,
		MaritalStatuses:  domain.MaritalStatuses,
		Occupations:      domain.Occupations,
		Departments:      domain.Departments,
		WageRateUnits:    domain.WageRateUnits,
		ToolsSubstances:  domain.ToolsSubstances,
		TreatmentExtents: domain.TreatmentExtents,
		ClaimTypes:       domain.ClaimTypes,
		LossTypes:        domain.LossTypes,
		LateReasons:      domain.LateReasons,
	}
}

// Page renders the full intake form.
func Page(v FormView) templ.Component { return component(tmpl, "page", v) }

// Meter renders the completeness meter and the blocking reasons fragment.
func Meter(s Status) templ.Component { return component(tmpl, "meter", s) }

// Rejected renders the fragment returned when a submit is gated.
func Rejected(s Status) templ.Component { return component(tmpl, "rejected", s) }

var tmpl = template.Must(template.New("intake").Funcs(funcs).Funcs(template.FuncMap{
	"maxReasons": func() int { return maxReasonsShown },
	"sel":        func(name string, opts []string) selectData { return selectData{Name: name, Options: opts} },
	"list":       func(items ...string) []string { return items },
}).Parse(`
{{define "select"}}<select name="{{.Name}}">{{range .Options}}<option value="{{.}}">{{.}}</option>{{end}}</select>{{end}}

{{define "meter"}}<div id="meter">
  <label class="field-label">Claim Completeness Meter</label>
  <progress max="100" value="{{.Score}}"></progress>
  <span class="mono">Completeness: {{.Score}}%</span>
  <ul class="checks">{{range .Checks}}
    <li class="{{if .Satisfied}}ok{{else}}missing{{end}}">{{label .Key}}</li>{{end}}
  </ul>
  {{if .CanSubmit}}<p class="ready">Ready to submit.</p>{{else}}
  <div class="warning">Form cannot be submitted until required fields are valid.
    <ul>{{range first maxReasons .Reasons}}<li>{{.}}</li>{{end}}</ul>
  </div>{{end}}
  {{with .Advisories}}<ul class="advisories">{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>{{end}}

{{define "rejected"}}<div class="rejected">
  <p class="stamp">NOT SUBMITTED</p>
  <p class="mono">Completeness: {{.Score}}%</p>
  <ul>{{range first maxReasons .Reasons}}<li>{{.}}</li>{{end}}</ul>
</div>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Workers' Compensation · Claim Intake</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script>
  htmx.on("htmx:beforeSwap", function (e) {
    if (e.detail.xhr.status === 422) {
      e.detail.shouldSwap = true;
      e.detail.isError = false;
    }
  });
</script>
<style>
  body { font-family: 'IBM Plex Sans', sans-serif; background: #f5f0e8; color: #0d1117; margin: 2rem; }
  fieldset { border: 1px solid #b8a898; border-left: 4px solid #0d1117; margin-bottom: 1rem; background: rgba(255,255,255,0.7); }
  .field-label { font-family: 'IBM Plex Mono', monospace; font-size: 0.65rem; text-transform: uppercase; color: #6b5e4e; display: block; }
  .missing { color: #c0392b; } .ok { color: #2c6e49; }
  .stamp { border: 3px solid #c0392b; color: #c0392b; display: inline-block; padding: 2px 10px; transform: rotate(-2deg); }
  .mono { font-family: 'IBM Plex Mono', monospace; }
</style>
</head>
<body>
<h1>Workers' Compensation — Claim Intake Form</h1>
<form id="claim" hx-post="/claims/evaluate" hx-trigger="change, keyup delay:400ms" hx-target="#meter" hx-swap="outerHTML"
      hx-encoding="multipart/form-data" enctype="multipart/form-data">

<fieldset><legend>Employee</legend>
  <label class="field-label">First</label><input name="first_name" maxlength="50">
  <label class="field-label">Middle</label><input name="middle_name" maxlength="50">
  <label class="field-label">Last</label><input name="last_name" maxlength="50">
  <label class="field-label">Social Security Number (###-##-####)</label><input name="ssn" placeholder="123-45-6789">
  <label class="field-label">Gender</label>{{template "select" (sel "gender" .Genders)}}
  <label class="field-label">Marital Status (optional)</label>{{template "select" (sel "marital_status" .MaritalStatuses)}}
  <label class="field-label">Date of Birth (must be ≥ {{.MinAge}} years)</label><input type="date" name="dob" min="1900-01-01" max="{{.Today}}">
  <label class="field-label">Home Address — Street</label><input name="home_street">
  <label class="field-label">City</label><input name="home_city">
  <label class="field-label">State</label><input name="home_state">
  <label class="field-label">ZIP</label><input name="home_zip" maxlength="10">
  <label class="field-label">Home Phone (optional)</label><input name="home_phone" placeholder="(123) 456-7890">
</fieldset>

<fieldset><legend>Employment &amp; Compensation</legend>
  <label class="field-label">Date Hired</label><input type="date" name="date_hired" min="1900-01-01" max="{{.Today}}">
  <label class="field-label">Occupation</label>{{template "select" (sel "occupation" .Occupations)}}
  <label class="field-label">Occupation (free text, when Other)</label><input name="occupation_manual">
  <label class="field-label">Regular Department (optional)</label>{{template "select" (sel "department" .Departments)}}
  <label><input type="checkbox" name="apprentice" value="1"> Apprentice</label>
  <label class="field-label">Average Weekly Wage</label><input name="avg_weekly_wage" placeholder="0.00">
  <label class="field-label">Rate per</label>{{template "select" (sel "wage_rate_unit" .WageRateUnits)}}
  <label class="field-label">Rate</label><input type="number" name="wage_rate_value" min="0" step="0.01">
  <label class="field-label">Hours per / Days per</label><input type="number" name="hours_per" min="0" step="0.5">
  <label class="field-label">Normal Work Schedule (optional)</label><textarea name="schedule" maxlength="300"></textarea>
</fieldset>

<fieldset><legend>Incident / Injury</legend>
  <label class="field-label">Date of Injury</label><input type="date" name="date_of_injury" max="{{.Today}}">
  <label class="field-label">Time of Injury (24-hour)</label><input type="time" name="time_of_injury">
  <label class="field-label">Description of Injury</label><textarea name="description" maxlength="500"></textarea>
  <label class="field-label">How Injury Occurred</label><textarea name="how_occurred" maxlength="500"></textarea>
  <label class="field-label">Tools/Substances Involved</label>
  {{range .ToolsSubstances}}<label><input type="checkbox" name="tools_substances" value="{{.}}"> {{.}}</label>{{end}}
  <label class="field-label">Injury on Employer's Premises</label>
  <label><input type="radio" name="on_premises" value="Yes" checked> Yes</label>
  <label><input type="radio" name="on_premises" value="No"> No</label>
  <label class="field-label">Occurrence — Street</label><input name="occ_street">
  <label class="field-label">Occurrence — City</label><input name="occ_city">
  <label class="field-label">Occurrence — State</label><input name="occ_state">
  <label class="field-label">Occurrence — ZIP</label><input name="occ_zip">
  <label class="field-label">Witness Name and Phone (optional)</label><input name="witness">
  <label class="field-label">First Day of Lost Time</label><input type="date" name="first_day_lost" min="1900-01-01">
  <label class="field-label">Employer Paid for Lost Time</label>{{template "select" (sel "employer_paid_lost_time" (list "Yes" "No"))}}
  <label class="field-label">Date Employer Notified of Injury</label><input type="date" name="date_employer_notified_injury">
  <label class="field-label">Date Employer Notified of Lost Time</label><input type="date" name="date_employer_notified_lost_time">
  <label class="field-label">Return to Work Date (optional)</label><input type="date" name="return_to_work">
  <label class="field-label">RTW Same Employer (optional)</label>{{template "select" (sel "rtw_same_employer" (list "Yes" "No"))}}
  <label><input type="checkbox" name="rtw_restrictions" value="1"> RTW With Restrictions</label>
  <label class="field-label">RTW Restrictions (explain)</label><textarea name="rtw_restrictions_text" maxlength="300"></textarea>
</fieldset>

<fieldset><legend>Medical</legend>
  <label class="field-label">Treating Physician Name</label><input name="treating_physician">
  <label class="field-label">Extent of Medical Treatment</label>
  {{range .TreatmentExtents}}<label><input type="checkbox" name="extent_of_treatment" value="{{.}}"> {{.}}</label>{{end}}
  <label class="field-label">Death Result of Injury</label>{{template "select" (sel "death_result" (list "No" "Yes"))}}
  <label class="field-label">Objective Findings</label><textarea name="objective_findings" maxlength="1000"></textarea>
  <label class="field-label">Medical Diagnosis(es)</label><textarea name="medical_diagnoses" maxlength="300"></textarea>
  <label class="field-label">ICD Code(s)</label><input name="icd_codes" placeholder="e.g. S39.012A">
</fieldset>

<fieldset><legend>Employer &amp; Insurer</legend>
  <label class="field-label">Employer Legal Name</label><input name="employer_legal">
  <label class="field-label">Employer DBA Name (optional)</label><input name="employer_dba">
  <label class="field-label">Employer Mailing Street</label><input name="employer_mailing_street">
  <label class="field-label">City</label><input name="employer_mailing_city">
  <label class="field-label">State</label><input name="employer_mailing_state">
  <label class="field-label">ZIP</label><input name="employer_mailing_zip">
  <label class="field-label">Employer FEIN (##-#######)</label><input name="employer_fein">
  <label class="field-label">Unemployment ID Number (optional)</label><input name="unemployment_id">
  <label class="field-label">Employer Contact Name &amp; Phone</label><input name="employer_contact">
  <label><input type="checkbox" name="physical_differs" value="1"> Physical address differs from mailing</label>
  <label class="field-label">Employer Physical Street</label><input name="employer_physical_street">
  <label class="field-label">Employer Physical City</label><input name="employer_physical_city">
  <label class="field-label">Employer Physical State</label><input name="employer_physical_state">
  <label class="field-label">Employer Physical ZIP</label><input name="employer_physical_zip">
  <label class="field-label">Insurer Name</label><input name="insurer_name">
  <label class="field-label">Insured Legal Name &amp; FEIN</label><input name="insured_legal_name_fein">
  <label class="field-label">Policy Number</label><input name="policy_number">
  <label class="field-label">Date Insurer Received Notice</label><input type="date" name="date_insurer_received_notice" max="{{.Today}}">
</fieldset>

<fieldset><legend>Claims Admin / CA</legend>
  <label class="field-label">Claims Admin Company Name</label><input name="claims_admin">
  <label class="field-label">CA Address — Street</label><input name="ca_street">
  <label class="field-label">City</label><input name="ca_city">
  <label class="field-label">State</label><input name="ca_state">
  <label class="field-label">ZIP</label><input name="ca_zip">
  <label class="field-label">CA FEIN (##-#######)</label><input name="ca_fein">
  <label class="field-label">CA Claim Number</label><input name="ca_claim_number">
  <label class="field-label">Claim Type Code</label>{{template "select" (sel "claim_type" .ClaimTypes)}}
  <label class="field-label">Type of Loss Code</label>{{template "select" (sel "loss_type" .LossTypes)}}
  <label class="field-label">Late Reason Code</label>{{template "select" (sel "late_reason" .LateReasons)}}
</fieldset>

<fieldset><legend>Attachments &amp; Submission</legend>
  <label class="field-label">Upload Wage Statement (PDF/Excel)</label><input type="file" name="wage_statement" accept=".pdf,.xls,.xlsx">
  <label class="field-label">Upload Additional Docs</label><input type="file" name="documents" multiple accept=".pdf,.jpg,.png,.xls,.xlsx">
  <label class="field-label">Digital Signature (Employer + Physician), PNG</label><input type="file" name="signature" accept=".png">
  {{template "meter" .Status}}
  <button type="submit" hx-post="/claims/submit" hx-target="#result">Submit</button>
  <button type="submit" formaction="/claims/review.pdf" formmethod="post" formtarget="_blank">Review PDF</button>
  <pre id="result"></pre>
</fieldset>
</form>
</body>
</html>{{end}}
`))

// selectData is the argument to the "select" template.
type selectData struct {
	Name    string
	Options []string
}

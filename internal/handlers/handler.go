package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/csg33k/wc-intake/internal/adapters/signature"
	"github.com/csg33k/wc-intake/internal/domain"
	"github.com/csg33k/wc-intake/internal/intake"
	"github.com/csg33k/wc-intake/internal/ports"
	"github.com/csg33k/wc-intake/internal/templates"
)

// DefaultMaxMemory bounds the multipart form held in memory per request.
const DefaultMaxMemory = 32 << 20

type Handler struct {
	engine    *intake.Engine
	sigs      ports.SignatureReader
	files     ports.AttachmentReader
	review    ports.ReviewRenderer
	now       func() time.Time
	maxMemory int64
}

func New(engine *intake.Engine, sigs ports.SignatureReader, files ports.AttachmentReader, review ports.ReviewRenderer) *Handler {
	return &Handler{
		engine:    engine,
		sigs:      sigs,
		files:     files,
		review:    review,
		now:       time.Now,
		maxMemory: DefaultMaxMemory,
	}
}

// WithClock sets the clock used for page bounds and review timestamps.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// WithMaxMemory sets the in-memory multipart limit.
func (h *Handler) WithMaxMemory(n int64) *Handler {
	if n > 0 {
		h.maxMemory = n
	}
	return h
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("POST /claims/evaluate", h.evaluate)
	mux.HandleFunc("POST /claims/submit", h.submit)
	mux.HandleFunc("POST /claims/review.pdf", h.reviewPDF)
	return mux
}

// EvaluationResponse is the JSON form of a draft evaluation.
type EvaluationResponse struct {
	CompletenessPct int                      `json:"completeness_pct"`
	Requirements    intake.RequirementResult `json:"requirements"`
	CanSubmit       bool                     `json:"can_submit"`
	Reasons         []string                 `json:"reasons"`
	Advisories      []string                 `json:"advisories"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	d := &domain.ClaimDraft{OnPremises: "Yes"}
	view := templates.NewFormView(h.now().Format(domain.DateLayout), h.engine.MinAge(), h.status(d))
	render(w, r, templates.Page(view))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

// evaluate re-runs every rule against the posted form. Browsers get the
// meter fragment; clients asking for JSON get an EvaluationResponse.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	d, err := h.parseDraft(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	s := h.status(d)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, EvaluationResponse{
			CompletenessPct: s.Score,
			Requirements:    s.Requirements,
			CanSubmit:       s.CanSubmit,
			Reasons:         s.Reasons,
			Advisories:      nonNil(s.Advisories),
		})
		return
	}
	render(w, r, templates.Meter(s))
}

// SubmissionIDHeader carries the identifier assigned to an accepted claim.
const SubmissionIDHeader = "X-Submission-ID"

// submit builds and returns the payload once every gating check passes.
// A gated draft gets 422 with the blocking reasons.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	d, err := h.parseDraft(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	s := h.status(d)
	if !s.CanSubmit {
		slog.Info("claim submission blocked", "completeness_pct", s.Score, "reasons", len(s.Reasons))
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"reasons": s.Reasons})
			return
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, templates.Rejected(s))
		return
	}
	payload := intake.BuildPayload(d, s.Score)
	id := uuid.New()
	slog.Info("claim submitted",
		"submission_id", id,
		"completeness_pct", payload.CompletenessPct,
		"documents", len(d.Documents),
		"wage_statement", d.WageStatement != nil,
	)
	w.Header().Set(SubmissionIDHeader, id.String())
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) reviewPDF(w http.ResponseWriter, r *http.Request) {
	d, err := h.parseDraft(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	s := h.status(d)
	doc := &domain.ReviewDocument{
		Lines:       h.engine.Review(d),
		Completed:   s.Score,
		Reasons:     s.Reasons,
		Advisories:  s.Advisories,
		Signature:   d.Signature,
		Attachments: attachmentsOf(d),
		GeneratedAt: h.now(),
	}
	var buf bytes.Buffer
	if err := h.review.RenderReview(r.Context(), doc, &buf); err != nil {
		slog.Error("render review pdf", "err", err)
		http.Error(w, err.Error(), 500)
		return
	}
	filename := fmt.Sprintf("claim_review_%s.pdf", h.now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

func (h *Handler) status(d *domain.ClaimDraft) templates.Status {
	ev := h.engine.Evaluate(d)
	ok, reasons := h.engine.CanSubmit(d, d.Signature != nil)
	return templates.Status{
		Score:        ev.Score,
		Checks:       ev.Checks,
		Requirements: ev.Result(),
		CanSubmit:    ok,
		Reasons:      reasons,
		Advisories:   h.engine.Advisories(d),
	}
}

// ── Form parsing ──────────────────────────────────────────────────────────────

// parseDraft reads the posted form into a fresh draft. Field values are
// taken as typed; unparseable dates and times are left unset so the rule
// set reports them rather than the request failing.
func (h *Handler) parseDraft(r *http.Request) (*domain.ClaimDraft, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	d := parseClaimForm(r)
	if err := h.readAttachments(r, d); err != nil {
		return nil, err
	}
	return d, nil
}

func parseClaimForm(r *http.Request) *domain.ClaimDraft {
	address := func(prefix string) domain.Address {
		return domain.Address{
			Street: r.FormValue(prefix + "_street"),
			City:   r.FormValue(prefix + "_city"),
			State:  r.FormValue(prefix + "_state"),
			ZIP:    r.FormValue(prefix + "_zip"),
		}
	}
	date := func(name string) time.Time { return parseDate(r.FormValue(name)) }
	checked := func(name string) bool { return r.FormValue(name) == "1" }

	var tod *domain.TimeOfDay
	if v := r.FormValue("time_of_injury"); v != "" {
		tod, _ = domain.ParseTimeOfDay(v)
	}
	onPremises := r.FormValue("on_premises")
	if onPremises == "" {
		onPremises = "Yes"
	}

	return &domain.ClaimDraft{
		FirstName:     r.FormValue("first_name"),
		MiddleName:    r.FormValue("middle_name"),
		LastName:      r.FormValue("last_name"),
		SSN:           r.FormValue("ssn"),
		DOB:           date("dob"),
		Gender:        r.FormValue("gender"),
		MaritalStatus: r.FormValue("marital_status"),
		Home:          address("home"),
		HomePhone:     r.FormValue("home_phone"),

		DateHired:        date("date_hired"),
		Occupation:       r.FormValue("occupation"),
		OccupationManual: r.FormValue("occupation_manual"),
		Department:       r.FormValue("department"),
		Apprentice:       checked("apprentice"),
		AvgWeeklyWage:    r.FormValue("avg_weekly_wage"),
		WageRateUnit:     r.FormValue("wage_rate_unit"),
		WageRateValue:    parseFloat(r.FormValue("wage_rate_value")),
		HoursPer:         parseFloat(r.FormValue("hours_per")),
		Schedule:         r.FormValue("schedule"),

		DateOfInjury:                 date("date_of_injury"),
		TimeOfInjury:                 tod,
		Description:                  r.FormValue("description"),
		HowOccurred:                  r.FormValue("how_occurred"),
		ToolsSubstances:              r.Form["tools_substances"],
		OnPremises:                   onPremises,
		OccurrenceAddress:            address("occ"),
		Witness:                      r.FormValue("witness"),
		FirstDayLost:                 date("first_day_lost"),
		EmployerPaidLostTime:         r.FormValue("employer_paid_lost_time"),
		DateEmployerNotifiedInjury:   date("date_employer_notified_injury"),
		DateEmployerNotifiedLostTime: date("date_employer_notified_lost_time"),
		ReturnToWork:                 date("return_to_work"),
		RTWSameEmployer:              r.FormValue("rtw_same_employer"),
		RTWRestrictions:              checked("rtw_restrictions"),
		RTWRestrictionsText:          r.FormValue("rtw_restrictions_text"),

		TreatingPhysician: r.FormValue("treating_physician"),
		ExtentOfTreatment: r.Form["extent_of_treatment"],
		DeathResult:       r.FormValue("death_result"),
		ObjectiveFindings: r.FormValue("objective_findings"),
		MedicalDiagnoses:  r.FormValue("medical_diagnoses"),
		ICDCodes:          r.FormValue("icd_codes"),

		EmployerLegal:             r.FormValue("employer_legal"),
		EmployerDBA:               r.FormValue("employer_dba"),
		EmployerMailing:           address("employer_mailing"),
		EmployerFEIN:              r.FormValue("employer_fein"),
		UnemploymentID:            r.FormValue("unemployment_id"),
		EmployerContact:           r.FormValue("employer_contact"),
		PhysicalDiffers:           checked("physical_differs"),
		EmployerPhysical:          address("employer_physical"),
		InsurerName:               r.FormValue("insurer_name"),
		InsuredLegalNameFEIN:      r.FormValue("insured_legal_name_fein"),
		PolicyNumber:              r.FormValue("policy_number"),
		DateInsurerReceivedNotice: date("date_insurer_received_notice"),

		ClaimsAdmin:   r.FormValue("claims_admin"),
		CAAddress:     address("ca"),
		CAFEIN:        r.FormValue("ca_fein"),
		CAClaimNumber: r.FormValue("ca_claim_number"),
		ClaimType:     r.FormValue("claim_type"),
		LossType:      r.FormValue("loss_type"),
		LateReason:    r.FormValue("late_reason"),
	}
}

// readAttachments hands uploaded files to the signature and upload
// collaborators. A blank signature canvas counts as unsigned.
func (h *Handler) readAttachments(r *http.Request, d *domain.ClaimDraft) error {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File

	if fhs := files["signature"]; len(fhs) > 0 {
		data, err := readPart(fhs[0])
		if err != nil {
			return err
		}
		sig, err := h.sigs.Read(data)
		switch {
		case errors.Is(err, signature.ErrBlank):
		case err != nil:
			return fmt.Errorf("signature: %w", err)
		default:
			d.Signature = sig
		}
	}
	if fhs := files["wage_statement"]; len(fhs) > 0 {
		data, err := readPart(fhs[0])
		if err != nil {
			return err
		}
		a, err := h.files.WageStatement(fhs[0].Filename, data)
		if err != nil {
			return fmt.Errorf("wage statement: %w", err)
		}
		d.WageStatement = a
	}
	for _, fh := range files["documents"] {
		data, err := readPart(fh)
		if err != nil {
			return err
		}
		a, err := h.files.Document(fh.Filename, data)
		if err != nil {
			return fmt.Errorf("document: %w", err)
		}
		d.Documents = append(d.Documents, *a)
	}
	return nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", fh.Filename, err)
	}
	return data, nil
}

func attachmentsOf(d *domain.ClaimDraft) []domain.Attachment {
	var out []domain.Attachment
	if d.WageStatement != nil {
		out = append(out, *d.WageStatement)
	}
	return append(out, d.Documents...)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	renderStatus(w, r, http.StatusOK, c)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func parseDate(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

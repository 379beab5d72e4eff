package handlers_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/csg33k/wc-intake/internal/adapters/pdf"
	"github.com/csg33k/wc-intake/internal/adapters/signature"
	"github.com/csg33k/wc-intake/internal/adapters/upload"
	"github.com/csg33k/wc-intake/internal/domain"
	"github.com/csg33k/wc-intake/internal/handlers"
	"github.com/csg33k/wc-intake/internal/intake"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var today = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	clock := func() time.Time { return today }
	engine := intake.New(intake.WithClock(clock))
	h := handlers.New(engine, signature.NewReader(), upload.NewReader(1<<20), pdf.New()).WithClock(clock)
	return h.Routes()
}

// gateFields is the end-to-end draft: every gating field valid, nothing else.
func gateFields() url.Values {
	return url.Values{
		"first_name":         {"Jane"},
		"last_name":          {"Doe"},
		"ssn":                {"123456789"},
		"dob":                {"2008-10-17"},
		"date_of_injury":     {"2026-10-17"},
		"treating_physician": {"Dr. Smith"},
		"employer_legal":     {"Acme Corp"},
		"employer_fein":      {"123456789"},
	}
}

func signedPNG(t *testing.T, ink bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 70, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 70; x++ {
			img.Set(x, y, color.White)
		}
	}
	if ink {
		for x := 5; x < 60; x++ {
			img.Set(x, 10, color.Black)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type file struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields url.Values, files ...file) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write(f.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func formRequest(path string, fields url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestIndex(t *testing.T) {
	rec := serve(newServer(t), httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="employer_fein"`) || !strings.Contains(body, "Completeness: 0%") {
		t.Error("index page missing form or meter")
	}
	if !strings.Contains(body, `max="2026-10-17"`) {
		t.Error("date inputs should be bounded by today")
	}
}

func TestHealthz(t *testing.T) {
	rec := serve(newServer(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestEvaluate_JSON(t *testing.T) {
	h := newServer(t)

	req := formRequest("/claims/evaluate", gateFields())
	req.Header.Set("Accept", "application/json")
	rec := serve(h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got handlers.EvaluationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.CompletenessPct != 50 {
		t.Errorf("completeness_pct: want 50, got %d", got.CompletenessPct)
	}
	if len(got.Requirements) != 14 {
		t.Errorf("requirements: want 14, got %d", len(got.Requirements))
	}
	if got.CanSubmit {
		t.Error("can_submit should be false without a signature")
	}
	if len(got.Reasons) != 1 || got.Reasons[0] != "Digital signature required." {
		t.Errorf("reasons: %q", got.Reasons)
	}

	fields := gateFields()
	fields.Set("on_premises", "No")
	req = formRequest("/claims/evaluate", fields)
	req.Header.Set("Accept", "application/json")
	got = handlers.EvaluationResponse{}
	if err := json.Unmarshal(serve(h, req).Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if sat, ok := got.Requirements["occurrence_address"]; !ok || sat {
		t.Errorf("off premises: occurrence_address present=%v satisfied=%v", ok, sat)
	}
	if got.CompletenessPct != 46 { // floor(700/15)
		t.Errorf("off premises completeness: want 46, got %d", got.CompletenessPct)
	}
}

func TestEvaluate_Fragment(t *testing.T) {
	rec := serve(newServer(t), formRequest("/claims/evaluate", url.Values{"first_name": {"Jane"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, `id="meter"`) || !strings.Contains(body, "Employee full name required.") {
		t.Errorf("fragment: %s", body)
	}
}

func TestSubmit_Success(t *testing.T) {
	req := multipartRequest(t, "/claims/submit", gateFields(),
		file{"signature", "signature.png", signedPNG(t, true)},
		file{"wage_statement", "wages.pdf", []byte("%PDF-1.4\n%%EOF\n")},
	)
	rec := serve(newServer(t), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := uuid.Parse(rec.Header().Get(handlers.SubmissionIDHeader)); err != nil {
		t.Errorf("submission id header: %v", err)
	}
	var p domain.SubmissionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Employee.SSN != "123-45-6789" {
		t.Errorf("employee.ssn: %q", p.Employee.SSN)
	}
	if p.Employer.FEIN != "12-3456789" {
		t.Errorf("employer.fein: %q", p.Employer.FEIN)
	}
	if p.CompletenessPct != 50 {
		t.Errorf("completeness_pct: %d", p.CompletenessPct)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"employee", "employment", "incident", "medical", "employer", "completeness_pct"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("payload missing top-level key %q", key)
		}
	}
	if len(raw) != 6 {
		t.Errorf("payload has %d top-level keys, want 6", len(raw))
	}
}

func TestSubmit_Blocked(t *testing.T) {
	h := newServer(t)

	fields := gateFields()
	fields.Del("last_name")
	req := formRequest("/claims/submit", fields)
	req.Header.Set("Accept", "application/json")
	rec := serve(h, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want 422, got %d", rec.Code)
	}
	if id := rec.Header().Get(handlers.SubmissionIDHeader); id != "" {
		t.Errorf("blocked submission should not be assigned an id, got %q", id)
	}
	var got struct {
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := []string{"Employee full name required.", "Digital signature required."}
	if strings.Join(got.Reasons, "|") != strings.Join(want, "|") {
		t.Errorf("reasons: want %q, got %q", want, got.Reasons)
	}

	// A blank canvas is not a signature.
	req = multipartRequest(t, "/claims/submit", gateFields(), file{"signature", "sig.png", signedPNG(t, false)})
	rec = serve(h, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank signature: want 422, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "NOT SUBMITTED") || !strings.Contains(body, "Digital signature required.") {
		t.Errorf("rejected fragment: %s", body)
	}
}

func TestSubmit_BadUploads(t *testing.T) {
	h := newServer(t)
	cases := []struct {
		name string
		f    file
	}{
		{"wage statement type", file{"wage_statement", "wages.png", signedPNG(t, true)}},
		{"document type", file{"documents", "notes.docx", []byte("PK\x03\x04")}},
		{"signature not png", file{"signature", "sig.png", []byte("GIF89a")}},
		{"renamed wage statement", file{"wage_statement", "wages.pdf", signedPNG(t, true)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := serve(h, multipartRequest(t, "/claims/submit", gateFields(), c.f))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("want 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestReviewPDF(t *testing.T) {
	req := multipartRequest(t, "/claims/review.pdf", gateFields(),
		file{"signature", "signature.png", signedPNG(t, true)},
		file{"documents", "xray.png", signedPNG(t, true)},
		file{"documents", "bill.pdf", []byte("%PDF-1.4\n%%EOF\n")},
	)
	rec := serve(newServer(t), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type: %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "claim_review_20261017.pdf") {
		t.Errorf("content disposition: %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := serve(newServer(t), httptest.NewRequest(http.MethodGet, "/claims/evaluate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on POST route: want 405, got %d", rec.Code)
	}
}

package pdf

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/csg33k/wc-intake/internal/domain"
)

func signaturePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 140, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 140; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < 130; x++ {
		img.Set(x, 20, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var (
	streamRe = regexp.MustCompile(`(?s)>>\s*stream\r?\n(.*?)\r?\nendstream`)
	pageRe   = regexp.MustCompile(`/Type /Page\b`)
)

// contentText inflates every compressed stream in a rendered PDF and joins
// the ones that decode, which includes each page's content stream.
func contentText(t *testing.T, out []byte) string {
	t.Helper()
	var sb strings.Builder
	for _, m := range streamRe.FindAllSubmatch(out, -1) {
		zr, err := zlib.NewReader(bytes.NewReader(m[1]))
		if err != nil {
			continue
		}
		b, _ := io.ReadAll(zr)
		sb.Write(b)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func render(t *testing.T, doc *domain.ReviewDocument) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := New().RenderReview(context.Background(), doc, &buf); err != nil {
		t.Fatalf("RenderReview: %v", err)
	}
	return buf.Bytes()
}

func reviewDoc() *domain.ReviewDocument {
	return &domain.ReviewDocument{
		Lines: []domain.ReviewLine{
			{Label: "Employee", Value: "Jane Doe"},
			{Label: "SSN", Value: "123-45-6789"},
			{Label: "DOB", Value: "1990-03-04 Age OK"},
			{Label: "Completeness", Value: "71%"},
		},
		Completed:   71,
		Advisories:  []string{"Death selected — dependent logic triggered (not expanded here)."},
		GeneratedAt: time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderReview_Unsigned(t *testing.T) {
	doc := reviewDoc()
	doc.Reasons = []string{"Employee must be ≥ 18 years old.", "Digital signature required."}

	var buf bytes.Buffer
	if err := New().RenderReview(context.Background(), doc, &buf); err != nil {
		t.Fatalf("RenderReview: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestRenderReview_WithSignatureAndAttachments(t *testing.T) {
	doc := reviewDoc()
	doc.Signature = &domain.Signature{PNG: signaturePNG(t), Width: 140, Height: 40}
	doc.Attachments = []domain.Attachment{
		{Filename: "wages.pdf", ContentType: "application/pdf", Data: make([]byte, 2048)},
		{Filename: "xray.png", ContentType: "image/png", Data: make([]byte, 3<<20)},
	}

	var unsigned, signed bytes.Buffer
	if err := New().RenderReview(context.Background(), reviewDoc(), &unsigned); err != nil {
		t.Fatal(err)
	}
	if err := New().RenderReview(context.Background(), doc, &signed); err != nil {
		t.Fatalf("RenderReview: %v", err)
	}
	if signed.Len() <= unsigned.Len() {
		t.Errorf("signed PDF (%d bytes) should embed the image and be larger than unsigned (%d bytes)", signed.Len(), unsigned.Len())
	}
}

func TestRenderReview_BadSignature(t *testing.T) {
	doc := reviewDoc()
	doc.Signature = &domain.Signature{PNG: []byte("not a png"), Width: 10, Height: 10}
	if err := New().RenderReview(context.Background(), doc, &bytes.Buffer{}); err == nil {
		t.Error("want an error for an undecodable signature")
	}
}

func TestRenderReview_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().RenderReview(ctx, reviewDoc(), &bytes.Buffer{}); err == nil {
		t.Error("want context error")
	}
}

func TestFitBox(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH float64
		wantW, wantH     float64
	}{
		{800, 200, 170, 25, 100, 25},
		{100, 10, 50, 30, 50, 5},
		{0, 0, 50, 30, 50, 30},
	}
	for _, c := range cases {
		w, h := fitBox(c.w, c.h, c.maxW, c.maxH)
		if w != c.wantW || h != c.wantH {
			t.Errorf("fitBox(%v,%v,%v,%v): want %vx%v, got %vx%v", c.w, c.h, c.maxW, c.maxH, c.wantW, c.wantH, w, h)
		}
	}
}

func TestHumanBytes(t *testing.T) {
	for n, want := range map[int]string{
		12:      "12 B",
		2048:    "2.0 KB",
		3 << 20: "3.0 MB",
	} {
		if got := humanBytes(n); got != want {
			t.Errorf("humanBytes(%d): want %q, got %q", n, want, got)
		}
	}
}

func TestRenderReview_ReasonText(t *testing.T) {
	doc := reviewDoc()
	doc.Reasons = []string{"Employee must be ≥ 18 years old.", "Digital signature required."}

	text := contentText(t, render(t, doc))
	for _, want := range []string{
		"(-  Employee must be >= 18 years old.)Tj",
		"(-  Digital signature required.)Tj",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("page content missing %q", want)
		}
	}
	if strings.Contains(text, "must be . 18") || strings.Contains(text, "must be ? 18") {
		t.Error("reason text was mangled by the font encoding")
	}
}

func TestRenderReview_LongListsFlowAcrossPages(t *testing.T) {
	doc := reviewDoc()
	for i := 0; i < 60; i++ {
		doc.Attachments = append(doc.Attachments, domain.Attachment{
			Filename:    fmt.Sprintf("scan_%02d.pdf", i),
			ContentType: "application/pdf",
			Data:        make([]byte, 1024),
		})
	}
	doc.Reasons = []string{"Treating physician required.", "Digital signature required."}
	doc.Signature = &domain.Signature{PNG: signaturePNG(t), Width: 140, Height: 40}

	out := render(t, doc)
	pages := len(pageRe.FindAll(out, -1))
	if pages < 2 || pages > 3 {
		t.Fatalf("60 attachment rows: want 2 or 3 pages, got %d", pages)
	}
	text := contentText(t, out)
	for n := 1; n <= pages; n++ {
		if want := fmt.Sprintf("Page %d of %d", n, pages); !strings.Contains(text, want) {
			t.Errorf("missing header %q", want)
		}
	}
	for _, want := range []string{"(scan_00.pdf)Tj", "(scan_59.pdf)Tj"} {
		if !strings.Contains(text, want) {
			t.Errorf("page content missing %q", want)
		}
	}
}

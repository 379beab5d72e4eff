// Package pdf renders a printable claim review: the review summary lines,
// the completeness meter, any reasons submission is still blocked, the
// captured signature, and the list of attached files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/wc-intake/internal/domain"
)

// Generator satisfies ports.ReviewRenderer.
type Generator struct {
	Title string
}

func New() *Generator {
	return &Generator{Title: "WORKERS' COMPENSATION CLAIM REVIEW"}
}

// Page geometry, in mm.
const (
	margin     = 18.0
	headerH    = 10.0
	rowH       = 6.0
	bulletH    = 5.5
	sectionGap = 4.0
)

// cp1252 lacks these; spell them out so the core fonts can print them.
var asciiFallback = strings.NewReplacer(
	"≥", ">=",
	"≤", "<=",
	"≠", "!=",
)

// RenderReview writes the review PDF to w. Rows flow onto new pages as
// needed and every page repeats the header bar.
func (g *Generator) RenderReview(ctx context.Context, doc *domain.ReviewDocument, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AliasNbPages("{nb}")
	pdf.SetHeaderFunc(func() { g.header(pdf) })
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(asciiFallback.Replace(s)) }
	if err := g.draw(pdf, text, doc); err != nil {
		return err
	}
	return pdf.Output(w)
}

// header draws the title bar and leaves the cursor below it.
func (g *Generator) header(pdf *fpdf.Fpdf) {
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(margin, margin, contentW, headerH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(margin+2, margin+1.5)
	pdf.CellFormat(contentW-4, 7, g.Title, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(margin+2, margin+1.5)
	pdf.CellFormat(contentW-4, 7, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(margin, margin+headerH+3)
}

func (g *Generator) draw(pdf *fpdf.Fpdf, text func(string) string, doc *domain.ReviewDocument) error {
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	// ── Review summary ───────────────────────────────────────────────────────
	sectionHeader(pdf, contentW, "FINAL REVIEW SUMMARY")
	labelW := contentW * 0.28
	for i, l := range doc.Lines {
		border := rowBorder(i, len(doc.Lines))
		pdf.SetX(margin)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, rowH, text(l.Label), borderLeft(border), 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-labelW, rowH, text(l.Value), borderRight(border), 1, "L", false, 0, "")
	}
	pdf.Ln(sectionGap)

	// ── Completeness meter ───────────────────────────────────────────────────
	sectionHeader(pdf, contentW, "CLAIM COMPLETENESS")
	ensureSpace(pdf, 7)
	y := pdf.GetY()
	barW := contentW - 30
	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(margin+2, y+1.5, barW, 4, "D")
	if pct := clampPct(doc.Completed); pct > 0 {
		pdf.SetFillColor(44, 110, 73)
		pdf.Rect(margin+2, y+1.5, barW*float64(pct)/100, 4, "F")
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetXY(margin+barW+4, y)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(24, 7, fmt.Sprintf("%d%%", doc.Completed), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ── Blocking reasons / advisories ────────────────────────────────────────
	if len(doc.Reasons) > 0 {
		sectionHeader(pdf, contentW, "NOT YET SUBMITTABLE")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(192, 57, 43)
		bullets(pdf, text, contentW, doc.Reasons)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(sectionGap)
	}
	if len(doc.Advisories) > 0 {
		sectionHeader(pdf, contentW, "NOTES")
		pdf.SetFont("Helvetica", "I", 8.5)
		bullets(pdf, text, contentW, doc.Advisories)
		pdf.Ln(sectionGap)
	}

	// ── Attachments ──────────────────────────────────────────────────────────
	sectionHeader(pdf, contentW, "ATTACHMENTS")
	pdf.SetFont("Helvetica", "", 9)
	if len(doc.Attachments) == 0 {
		pdf.SetX(margin)
		pdf.CellFormat(contentW, rowH, "None", "LRB", 1, "L", false, 0, "")
	}
	for i, a := range doc.Attachments {
		border := rowBorder(i, len(doc.Attachments))
		pdf.SetX(margin)
		pdf.CellFormat(contentW*0.6, rowH, text(a.Filename), borderLeft(border), 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, rowH, a.ContentType+"  "+humanBytes(len(a.Data)), borderRight(border), 1, "R", false, 0, "")
	}
	pdf.Ln(sectionGap)

	// ── Signature ────────────────────────────────────────────────────────────
	sectionHeader(pdf, contentW, "DIGITAL SIGNATURE (EMPLOYER + PHYSICIAN)")
	if doc.Signature == nil {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetX(margin)
		pdf.CellFormat(contentW, 8, "Not signed", "LRB", 1, "L", false, 0, "")
	} else {
		const name = "signature"
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(doc.Signature.PNG))
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("register signature image: %w", err)
		}
		w, h := fitBox(float64(doc.Signature.Width), float64(doc.Signature.Height), contentW-4, 30)
		ensureSpace(pdf, h+4)
		y := pdf.GetY()
		pdf.ImageOptions(name, margin+2, y+2, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Rect(margin, y, contentW, h+4, "D")
		pdf.SetY(y + h + 4)
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	ensureSpace(pdf, 5)
	pdf.SetX(margin)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW, 5, "Generated "+doc.GeneratedAt.Format("2006-01-02 15:04 MST")+" by WC Claim Intake", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return pdf.Error()
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func sectionHeader(pdf *fpdf.Fpdf, w float64, title string) {
	// Keep a header on the same page as its first row.
	ensureSpace(pdf, bulletH+rowH)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetX(margin)
	pdf.CellFormat(w, bulletH, title, "LRT", 1, "L", true, 0, "")
}

func bullets(pdf *fpdf.Fpdf, text func(string) string, w float64, items []string) {
	for i, s := range items {
		pdf.SetX(margin)
		pdf.CellFormat(w, bulletH, text("-  "+s), rowBorder(i, len(items)), 1, "L", false, 0, "")
	}
}

// ensureSpace starts a new page when h mm no longer fit above the bottom
// margin. Drawing done with Rect and ImageOptions does not trigger the
// automatic break, so it checks first.
func ensureSpace(pdf *fpdf.Fpdf, h float64) {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h > pageH-margin {
		pdf.AddPage()
	}
}

func rowBorder(i, n int) string {
	if i == n-1 {
		return "LRB"
	}
	return "LR"
}

// borderLeft keeps the left and bottom edges of a row border string.
func borderLeft(b string) string {
	return strings.ReplaceAll(b, "R", "")
}

// borderRight keeps the right and bottom edges of a row border string.
func borderRight(b string) string {
	return strings.ReplaceAll(b, "L", "")
}

// fitBox scales w×h down to fit within maxW×maxH, preserving aspect ratio.
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

func clampPct(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

package intake

import (
	"time"

	"github.com/csg33k/wc-intake/internal/domain"
)

// Advisories returns informational notices about d. They never affect the
// completeness score or the submission gate.
func (e *Engine) Advisories(d *domain.ClaimDraft) []string {
	today := civil(e.now())
	var out []string

	if !d.DateOfInjury.IsZero() && civil(d.DateOfInjury).After(today) {
		out = append(out, "Date of injury is in the future.")
	}
	if !d.DateInsurerReceivedNotice.IsZero() && civil(d.DateInsurerReceivedNotice).After(today) {
		out = append(out, "Date insurer received notice is in the future.")
	}
	if before(d.DateOfInjury, d.DateHired) {
		out = append(out, "Date of injury is before the date hired.")
	}
	if before(d.ReturnToWork, d.DateOfInjury) {
		out = append(out, "Return-to-work date is before the date of injury.")
	}
	if before(d.DateInsurerReceivedNotice, d.DateOfInjury) {
		out = append(out, "Insurer notice date is before the date of injury.")
	}
	if d.OffPremises() {
		out = append(out, "Provide address of injury occurrence (required when off-premises).")
	}
	if d.DeathResult == "Yes" {
		out = append(out, "Death selected — dependent logic triggered (not expanded here).")
	}
	if d.RTWRestrictions && !IsNonEmptyText(d.RTWRestrictionsText) {
		out = append(out, "Return-to-work restrictions selected but not explained.")
	}
	return out
}

// before reports whether a falls on an earlier calendar date than b. Unset
// dates never compare.
func before(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return civil(a).Before(civil(b))
}

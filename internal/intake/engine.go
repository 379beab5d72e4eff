package intake

import (
	"time"

	"github.com/csg33k/wc-intake/internal/domain"
)

// RequirementResult maps each active requirement key to whether it is
// currently satisfied.
type RequirementResult map[string]bool

// Check is one evaluated requirement, kept in rule-set order for display.
type Check struct {
	Key       string
	Satisfied bool
}

// Evaluation is a full pass of the rule set over one draft.
type Evaluation struct {
	Checks []Check
	Score  int
}

// Result converts the ordered checks to a RequirementResult.
func (e Evaluation) Result() RequirementResult {
	out := make(RequirementResult, len(e.Checks))
	for _, c := range e.Checks {
		out[c.Key] = c.Satisfied
	}
	return out
}

// Missing returns the keys of unsatisfied checks, in rule-set order.
func (e Evaluation) Missing() []string {
	var keys []string
	for _, c := range e.Checks {
		if !c.Satisfied {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// Engine evaluates claim drafts. It holds no draft state; the zero value
// is not usable, construct one with New.
type Engine struct {
	now    func() time.Time
	minAge int
}

type Option func(*Engine)

// WithClock overrides the source of "today" used by the age rule.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMinAge overrides the minimum employee age. Values below 1 are ignored.
func WithMinAge(years int) Option {
	return func(e *Engine) {
		if years > 0 {
			e.minAge = years
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now, minAge: MinAge}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MinAge returns the minimum employee age the engine enforces.
func (e *Engine) MinAge() int { return e.minAge }

func (e *Engine) env() Env {
	return Env{Today: e.now(), MinAge: e.minAge}
}

// Evaluate runs every active requirement against d and scores the result.
func (e *Engine) Evaluate(d *domain.ClaimDraft) Evaluation {
	env := e.env()
	var ev Evaluation
	satisfied := 0
	for _, r := range rules {
		if !r.IsActive(d) {
			continue
		}
		ok := r.Satisfied(d, env)
		if ok {
			satisfied++
		}
		ev.Checks = append(ev.Checks, Check{Key: r.Key, Satisfied: ok})
	}
	ev.Score = Percent(satisfied, len(ev.Checks))
	return ev
}

// ActiveRequirements returns the outcome of every requirement active for d.
func (e *Engine) ActiveRequirements(d *domain.ClaimDraft) RequirementResult {
	return e.Evaluate(d).Result()
}

// Score returns the completeness percentage for d.
func (e *Engine) Score(d *domain.ClaimDraft) int {
	return e.Evaluate(d).Score
}

// CanSubmit checks the gating requirements and the signature flag
// independently of the completeness score. Every failed check contributes
// its message, in gate order with the signature last; the list is empty
// exactly when submission is allowed.
func (e *Engine) CanSubmit(d *domain.ClaimDraft, hasSignature bool) (bool, []string) {
	env := e.env()
	reasons := []string{}
	for _, g := range gate {
		if ruleByKey(g.key).Satisfied(d, env) {
			continue
		}
		msg := g.message
		if g.key == KeyDOB {
			msg = ageMessage(env.MinAge)
		}
		reasons = append(reasons, msg)
	}
	if !hasSignature {
		reasons = append(reasons, signatureMessage)
	}
	return len(reasons) == 0, reasons
}

// Percent returns floor(100*satisfied/total), or 0 when total is 0.
func Percent(satisfied, total int) int {
	if total <= 0 {
		return 0
	}
	return 100 * satisfied / total
}

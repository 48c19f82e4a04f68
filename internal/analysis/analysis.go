// Package analysis runs the commit message rule table and aggregates findings.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sprite-ai/commitlint-core/internal/classify"
	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/model"
	"github.com/sprite-ai/commitlint-core/internal/scope"
)

// Finding is a single rule violation.
type Finding struct {
	Severity model.Severity `json:"severity"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Location model.Location `json:"location"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s (%s): %s", f.Severity, f.Code, f.Location, f.Message)
}

// Input is everything the rule table looks at for one commit.
type Input struct {
	Message        commit.Message
	Header         commit.Header
	Classification classify.Result
	Scope          scope.Verdict
	Meta           *model.ChangeMetadata
}

// Options tunes the rule table.
type Options struct {
	// CustomTypes are accepted in addition to the standard types.
	CustomTypes []string
	// RequireIssueRef enables the MISSING_ISSUE_REF rule.
	RequireIssueRef bool
}

// Validator applies the rule table. It holds no mutable state.
type Validator struct {
	types           map[string]bool
	requireIssueRef bool
}

// NewValidator builds a Validator from opts.
func NewValidator(opts Options) *Validator {
	v := &Validator{
		types:           make(map[string]bool),
		requireIssueRef: opts.RequireIssueRef,
	}
	for _, t := range model.StandardTypes() {
		v.types[string(t)] = true
	}
	for _, t := range opts.CustomTypes {
		v.types[t] = true
	}
	return v
}

// AllowedTypes returns the accepted types, standard first, then custom ones sorted.
func (v *Validator) AllowedTypes() []string {
	var custom []string
	for t := range v.types {
		if !model.IsStandardType(t) {
			custom = append(custom, t)
		}
	}
	sort.Strings(custom)
	var out []string
	for _, t := range model.StandardTypes() {
		out = append(out, string(t))
	}
	return append(out, custom...)
}

// Validate runs every rule in order and returns the findings.
// Every rule runs on every call; there is no short-circuit.
func (v *Validator) Validate(in Input) []Finding {
	var findings []Finding
	for _, r := range AllRules() {
		if f, ok := r.Check(v, in); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

// StatusOf derives the overall status: fail on any critical finding,
// warn on any high or medium finding, pass otherwise.
func StatusOf(findings []Finding) model.Status {
	status := model.StatusPass
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityCritical:
			return model.StatusFail
		case model.SeverityHigh, model.SeverityMedium:
			status = model.StatusWarn
		}
	}
	return status
}

// Results holds the findings of one validation run.
type Results struct {
	Findings []Finding
}

// Status returns the overall status of the run.
func (r *Results) Status() model.Status {
	return StatusOf(r.Findings)
}

// BySeverity returns findings at or above the given severity.
func (r *Results) BySeverity(min model.Severity) []Finding {
	var result []Finding
	for _, f := range r.Findings {
		if f.Severity >= min {
			result = append(result, f)
		}
	}
	return result
}

// MaxSeverity returns the highest severity present and false when there are no findings.
func (r *Results) MaxSeverity() (model.Severity, bool) {
	if len(r.Findings) == 0 {
		return model.SeverityLow, false
	}
	max := model.SeverityLow
	for _, f := range r.Findings {
		if f.Severity > max {
			max = f.Severity
		}
	}
	return max, true
}

// Counts returns the number of findings per severity.
func (r *Results) Counts() map[model.Severity]int {
	counts := make(map[model.Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// Summary returns a one-line summary of findings.
func (r *Results) Summary() string {
	if len(r.Findings) == 0 {
		return "No issues found"
	}

	counts := r.Counts()
	var parts []string
	for _, level := range []model.Severity{model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		if c := counts[level]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, level))
		}
	}
	return strings.Join(parts, ", ")
}

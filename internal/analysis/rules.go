package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sprite-ai/commitlint-core/internal/model"
)

// Rule codes.
const (
	CodeMissingType           = "MISSING_TYPE"
	CodeInvalidType           = "INVALID_TYPE"
	CodeHeaderTooLong         = "HEADER_TOO_LONG"
	CodeTrailingPeriod        = "TRAILING_PERIOD"
	CodePastTenseHint         = "PAST_TENSE_HINT"
	CodeUnknownScope          = "UNKNOWN_SCOPE"
	CodeVagueSubject          = "VAGUE_SUBJECT"
	CodeBreakingUndocumented  = "BREAKING_UNDOCUMENTED"
	CodeMultiConcern          = "MULTI_CONCERN"
	CodeMissingBodyForComplex = "MISSING_BODY_FOR_COMPLEX"
	CodeMissingIssueRef       = "MISSING_ISSUE_REF"
)

// Limits used by the rule table.
const (
	headerHardLimit    = 72
	headerSoftLimit    = 50
	minSubjectLength   = 15
	complexLineCount   = 100
	complexFileCount   = 5
	minConcernsToSplit = 2
)

// Rule is one entry of the ordered rule table.
type Rule struct {
	Code  string
	Check func(v *Validator, in Input) (Finding, bool)
}

// AllRules returns the rule table in evaluation order.
func AllRules() []Rule {
	return []Rule{
		{CodeMissingType, checkMissingType},
		{CodeInvalidType, checkInvalidType},
		{CodeHeaderTooLong, checkHeaderLength},
		{CodeTrailingPeriod, checkTrailingPeriod},
		{CodePastTenseHint, checkPastTense},
		{CodeUnknownScope, checkUnknownScope},
		{CodeVagueSubject, checkVagueSubject},
		{CodeBreakingUndocumented, checkBreakingUndocumented},
		{CodeMultiConcern, checkMultiConcern},
		{CodeMissingBodyForComplex, checkMissingBody},
		{CodeMissingIssueRef, checkIssueRef},
	}
}

func suggestion(in Input) string {
	c := in.Classification
	if c.Confidence <= 0 || c.InferredType == model.TypeUnknown {
		return ""
	}
	return fmt.Sprintf(" (changes look like %q: %s)", c.InferredType, c.Rationale)
}

func checkMissingType(_ *Validator, in Input) (Finding, bool) {
	if in.Header.Type != nil {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityCritical,
		Code:     CodeMissingType,
		Message:  "header has no type prefix; expected <type>(<scope>): <subject>" + suggestion(in),
		Location: model.LocationHeader,
	}, true
}

func checkInvalidType(v *Validator, in Input) (Finding, bool) {
	if in.Header.Type == nil || v.types[*in.Header.Type] {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityHigh,
		Code:     CodeInvalidType,
		Message: fmt.Sprintf("type %q is not allowed; use one of %s%s",
			*in.Header.Type, strings.Join(v.AllowedTypes(), ", "), suggestion(in)),
		Location: model.LocationHeader,
	}, true
}

func checkHeaderLength(_ *Validator, in Input) (Finding, bool) {
	n := utf8.RuneCountInString(in.Message.Header())
	switch {
	case n > headerHardLimit:
		return Finding{
			Severity: model.SeverityHigh,
			Code:     CodeHeaderTooLong,
			Message:  fmt.Sprintf("header is %d characters; the limit is %d", n, headerHardLimit),
			Location: model.LocationHeader,
		}, true
	case n > headerSoftLimit:
		return Finding{
			Severity: model.SeverityMedium,
			Code:     CodeHeaderTooLong,
			Message:  fmt.Sprintf("header is %d characters; aim for %d or fewer", n, headerSoftLimit),
			Location: model.LocationHeader,
		}, true
	}
	return Finding{}, false
}

func checkTrailingPeriod(_ *Validator, in Input) (Finding, bool) {
	if !strings.HasSuffix(in.Message.Header(), ".") {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityMedium,
		Code:     CodeTrailingPeriod,
		Message:  "header ends with a period",
		Location: model.LocationHeader,
	}, true
}

var pastTensePattern = regexp.MustCompile(`(?i)^\w+(ed|ing)$`)

// Imperative verbs that happen to end in -ed or -ing.
var imperativeExceptions = map[string]bool{
	"embed": true, "feed": true, "seed": true, "shed": true, "speed": true,
	"proceed": true, "exceed": true, "succeed": true, "need": true, "bed": true,
	"bring": true, "ping": true, "sing": true, "string": true, "ring": true,
	"swing": true, "spring": true, "wing": true, "sling": true,
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimFunc(fields[0], func(r rune) bool {
		return !(r == '_' || r == '-' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
	})
}

func checkPastTense(_ *Validator, in Input) (Finding, bool) {
	w := firstWord(in.Header.Subject)
	if w == "" || !pastTensePattern.MatchString(w) || imperativeExceptions[strings.ToLower(w)] {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityMedium,
		Code:     CodePastTenseHint,
		Message:  fmt.Sprintf("subject starts with %q; use the imperative mood (\"add\", not \"added\" or \"adding\")", w),
		Location: model.LocationHeader,
	}, true
}

func checkUnknownScope(_ *Validator, in Input) (Finding, bool) {
	if in.Scope.IsKnown {
		return Finding{}, false
	}
	declared := ""
	if in.Scope.DeclaredScope != nil {
		declared = *in.Scope.DeclaredScope
	}
	msg := fmt.Sprintf("scope %q is not registered", declared)
	if in.Scope.SuggestedScope != nil {
		msg += fmt.Sprintf("; changed files suggest %q", *in.Scope.SuggestedScope)
	}
	return Finding{
		Severity: model.SeverityMedium,
		Code:     CodeUnknownScope,
		Message:  msg,
		Location: model.LocationHeader,
	}, true
}

var vagueStoplist = map[string]bool{
	"fix bug":   true,
	"update":    true,
	"fix stuff": true,
	"wip":       true,
}

func checkVagueSubject(_ *Validator, in Input) (Finding, bool) {
	subject := strings.TrimSpace(in.Header.Subject)
	if utf8.RuneCountInString(subject) >= minSubjectLength && !vagueStoplist[strings.ToLower(subject)] {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityHigh,
		Code:     CodeVagueSubject,
		Message:  fmt.Sprintf("subject %q is too vague; say what changed and where", subject),
		Location: model.LocationHeader,
	}, true
}

var (
	removalPattern = regexp.MustCompile(`(?i)^(remove|removes|drop|drops|delete|deletes|rename|renames)\b.*\b(api|apis|endpoints?|options?|flags?|fields?|params?|parameters?|methods?|functions?|commands?|support|columns?|tables?|config|configuration|settings?|interfaces?|types?|exports?|routes?|arguments?|env|variables?)\b`)
	breakingWord   = regexp.MustCompile(`(?i)\bbreaking\b`)
)

func impliesBreaking(subject string) bool {
	return removalPattern.MatchString(strings.TrimSpace(subject)) || breakingWord.MatchString(subject)
}

func checkBreakingUndocumented(_ *Validator, in Input) (Finding, bool) {
	if in.Message.HasBreakingFooter() {
		return Finding{}, false
	}
	var msg string
	switch {
	case in.Header.BreakingMarker:
		msg = "header is marked breaking with '!' but there is no BREAKING CHANGE footer"
	case impliesBreaking(in.Header.Subject):
		msg = "subject implies a removal or rename but there is no BREAKING CHANGE footer"
	default:
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityCritical,
		Code:     CodeBreakingUndocumented,
		Message:  msg,
		Location: model.LocationFooter,
	}, true
}

var clauseSeparator = regexp.MustCompile(`\s+and\s+|,\s+`)

var commonVerbs = map[string]bool{
	"add": true, "fix": true, "remove": true, "update": true, "refactor": true,
	"implement": true, "change": true, "improve": true, "rename": true, "move": true,
	"delete": true, "drop": true, "bump": true, "support": true, "introduce": true,
	"allow": true, "handle": true, "document": true, "clean": true, "replace": true,
	"extract": true, "split": true, "merge": true, "revert": true, "upgrade": true,
	"downgrade": true, "enable": true, "disable": true, "optimize": true, "simplify": true,
	"create": true, "correct": true, "prevent": true, "use": true, "make": true,
	"expose": true, "tweak": true, "rewrite": true, "migrate": true, "deprecate": true,
	"restore": true, "ensure": true, "validate": true, "test": true, "adjust": true,
}

func concernCount(subject string) int {
	n := 0
	for _, clause := range clauseSeparator.Split(subject, -1) {
		if commonVerbs[strings.ToLower(firstWord(clause))] {
			n++
		}
	}
	return n
}

func checkMultiConcern(_ *Validator, in Input) (Finding, bool) {
	if concernCount(in.Header.Subject) < minConcernsToSplit {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityLow,
		Code:     CodeMultiConcern,
		Message:  "subject appears to combine several changes; consider splitting the commit",
		Location: model.LocationHeader,
	}, true
}

func checkMissingBody(_ *Validator, in Input) (Finding, bool) {
	m := in.Meta
	if m == nil || in.Message.HasBody() {
		return Finding{}, false
	}
	if m.TotalLines() <= complexLineCount && len(m.FilesChanged) <= complexFileCount {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityMedium,
		Code:     CodeMissingBodyForComplex,
		Message: fmt.Sprintf("change touches %d file(s) and %d line(s) but the body is empty; explain what changed and why",
			len(m.FilesChanged), m.TotalLines()),
		Location: model.LocationBody,
	}, true
}

var (
	issueRefPattern = regexp.MustCompile(`#\d+\b|\b[A-Z][A-Z0-9]+-\d+\b`)
	issueFooterKeys = map[string]bool{
		"closes": true, "close": true, "closed": true,
		"fixes": true, "fix": true, "fixed": true,
		"resolves": true, "resolve": true, "resolved": true,
		"refs": true, "references": true, "issue": true, "related": true,
	}
)

func hasIssueRef(in Input) bool {
	for _, f := range in.Message.Footers() {
		if issueFooterKeys[strings.ToLower(f.Key)] || issueRefPattern.MatchString(f.Value) {
			return true
		}
	}
	return issueRefPattern.MatchString(in.Message.Header()) || issueRefPattern.MatchString(in.Message.Body())
}

func checkIssueRef(v *Validator, in Input) (Finding, bool) {
	if !v.requireIssueRef || hasIssueRef(in) {
		return Finding{}, false
	}
	return Finding{
		Severity: model.SeverityLow,
		Code:     CodeMissingIssueRef,
		Message:  "no issue reference found; add a footer such as \"Closes #123\"",
		Location: model.LocationFooter,
	}, true
}

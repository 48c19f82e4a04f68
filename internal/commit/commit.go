// Package commit parses raw commit messages into header, body and footers.
package commit

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode identifies why a message could not be parsed.
type ErrorCode string

const (
	ErrEmptyHeader ErrorCode = "EMPTY_HEADER"
)

// ParseError is returned when a raw message cannot be turned into a CommitMessage.
type ParseError struct {
	Code ErrorCode
}

func (e *ParseError) Error() string {
	switch e.Code {
	case ErrEmptyHeader:
		return "parse commit message: empty header"
	default:
		return fmt.Sprintf("parse commit message: %s", e.Code)
	}
}

// BreakingChangeKey is the footer key that documents a breaking change.
const BreakingChangeKey = "BREAKING CHANGE"

// FooterEntry is a single trailing key/value line.
type FooterEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Message is an immutable, parsed commit message.
type Message struct {
	header  string
	body    string
	footers []FooterEntry
}

// Header returns the first line of the message.
func (m Message) Header() string { return m.header }

// Body returns the free-form text between header and footers, or "" when absent.
func (m Message) Body() string { return m.body }

// HasBody reports whether the message has a non-blank body.
func (m Message) HasBody() bool { return strings.TrimSpace(m.body) != "" }

// Footers returns a copy of the footer entries in message order.
func (m Message) Footers() []FooterEntry {
	if len(m.footers) == 0 {
		return nil
	}
	out := make([]FooterEntry, len(m.footers))
	copy(out, m.footers)
	return out
}

// Footer returns the values of every footer with the given key, in order.
func (m Message) Footer(key string) []string {
	var values []string
	for _, f := range m.footers {
		if f.Key == key {
			values = append(values, f.Value)
		}
	}
	return values
}

// HasBreakingFooter reports whether a BREAKING CHANGE (or BREAKING-CHANGE) footer is present.
func (m Message) HasBreakingFooter() bool {
	for _, f := range m.footers {
		if f.Key == BreakingChangeKey || f.Key == "BREAKING-CHANGE" {
			return true
		}
	}
	return false
}

// String renders the message in canonical form: header, blank line, body, blank line, footers.
func (m Message) String() string {
	var b strings.Builder
	b.WriteString(m.header)
	if m.body != "" {
		b.WriteString("\n\n")
		b.WriteString(m.body)
	}
	if len(m.footers) > 0 {
		b.WriteString("\n\n")
		for i, f := range m.footers {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(formatFooter(f))
		}
	}
	return b.String()
}

func formatFooter(f FooterEntry) string {
	if f.Key != BreakingChangeKey && issueRefValue.MatchString(f.Value) {
		return f.Key + " " + f.Value
	}
	return f.Key + ": " + f.Value
}

var (
	footerTokenPattern = regexp.MustCompile(`^([A-Za-z-]+): (.+)$`)
	footerIssuePattern = regexp.MustCompile(`^([A-Za-z-]+) (#\d+)$`)
	issueRefValue      = regexp.MustCompile(`^#\d+$`)
)

// parseFooterLine returns the footer entry for line, or false if line is not a footer.
func parseFooterLine(line string) (FooterEntry, bool) {
	if rest, ok := strings.CutPrefix(line, BreakingChangeKey+": "); ok {
		return FooterEntry{Key: BreakingChangeKey, Value: rest}, true
	}
	if m := footerTokenPattern.FindStringSubmatch(line); m != nil {
		return FooterEntry{Key: m[1], Value: m[2]}, true
	}
	if m := footerIssuePattern.FindStringSubmatch(line); m != nil {
		return FooterEntry{Key: m[1], Value: m[2]}, true
	}
	return FooterEntry{}, false
}

// Cleanup selects how lines starting with '#' are treated.
type Cleanup int

const (
	// CleanupVerbatim keeps every line.
	CleanupVerbatim Cleanup = iota
	// CleanupStrip drops '#' lines as git does for COMMIT_EDITMSG.
	CleanupStrip
)

func (c Cleanup) String() string {
	switch c {
	case CleanupStrip:
		return "strip"
	default:
		return "verbatim"
	}
}

// ParseCleanup accepts "verbatim" or "strip".
func ParseCleanup(s string) (Cleanup, error) {
	switch s {
	case "verbatim", "":
		return CleanupVerbatim, nil
	case "strip":
		return CleanupStrip, nil
	default:
		return 0, fmt.Errorf("unknown cleanup mode %q (want verbatim or strip)", s)
	}
}

// ParseOptions configures ParseWith.
type ParseOptions struct {
	Cleanup Cleanup
}

// Parse splits raw into header, body and footers, keeping every line.
func Parse(raw string) (Message, error) {
	return ParseWith(raw, ParseOptions{})
}

// ParseWith splits raw into header, body and footers.
//
// With CleanupStrip, lines beginning with '#' are dropped first.
// The footer block is the trailing run of footer lines in the last paragraph;
// the first non-footer line found while scanning backward ends it.
func ParseWith(raw string, opts ParseOptions) (Message, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if opts.Cleanup == CleanupStrip && strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}

	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return Message{}, &ParseError{Code: ErrEmptyHeader}
	}

	msg := Message{header: strings.TrimSpace(lines[0])}

	rest := trimBlankEdges(lines[1:])
	if len(rest) == 0 {
		return msg, nil
	}

	// The footer block can only live in the last paragraph.
	lastStart := 0
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] == "" {
			lastStart = i + 1
			break
		}
	}

	footerStart := len(rest)
	var footers []FooterEntry
	for i := len(rest) - 1; i >= lastStart; i-- {
		entry, ok := parseFooterLine(rest[i])
		if !ok {
			break
		}
		footers = append(footers, entry)
		footerStart = i
	}
	for i, j := 0, len(footers)-1; i < j; i, j = i+1, j-1 {
		footers[i], footers[j] = footers[j], footers[i]
	}

	msg.footers = footers
	msg.body = strings.Join(trimBlankEdges(rest[:footerStart]), "\n")
	return msg, nil
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

package commit

import "regexp"

var headerPattern = regexp.MustCompile(`^(\w+)(\(([^)]+)\))?(!)?:\s*(.+)$`)

// Header is the structural breakdown of a commit header line.
// Type and Scope are nil when the header does not follow the conventional form.
type Header struct {
	Type           *string `json:"type"`
	Scope          *string `json:"scope"`
	Subject        string  `json:"subject"`
	BreakingMarker bool    `json:"breaking_marker"`
}

// Structured reports whether the header matched the conventional form.
func (h Header) Structured() bool { return h.Type != nil }

// TypeName returns the declared type or "".
func (h Header) TypeName() string {
	if h.Type == nil {
		return ""
	}
	return *h.Type
}

// ScopeName returns the declared scope or "".
func (h Header) ScopeName() string {
	if h.Scope == nil {
		return ""
	}
	return *h.Scope
}

// ParseHeader extracts type, scope, breaking marker and subject from a header line.
// A header that does not match is returned unstructured with Subject set to the full text.
func ParseHeader(header string) Header {
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return Header{Subject: header}
	}
	h := Header{
		Type:           ptr(m[1]),
		Subject:        m[5],
		BreakingMarker: m[4] == "!",
	}
	if m[2] != "" {
		h.Scope = ptr(m[3])
	}
	return h
}

func ptr(s string) *string { return &s }

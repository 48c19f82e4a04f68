// Package model defines the core data types shared across commitlint-core.
package model

import (
	"fmt"
	"path"
	"strings"
)

// Severity ranks a finding. Higher values are more severe.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity converts a severity name into a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", name)
	}
}

// Location identifies the part of a commit message a finding refers to.
type Location int

const (
	LocationHeader Location = iota
	LocationBody
	LocationFooter
)

func (l Location) String() string {
	switch l {
	case LocationHeader:
		return "header"
	case LocationBody:
		return "body"
	case LocationFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Location) UnmarshalText(b []byte) error {
	switch string(b) {
	case "header":
		*l = LocationHeader
	case "body":
		*l = LocationBody
	case "footer":
		*l = LocationFooter
	default:
		return fmt.Errorf("unknown location %q", string(b))
	}
	return nil
}

// Status is the overall verdict of a validation run.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pass":
		*s = StatusPass
	case "warn":
		*s = StatusWarn
	case "fail":
		*s = StatusFail
	default:
		return fmt.Errorf("unknown status %q", string(b))
	}
	return nil
}

// CommitType is a Conventional Commits type.
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeDocs     CommitType = "docs"
	TypeStyle    CommitType = "style"
	TypeRefactor CommitType = "refactor"
	TypePerf     CommitType = "perf"
	TypeTest     CommitType = "test"
	TypeBuild    CommitType = "build"
	TypeCI       CommitType = "ci"
	TypeChore    CommitType = "chore"
	TypeRevert   CommitType = "revert"
	TypeUnknown  CommitType = "unknown"
)

// StandardTypes lists the eleven standard commit types in canonical order.
func StandardTypes() []CommitType {
	return []CommitType{
		TypeFeat, TypeFix, TypeDocs, TypeStyle, TypeRefactor, TypePerf,
		TypeTest, TypeBuild, TypeCI, TypeChore, TypeRevert,
	}
}

// IsStandardType reports whether name is one of the standard types.
// Matching is case-sensitive.
func IsStandardType(name string) bool {
	for _, t := range StandardTypes() {
		if string(t) == name {
			return true
		}
	}
	return false
}

// ChangeMetadata describes the change a commit message belongs to.
// It is supplied by the caller and never computed from a repository.
type ChangeMetadata struct {
	FilesChanged     []string `json:"filesChanged" yaml:"filesChanged"`
	LinesAdded       int      `json:"linesAdded" yaml:"linesAdded"`
	LinesDeleted     int      `json:"linesDeleted" yaml:"linesDeleted"`
	TestFilesTouched bool     `json:"testFilesTouched" yaml:"testFilesTouched"`

	// SymbolsRemoved counts function definitions deleted by the change.
	// Zero when unknown.
	SymbolsRemoved int `json:"symbolsRemoved,omitempty" yaml:"symbolsRemoved,omitempty"`
}

// CleanPath normalises a changed-file path for glob matching: forward
// slashes, no leading "./", no doubled or trailing separators.
func CleanPath(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// TotalLines returns added plus deleted lines.
func (m *ChangeMetadata) TotalLines() int {
	if m == nil {
		return 0
	}
	return m.LinesAdded + m.LinesDeleted
}

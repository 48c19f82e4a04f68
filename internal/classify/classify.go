// Package classify infers a commit type from a parsed header and optional change metadata.
package classify

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/model"
)

// Metadata-derived guesses never claim more than this.
const heuristicConfidence = 0.5

// Result is the outcome of classifying one commit.
type Result struct {
	InferredType model.CommitType `json:"inferred_type"`
	Confidence   float64          `json:"confidence"`
	Rationale    string           `json:"rationale"`
}

// Rule is one step of the classification decision list.
type Rule struct {
	Name  string
	Match func(h commit.Header, meta *model.ChangeMetadata) (Result, bool)
}

// Path classes used by the metadata rules.
var (
	testGlobs = []string{
		"**/*_test.go",
		"**/*_test.py",
		"**/test_*.py",
		"**/*.test.*",
		"**/*.spec.*",
		"**/*_spec.rb",
		"**/*Test.java",
		"**/test/**",
		"**/tests/**",
		"**/__tests__/**",
		"**/testdata/**",
	}

	docGlobs = []string{
		"**/*.md",
		"**/*.markdown",
		"**/*.rst",
		"**/*.adoc",
		"**/docs/**",
		"**/doc/**",
	}

	manifestGlobs = []string{
		"**/go.mod",
		"**/go.sum",
		"**/package.json",
		"**/package-lock.json",
		"**/npm-shrinkwrap.json",
		"**/yarn.lock",
		"**/pnpm-lock.yaml",
		"**/Cargo.toml",
		"**/Cargo.lock",
		"**/Gemfile",
		"**/Gemfile.lock",
		"**/pyproject.toml",
		"**/poetry.lock",
		"**/requirements*.txt",
		"**/Pipfile",
		"**/Pipfile.lock",
		"**/composer.json",
		"**/composer.lock",
		"**/pom.xml",
		"**/build.gradle",
		"**/build.gradle.kts",
		"**/gradle.lockfile",
		"**/mix.exs",
		"**/mix.lock",
	}

	ciGlobs = []string{
		".github/workflows/**",
		".gitlab-ci.yml",
		".gitlab/ci/**",
		".circleci/**",
		".buildkite/**",
		".travis.yml",
		"azure-pipelines.yml",
		"Jenkinsfile",
	}
)

// Rules returns the ordered decision list. The first rule that matches wins.
func Rules() []Rule {
	return []Rule{
		{Name: "explicit", Match: explicitType},
		{Name: "tests", Match: allFiles(testGlobs, model.TypeTest, "all changed files are tests")},
		{Name: "tests-flag", Match: testFlagOnly},
		{Name: "docs", Match: allFiles(docGlobs, model.TypeDocs, "only documentation changed")},
		{Name: "manifests", Match: allFiles(manifestGlobs, model.TypeBuild, "only dependency manifests or lockfiles changed")},
		{Name: "ci", Match: allFiles(ciGlobs, model.TypeCI, "only CI configuration changed")},
		{Name: "additive", Match: additiveChange},
	}
}

var rules = Rules()

// Classify runs the decision list and returns the first match,
// or an unknown result with zero confidence.
func Classify(h commit.Header, meta *model.ChangeMetadata) Result {
	for _, r := range rules {
		if res, ok := r.Match(h, meta); ok {
			return res
		}
	}
	return Result{
		InferredType: model.TypeUnknown,
		Confidence:   0,
		Rationale:    "no explicit type and no metadata signal",
	}
}

func explicitType(h commit.Header, _ *model.ChangeMetadata) (Result, bool) {
	if h.Type == nil || !model.IsStandardType(*h.Type) {
		return Result{}, false
	}
	return Result{
		InferredType: model.CommitType(*h.Type),
		Confidence:   1.0,
		Rationale:    "explicit type",
	}, true
}

func allFiles(globs []string, typ model.CommitType, rationale string) func(commit.Header, *model.ChangeMetadata) (Result, bool) {
	return func(_ commit.Header, meta *model.ChangeMetadata) (Result, bool) {
		if meta == nil || len(meta.FilesChanged) == 0 {
			return Result{}, false
		}
		for _, f := range meta.FilesChanged {
			if !MatchAny(globs, f) {
				return Result{}, false
			}
		}
		return Result{InferredType: typ, Confidence: heuristicConfidence, Rationale: rationale}, true
	}
}

func testFlagOnly(_ commit.Header, meta *model.ChangeMetadata) (Result, bool) {
	if meta == nil || len(meta.FilesChanged) > 0 || !meta.TestFilesTouched {
		return Result{}, false
	}
	return Result{
		InferredType: model.TypeTest,
		Confidence:   heuristicConfidence,
		Rationale:    "metadata reports only test files touched",
	}, true
}

func additiveChange(_ commit.Header, meta *model.ChangeMetadata) (Result, bool) {
	if meta == nil || meta.LinesAdded == 0 || meta.LinesDeleted != 0 || meta.SymbolsRemoved > 0 {
		return Result{}, false
	}
	return Result{
		InferredType: model.TypeFeat,
		Confidence:   heuristicConfidence,
		Rationale:    "only additions; leaning feat over fix",
	}, true
}

// IsTestPath reports whether p looks like a test file or lives in a test directory.
func IsTestPath(p string) bool {
	return MatchAny(testGlobs, p)
}

// MatchAny reports whether p matches any of the doublestar patterns.
// Invalid patterns never match.
func MatchAny(globs []string, p string) bool {
	p = model.CleanPath(p)
	for _, g := range globs {
		if ok, err := doublestar.Match(g, p); err == nil && ok {
			return true
		}
	}
	return false
}

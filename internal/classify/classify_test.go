package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/model"
)

func TestClassifyExplicitType(t *testing.T) {
	meta := &model.ChangeMetadata{FilesChanged: []string{"README.md"}}
	got := Classify(commit.ParseHeader("fix(auth): reject expired tokens"), meta)

	want := Result{InferredType: model.TypeFix, Confidence: 1.0, Rationale: "explicit type"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyHeuristics(t *testing.T) {
	tests := []struct {
		name   string
		header string
		meta   *model.ChangeMetadata
		want   model.CommitType
		conf   float64
	}{
		{
			name:   "tests only",
			header: "cover the retry path",
			meta:   &model.ChangeMetadata{FilesChanged: []string{"internal/retry/retry_test.go", "test/fixtures/a.json"}, LinesAdded: 40},
			want:   model.TypeTest, conf: 0.5,
		},
		{
			name:   "test flag without file list",
			header: "more cases",
			meta:   &model.ChangeMetadata{TestFilesTouched: true, LinesAdded: 10},
			want:   model.TypeTest, conf: 0.5,
		},
		{
			name:   "docs only",
			header: "explain setup",
			meta:   &model.ChangeMetadata{FilesChanged: []string{"README.md", "docs/install.txt"}, LinesAdded: 3, LinesDeleted: 1},
			want:   model.TypeDocs, conf: 0.5,
		},
		{
			name:   "lockfiles only",
			header: "bump",
			meta:   &model.ChangeMetadata{FilesChanged: []string{"go.mod", "go.sum"}, LinesAdded: 2, LinesDeleted: 2},
			want:   model.TypeBuild, conf: 0.5,
		},
		{
			name:   "ci only",
			header: "speed up pipeline",
			meta:   &model.ChangeMetadata{FilesChanged: []string{".github/workflows/ci.yml"}, LinesAdded: 5, LinesDeleted: 5},
			want:   model.TypeCI, conf: 0.5,
		},
		{
			name:   "pure additions lean feat",
			header: "new exporter",
			meta:   &model.ChangeMetadata{FilesChanged: []string{"internal/export/csv.go"}, LinesAdded: 80},
			want:   model.TypeFeat, conf: 0.5,
		},
		{
			name:   "additions that removed symbols do not lean feat",
			header: "rework exporter",
			meta:   &model.ChangeMetadata{FilesChanged: []string{"internal/export/csv.go"}, LinesAdded: 80, SymbolsRemoved: 1},
			want:   model.TypeUnknown, conf: 0,
		},
		{
			name:   "mixed change is unknown",
			header: "stuff",
			meta:   &model.ChangeMetadata{FilesChanged: []string{"main.go", "README.md"}, LinesAdded: 4, LinesDeleted: 2},
			want:   model.TypeUnknown, conf: 0,
		},
		{
			name:   "custom type falls through to metadata",
			header: "wip(core): sketch",
			meta:   &model.ChangeMetadata{FilesChanged: []string{"docs/arch.md"}, LinesAdded: 4},
			want:   model.TypeDocs, conf: 0.5,
		},
		{
			name:   "no metadata",
			header: "fix stuff",
			meta:   nil,
			want:   model.TypeUnknown, conf: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(commit.ParseHeader(tt.header), tt.meta)
			if got.InferredType != tt.want {
				t.Errorf("type = %s, want %s (%s)", got.InferredType, tt.want, got.Rationale)
			}
			if got.Confidence != tt.conf {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.conf)
			}
			if got.InferredType != model.TypeUnknown && got.Rationale != "explicit type" && got.Confidence > 0.5 {
				t.Errorf("metadata inference must stay advisory, got %v", got.Confidence)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	h := commit.ParseHeader("tidy up")
	meta := &model.ChangeMetadata{FilesChanged: []string{"a.go", "b_test.go"}, LinesAdded: 9}

	first := Classify(h, meta)
	for i := 0; i < 50; i++ {
		if diff := cmp.Diff(first, Classify(h, meta)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestRulesOrder(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	want := []string{"explicit", "tests", "tests-flag", "docs", "manifests", "ci", "additive"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestIsTestPath(t *testing.T) {
	for _, p := range []string{"pkg/a_test.go", "tests/unit/x.py", "web/src/__tests__/App.tsx", "src/app.spec.ts", "./internal/x/testdata/in.txt"} {
		if !IsTestPath(p) {
			t.Errorf("expected %q to be a test path", p)
		}
	}
	for _, p := range []string{"main.go", "internal/testing.go", "latest/notes.go"} {
		if IsTestPath(p) {
			t.Errorf("expected %q not to be a test path", p)
		}
	}
}

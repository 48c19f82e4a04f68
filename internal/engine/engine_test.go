package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sprite-ai/commitlint-core/internal/analysis"
	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/model"
	"github.com/sprite-ai/commitlint-core/internal/scope"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testEngine(opts Options) *Engine {
	if opts.Registry == nil {
		opts.Registry = scope.MustNewRegistry([]scope.Entry{
			{Scope: "ui", Globs: []string{"web/**"}},
			{Scope: "api", Globs: []string{"internal/api/**"}},
			{Scope: "db", Globs: []string{"migrations/**"}},
		})
	}
	return New(opts)
}

func codes(r *Result) []string {
	var out []string
	for _, f := range r.Report.Findings {
		out = append(out, f.Code)
	}
	return out
}

func TestAnalyze(t *testing.T) {
	e := testEngine(Options{})

	res, err := e.Analyze("feat(api): add pagination to list endpoints", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPass, res.Report.Status)
	assert.Empty(t, res.Report.Findings)
	assert.Equal(t, model.TypeFeat, res.Classification.InferredType)
	assert.True(t, res.Scope.IsKnown)
	assert.Nil(t, res.Report.GeneratedAt)
}

func TestAnalyzeUnknownScopeSuggestion(t *testing.T) {
	e := testEngine(Options{})
	meta := &model.ChangeMetadata{FilesChanged: []string{"web/a.ts", "web/b.ts", "internal/api/c.go"}}

	res, err := e.Analyze("feat(ux): tweak", meta)
	require.NoError(t, err)
	require.NotNil(t, res.Scope.SuggestedScope)
	assert.Equal(t, "ui", *res.Scope.SuggestedScope)
	assert.Equal(t, []string{analysis.CodeUnknownScope, analysis.CodeVagueSubject}, codes(res))
	assert.Equal(t, model.StatusWarn, res.Report.Status)
}

func TestAnalyzeParseError(t *testing.T) {
	_, err := testEngine(Options{}).Analyze("\n\nbody only", nil)
	var pe *commit.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, commit.ErrEmptyHeader, pe.Code)
}

func TestAnalyzeClock(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	e := testEngine(Options{Clock: func() time.Time { return at }})

	res, err := e.Analyze("docs: describe the release process", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Report.GeneratedAt)
	assert.True(t, at.Equal(*res.Report.GeneratedAt))
	assert.Equal(t, time.UTC, res.Report.GeneratedAt.Location())
}

func TestAnalyzeValidatorOptions(t *testing.T) {
	e := testEngine(Options{Validator: analysis.Options{CustomTypes: []string{"release"}, RequireIssueRef: true}})

	res, err := e.Analyze("release: publish version 1.4.0 artifacts", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{analysis.CodeMissingIssueRef}, codes(res))
	assert.Contains(t, e.AllowedTypes(), "release")
}

func TestView(t *testing.T) {
	res, err := testEngine(Options{}).Analyze("fix(db): handle null emails\n\nLegacy rows lack it.\n\nRefs: #7", nil)
	require.NoError(t, err)

	v := res.View()
	assert.Equal(t, "fix(db): handle null emails", v.Header)
	assert.Equal(t, "Legacy rows lack it.", v.Body)
	assert.Equal(t, []commit.FooterEntry{{Key: "Refs", Value: "#7"}}, v.Footers)
	assert.Equal(t, "db", *v.ParsedHeader.Scope)

	bare, err := testEngine(Options{}).Analyze("chore: tidy the makefile targets", nil)
	require.NoError(t, err)
	assert.NotNil(t, bare.View().Footers)
}

func TestBatchPreservesOrderAndIsolatesErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := testEngine(Options{Workers: 3, Logger: zap.New(core)})

	var items []Item
	for i := 0; i < 40; i++ {
		msg := fmt.Sprintf("fix(api): handle timeout case number %d", i)
		if i%10 == 3 {
			msg = "   "
		}
		items = append(items, Item{ID: fmt.Sprintf("c%02d", i), Message: msg})
	}

	entries := e.Batch(context.Background(), items)
	require.Len(t, entries, len(items))
	for i, en := range entries {
		assert.Equal(t, items[i].ID, en.ID)
		if i%10 == 3 {
			assert.Error(t, en.Err, "entry %d", i)
			assert.Nil(t, en.Result)
			continue
		}
		require.NoError(t, en.Err, "entry %d", i)
		assert.Equal(t, fmt.Sprintf("fix(api): handle timeout case number %d", i), en.Result.Message.Header())
	}

	assert.Equal(t, 1, logs.FilterMessage("batch complete").Len())
	assert.Equal(t, 4, logs.FilterMessage("batch item failed").Len())
}

func TestBatchMatchesSequential(t *testing.T) {
	e := testEngine(Options{Workers: 8})
	items := []Item{
		{ID: "a", Message: "fix stuff"},
		{ID: "b", Message: "feat(auth): add OAuth2 login"},
		{ID: "c", Message: "refactor(api)!: change endpoint structure"},
		{ID: "d", Message: "feat(db): add index", Meta: &model.ChangeMetadata{FilesChanged: []string{"migrations/1.sql"}, LinesAdded: 120}},
	}

	entries := e.Batch(context.Background(), items)
	for i, it := range items {
		want, err := e.Analyze(it.Message, it.Meta)
		require.NoError(t, err)
		assert.Equal(t, want.Report, entries[i].Result.Report, "item %s", it.ID)
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []Item{{ID: "a", Message: "fix: one"}, {ID: "b", Message: "fix: two"}}
	entries := testEngine(Options{Workers: 1}).Batch(ctx, items)
	for _, en := range entries {
		assert.ErrorIs(t, en.Err, context.Canceled)
		assert.Nil(t, en.Result)
	}
}

func TestBatchEmpty(t *testing.T) {
	assert.Empty(t, testEngine(Options{}).Batch(context.Background(), nil))
}

func TestReports(t *testing.T) {
	e := testEngine(Options{})
	entries := e.Batch(context.Background(), []Item{
		{ID: "ok", Message: "docs: explain the scope registry format"},
		{ID: "bad", Message: ""},
	})

	out := Reports(entries)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].Report)
	assert.Equal(t, model.StatusPass, out[0].Status())
	assert.Error(t, out[1].Err)
	assert.Equal(t, model.StatusFail, out[1].Status())
}

func TestNewDefaults(t *testing.T) {
	e := New(Options{})
	assert.Equal(t, 0, e.Registry().Len())
	assert.Equal(t, defaultWorkers, e.workers)

	res, err := e.Analyze("feat(anything): add a brand new widget", nil)
	require.NoError(t, err)
	assert.True(t, res.Scope.IsKnown)
}

func TestAnalyzeCleanup(t *testing.T) {
	res, err := testEngine(Options{}).Analyze("#123 fix login handler crash", nil)
	require.NoError(t, err)
	assert.Equal(t, "#123 fix login handler crash", res.Message.Header())
	assert.Contains(t, codes(res), analysis.CodeMissingType)

	raw := "# Please enter the commit message\nfeat(ui): add dark mode toggle\n# Lines starting with '#' will be ignored"
	strip := testEngine(Options{Cleanup: commit.CleanupStrip})
	res, err = strip.Analyze(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "feat(ui): add dark mode toggle", res.Message.Header())
	assert.Equal(t, model.StatusPass, res.Report.Status)

	_, err = strip.Analyze("# only comments\n", nil)
	var pe *commit.ParseError
	assert.True(t, errors.As(err, &pe))
}

// Package engine wires the parser, classifier, scope resolver, validator and
// report into one pipeline.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/commitlint-core/internal/analysis"
	"github.com/sprite-ai/commitlint-core/internal/classify"
	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/model"
	"github.com/sprite-ai/commitlint-core/internal/report"
	"github.com/sprite-ai/commitlint-core/internal/scope"
)

const defaultWorkers = 4

// Options configures an Engine.
type Options struct {
	Registry  *scope.Registry
	Validator analysis.Options
	// Workers bounds Batch concurrency. Zero or less uses a small default.
	Workers int
	Logger  *zap.Logger
	// Clock stamps reports with GeneratedAt. Nil leaves it unset.
	Clock func() time.Time
	// Cleanup controls '#' line handling. The zero value keeps every line.
	Cleanup commit.Cleanup
}

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	registry  *scope.Registry
	validator *analysis.Validator
	workers   int
	logger    *zap.Logger
	clock     func() time.Time
	parse     commit.ParseOptions
}

// New builds an Engine from opts.
func New(opts Options) *Engine {
	e := &Engine{
		registry:  opts.Registry,
		validator: analysis.NewValidator(opts.Validator),
		workers:   opts.Workers,
		logger:    opts.Logger,
		clock:     opts.Clock,
		parse:     commit.ParseOptions{Cleanup: opts.Cleanup},
	}
	if e.registry == nil {
		e.registry = scope.MustNewRegistry(nil)
	}
	if e.workers <= 0 {
		e.workers = defaultWorkers
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Registry returns the scope registry the engine resolves against.
func (e *Engine) Registry() *scope.Registry { return e.registry }

// AllowedTypes returns the commit types the validator accepts.
func (e *Engine) AllowedTypes() []string { return e.validator.AllowedTypes() }

// Result is the outcome of analysing one message.
type Result struct {
	Message        commit.Message
	Header         commit.Header
	Classification classify.Result
	Scope          scope.Verdict
	Report         report.Report
}

// View is the JSON shape of a parsed message without its findings.
type View struct {
	Header         string               `json:"header"`
	Body           string               `json:"body"`
	Footers        []commit.FooterEntry `json:"footers"`
	ParsedHeader   commit.Header        `json:"parsed_header"`
	Classification classify.Result      `json:"classification"`
	Scope          scope.Verdict        `json:"scope"`
}

// View returns the parse, classification and scope outcome.
func (r *Result) View() View {
	footers := r.Message.Footers()
	if footers == nil {
		footers = []commit.FooterEntry{}
	}
	return View{
		Header:         r.Message.Header(),
		Body:           r.Message.Body(),
		Footers:        footers,
		ParsedHeader:   r.Header,
		Classification: r.Classification,
		Scope:          r.Scope,
	}
}

// Analyze runs one message through the whole pipeline.
// It fails only when the message cannot be parsed.
func (e *Engine) Analyze(raw string, meta *model.ChangeMetadata) (*Result, error) {
	msg, err := commit.ParseWith(raw, e.parse)
	if err != nil {
		return nil, err
	}

	h := commit.ParseHeader(msg.Header())
	res := &Result{
		Message:        msg,
		Header:         h,
		Classification: classify.Classify(h, meta),
		Scope:          scope.Resolve(h.Scope, meta, e.registry),
	}

	findings := e.validator.Validate(analysis.Input{
		Message:        msg,
		Header:         h,
		Classification: res.Classification,
		Scope:          res.Scope,
		Meta:           meta,
	})
	res.Report = report.New(findings)
	if e.clock != nil {
		at := e.clock().UTC()
		res.Report.GeneratedAt = &at
	}

	e.logger.Debug("analyzed commit message",
		zap.String("header", msg.Header()),
		zap.Stringer("status", res.Report.Status),
		zap.Int("findings", len(findings)),
	)
	return res, nil
}

// Item is one message of a batch.
type Item struct {
	ID      string                `json:"id" yaml:"id"`
	Message string                `json:"message" yaml:"message"`
	Meta    *model.ChangeMetadata `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Entry is the outcome for one Item. Exactly one of Result and Err is set.
type Entry struct {
	ID     string
	Result *Result
	Err    error
}

// Batch analyses items concurrently with at most Workers in flight.
// Entries come back in input order. A parse error only affects its own
// entry; items not started before ctx is cancelled carry ctx.Err().
func (e *Engine) Batch(ctx context.Context, items []Item) []Entry {
	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i].ID = it.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range items {
		if err := gctx.Err(); err != nil {
			entries[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				entries[i].Err = err
				return nil
			}
			res, err := e.Analyze(items[i].Message, items[i].Meta)
			if err != nil {
				e.logger.Debug("batch item failed", zap.String("id", items[i].ID), zap.Error(err))
				entries[i].Err = err
				return nil
			}
			entries[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info("batch complete",
		zap.Int("items", len(items)),
		zap.Int("workers", e.workers),
	)
	return entries
}

// Reports converts batch entries for the report package.
func Reports(entries []Entry) []report.BatchEntry {
	out := make([]report.BatchEntry, len(entries))
	for i, en := range entries {
		out[i] = report.BatchEntry{ID: en.ID, Err: en.Err}
		if en.Result != nil {
			r := en.Result.Report
			out[i].Report = &r
		}
	}
	return out
}

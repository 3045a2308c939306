package redline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/engine"
	"github.com/colonyops/redline/internal/core/ingest"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/validate"
)

// ErrUnknownSuggestion is returned when a decision targets an id that does
// not resolve to a suggestion in the document.
var ErrUnknownSuggestion = errors.New("unknown suggestion")

// Source locates the files a document is loaded from.
type Source struct {
	AnalysisPath string // analyzer response JSON
	TextPath     string // optional base text overriding raw_content
}

// Document is a loaded analysis plus the decisions bound to it.
type Document struct {
	Source    Source
	Analysis  review.Analysis
	Rejected  []ingest.RejectedRisk
	Decisions *decision.Store

	// Reset is true when saved decisions existed but were recorded against
	// different content and had to be discarded.
	Reset bool

	session review.Session
}

// SessionID returns the persisted session id, or "" before the first save.
func (d *Document) SessionID() string {
	return d.session.ID
}

// ReviewService loads documents, applies decisions, and persists them.
type ReviewService struct {
	store       review.Store
	engine      *engine.Engine
	transformer *ingest.Transformer
	opts        engine.Options
	log         zerolog.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	store review.Store,
	eng *engine.Engine,
	transformer *ingest.Transformer,
	opts engine.Options,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		store:       store,
		engine:      eng,
		transformer: transformer,
		opts:        opts,
		log:         log,
	}
}

// Options returns the engine options used for recomputation.
func (s *ReviewService) Options() engine.Options {
	return s.opts
}

// Load reads and converts an analyzer response, then restores any decisions
// previously saved for it.
func (s *ReviewService) Load(ctx context.Context, src Source) (*Document, error) {
	analysis, rejected, err := s.Analyze(src)
	if err != nil {
		return nil, err
	}

	doc, err := s.Open(ctx, analysis)
	if err != nil {
		return nil, err
	}
	doc.Source = src
	doc.Rejected = rejected
	return doc, nil
}

// Analyze reads and converts an analyzer response without touching stored
// decisions.
func (s *ReviewService) Analyze(src Source) (review.Analysis, []ingest.RejectedRisk, error) {
	data, err := os.ReadFile(src.AnalysisPath)
	if err != nil {
		return review.Analysis{}, nil, fmt.Errorf("read analysis: %w", err)
	}

	var resp ingest.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return review.Analysis{}, nil, fmt.Errorf("parse analysis %s: %w", src.AnalysisPath, err)
	}

	var fallback string
	if src.TextPath != "" {
		text, err := os.ReadFile(src.TextPath)
		if err != nil {
			return review.Analysis{}, nil, fmt.Errorf("read base text: %w", err)
		}
		fallback = string(text)
	}

	analysis, rejected, err := s.Convert(resp, fallback)
	if err != nil {
		return review.Analysis{}, nil, fmt.Errorf("convert analysis %s: %w", src.AnalysisPath, err)
	}
	return analysis, rejected, nil
}

// Convert turns an analyzer response into an Analysis. fallbackContent,
// when non-empty, replaces the response's raw_content.
func (s *ReviewService) Convert(resp ingest.Response, fallbackContent string) (review.Analysis, []ingest.RejectedRisk, error) {
	analysis, rejected, err := s.transformer.Transform(resp, fallbackContent)
	if err != nil {
		return review.Analysis{}, nil, err
	}
	if err := validate.DocumentIDField("uuid", analysis.DocumentID); err != nil {
		return review.Analysis{}, nil, err
	}
	return analysis, rejected, nil
}

// Detached wraps an analysis and decisions in a Document that is never
// persisted.
func Detached(analysis review.Analysis, decisions decision.Set) *Document {
	return &Document{
		Analysis:  analysis,
		Decisions: decision.Restore(analysis.DocumentID, review.ContentHash(analysis.BaseText), decisions),
	}
}

// Open binds an analysis to its saved decisions. Decisions recorded against
// different content are discarded.
func (s *ReviewService) Open(ctx context.Context, analysis review.Analysis) (*Document, error) {
	hash := review.ContentHash(analysis.BaseText)
	doc := &Document{Analysis: analysis}

	session, err := s.store.GetSession(ctx, analysis.DocumentID)
	switch {
	case errors.Is(err, review.ErrSessionNotFound):
		doc.Decisions = decision.NewStore()
		doc.Decisions.Bind(analysis.DocumentID, hash)
	case err != nil:
		return nil, fmt.Errorf("load decisions: %w", err)
	case session.Matches(analysis.DocumentID, hash):
		doc.session = session
		doc.Decisions = decision.Restore(analysis.DocumentID, hash, session.Decisions)
	default:
		doc.session = session
		doc.Reset = len(session.Decisions) > 0
		doc.Decisions = decision.NewStore()
		doc.Decisions.Bind(analysis.DocumentID, hash)
		s.log.Info().
			Str("document_id", analysis.DocumentID).
			Int("discarded", len(session.Decisions)).
			Msg("document content changed, saved decisions discarded")
	}

	return doc, nil
}

// Reload replaces the document's analysis, for example after the analysis
// file changed on disk. Decisions survive only if the content is unchanged.
func (s *ReviewService) Reload(doc *Document) error {
	analysis, rejected, err := s.Analyze(doc.Source)
	if err != nil {
		return err
	}

	reset := doc.Decisions.Bind(analysis.DocumentID, review.ContentHash(analysis.BaseText))
	if analysis.DocumentID != doc.Analysis.DocumentID {
		doc.session = review.Session{}
	}

	doc.Analysis = analysis
	doc.Rejected = rejected
	doc.Reset = reset

	s.log.Debug().
		Str("document_id", analysis.DocumentID).
		Bool("reset", reset).
		Msg("analysis reloaded")
	return nil
}

// Recompute derives the current view of the document.
func (s *ReviewService) Recompute(doc *Document) engine.DerivedState {
	return s.engine.Recompute(engine.Input{
		Analysis:  doc.Analysis,
		Decisions: doc.Decisions.Snapshot(),
		Options:   s.opts,
	})
}

// RecomputeManual derives the view for hand-edited text.
func (s *ReviewService) RecomputeManual(doc *Document, edited string) engine.DerivedState {
	return s.engine.RecomputeManual(doc.Analysis, edited, s.opts)
}

// ResolveSuggestion maps a suggestion, edit, or risk id to the suggestion
// id decisions are keyed by.
func (s *ReviewService) ResolveSuggestion(doc *Document, id string) (string, error) {
	if _, ok := doc.Analysis.Suggestion(id); ok {
		return id, nil
	}
	if r, ok := doc.Analysis.ResolveRisk(id); ok {
		if _, ok := doc.Analysis.Suggestion(r.SuggestionID()); ok {
			return r.SuggestionID(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSuggestion, id)
}

// Decide sets the decision for id and saves the document.
func (s *ReviewService) Decide(ctx context.Context, doc *Document, id string, to decision.Decision) (decision.Change, error) {
	return s.mutate(ctx, doc, id, func(sid string) (decision.Change, error) {
		return doc.Decisions.Set(sid, to)
	})
}

// Toggle applies accept/reject button semantics to id and saves the
// document. Selecting the current verdict again clears it.
func (s *ReviewService) Toggle(ctx context.Context, doc *Document, id string, target decision.Decision) (decision.Change, error) {
	return s.mutate(ctx, doc, id, func(sid string) (decision.Change, error) {
		return doc.Decisions.Toggle(sid, target)
	})
}

func (s *ReviewService) mutate(ctx context.Context, doc *Document, id string, fn func(string) (decision.Change, error)) (decision.Change, error) {
	sid, err := s.ResolveSuggestion(doc, id)
	if err != nil {
		return decision.Change{}, err
	}

	change, err := fn(sid)
	if err != nil {
		return decision.Change{}, err
	}

	s.log.Debug().
		Str("document_id", doc.Analysis.DocumentID).
		Str("suggestion_id", sid).
		Str("from", string(change.From)).
		Str("to", string(change.To)).
		Bool("project", change.Project).
		Msg("decision changed")

	if !change.Changed {
		return change, nil
	}
	return change, s.Save(ctx, doc)
}

// Save persists the document's decisions.
func (s *ReviewService) Save(ctx context.Context, doc *Document) error {
	session := doc.session
	session.DocumentID = doc.Decisions.DocumentID()
	session.ContentHash = doc.Decisions.ContentHash()
	session.Decisions = doc.Decisions.Snapshot()

	if err := s.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("save decisions: %w", err)
	}

	saved, err := s.store.GetSession(ctx, session.DocumentID)
	if err != nil {
		return fmt.Errorf("reload decisions: %w", err)
	}
	doc.session = saved
	return nil
}

// Discard clears every decision for the document and removes the saved
// session.
func (s *ReviewService) Discard(ctx context.Context, doc *Document) error {
	doc.Decisions.Discard()
	doc.session = review.Session{}

	err := s.store.DeleteSession(ctx, doc.Analysis.DocumentID)
	if err != nil && !errors.Is(err, review.ErrSessionNotFound) {
		return fmt.Errorf("discard decisions: %w", err)
	}

	s.log.Info().Str("document_id", doc.Analysis.DocumentID).Msg("decisions discarded")
	return nil
}

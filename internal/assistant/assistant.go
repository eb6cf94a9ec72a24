// Package assistant drafts invoice notes and financial insights with a
// generative model, falling back to deterministic output when the model is
// unconfigured or unreachable. Callers always get a usable result; the
// Degraded flag tells them which path produced it.
package assistant

import (
	"context"

	"adbill/internal/core"
	"adbill/internal/log"
)

// Canned notes used when the model yields nothing or is unavailable.
const (
	emptyNotesFallback = "Thank you for your business. Please settle ad spend reimbursements promptly."
	errorNotesFallback = "Thank you for choosing our advertising services."
)

// Insight is one observation about the book of business plus a suggested
// next step.
type Insight struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
}

// NotesResult carries drafted invoice notes. Degraded means the text came
// from a canned fallback rather than the model.
type NotesResult struct {
	Notes    string `json:"notes"`
	Degraded bool   `json:"degraded"`
}

// AnalysisResult carries financial insights. Degraded means the rule-based
// engine produced them rather than the model.
type AnalysisResult struct {
	Insights []Insight `json:"insights"`
	Degraded bool      `json:"degraded"`
}

// Generator produces model-backed content. Implemented by Gemini; faked in
// tests.
type Generator interface {
	GenerateNotes(ctx context.Context, campaignContext string) (string, error)
	GenerateInsights(ctx context.Context, invoices []core.Invoice) ([]Insight, error)
}

// Service fronts a Generator with fallbacks. A nil Generator is valid and
// means every call degrades immediately.
type Service struct {
	gen    Generator
	logger *log.Logger
}

func NewService(gen Generator, logger *log.Logger) *Service {
	return &Service{gen: gen, logger: logger.WithComponent(log.ComponentAssistant)}
}

// Notes drafts a professional invoice notes section for the given campaign
// context.
func (s *Service) Notes(ctx context.Context, campaignContext string) NotesResult {
	if s.gen == nil {
		return NotesResult{Notes: errorNotesFallback, Degraded: true}
	}
	text, err := s.gen.GenerateNotes(ctx, campaignContext)
	if err != nil {
		s.logger.Warn("notes generation failed, using fallback", "error", err)
		return NotesResult{Notes: errorNotesFallback, Degraded: true}
	}
	if text == "" {
		return NotesResult{Notes: emptyNotesFallback}
	}
	return NotesResult{Notes: text}
}

// Analyze produces insights on margin, ad-spend-to-fee ratio and revenue for
// the given invoices.
func (s *Service) Analyze(ctx context.Context, invoices []core.Invoice) AnalysisResult {
	if s.gen == nil {
		return AnalysisResult{Insights: ruleBasedInsights(invoices), Degraded: true}
	}
	insights, err := s.gen.GenerateInsights(ctx, invoices)
	if err != nil {
		s.logger.Warn("insight generation failed, using rule-based fallback", "error", err)
		return AnalysisResult{Insights: ruleBasedInsights(invoices), Degraded: true}
	}
	if len(insights) == 0 {
		return AnalysisResult{Insights: ruleBasedInsights(invoices), Degraded: true}
	}
	return AnalysisResult{Insights: insights}
}

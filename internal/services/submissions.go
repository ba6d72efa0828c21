package services

import (
	"context"
	"sync"
	"time"

	"github.com/Conceptual-Machines/moviepicks/internal/logger"
	"github.com/Conceptual-Machines/moviepicks/internal/metrics"
	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
)

const (
	// maxTrackedForms bounds the confirmation cache; oldest forms are evicted first
	maxTrackedForms = 1024
)

// SubmissionRecorder receives submission counters (CloudWatch in production)
type SubmissionRecorder interface {
	RecordSubmission(genreCount int, hasMood, hasKeywords bool)
}

// SubmissionService handles accepted preference submissions for all form instances.
// It tracks which forms have a submit request in flight and remembers the latest value
// per form so the confirmation can be rendered. Nothing is persisted.
type SubmissionService struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	last     map[string]preferences.SessionPreferences
	order    []string
	maxForms int

	recorder      SubmissionRecorder
	sentryMetrics *metrics.SentryMetrics
}

func NewSubmissionService(recorder SubmissionRecorder) *SubmissionService {
	return &SubmissionService{
		inFlight:      make(map[string]struct{}),
		last:          make(map[string]preferences.SessionPreferences),
		maxForms:      maxTrackedForms,
		recorder:      recorder,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

// Handler returns the submission handler bound to one form instance
func (s *SubmissionService) Handler(ctx context.Context, formID string) preferences.SubmitFunc {
	return func(prefs preferences.SessionPreferences) {
		start := time.Now()
		hasMood := prefs.Mood != ""
		hasKeywords := prefs.Keywords != ""

		s.remember(formID, prefs)

		if s.recorder != nil {
			s.recorder.RecordSubmission(len(prefs.Genres), hasMood, hasKeywords)
		}
		s.sentryMetrics.RecordSubmission(ctx, len(prefs.Genres), hasMood, hasKeywords)

		logger.LogSubmission(ctx, formID, len(prefs.Genres), time.Since(start), logger.Fields{
			"genres":       prefs.Genres,
			"has_mood":     hasMood,
			"has_keywords": hasKeywords,
		})
	}
}

// TryBegin marks a submit request for formID as in flight. It returns false, and marks
// nothing, when one already is. Every successful TryBegin must be paired with End.
func (s *SubmissionService) TryBegin(formID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[formID]; busy {
		return false
	}
	s.inFlight[formID] = struct{}{}
	return true
}

// End clears the in-flight mark set by TryBegin
func (s *SubmissionService) End(formID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, formID)
}

// Busy reports whether a submit request for formID is in flight
func (s *SubmissionService) Busy(formID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[formID]
	return busy
}

// Last returns the latest accepted submission for formID
func (s *SubmissionService) Last(formID string) (preferences.SessionPreferences, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, ok := s.last[formID]
	if !ok {
		return preferences.SessionPreferences{}, false
	}
	return copyPreferences(prefs), true
}

// Forget drops everything remembered for formID
func (s *SubmissionService) Forget(formID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.last[formID]; !ok {
		return
	}
	delete(s.last, formID)
	for i, id := range s.order {
		if id == formID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SubmissionService) remember(formID string, prefs preferences.SessionPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.last[formID]; !exists {
		s.order = append(s.order, formID)
	}
	s.last[formID] = copyPreferences(prefs)

	for len(s.order) > s.maxForms {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.last, oldest)
	}
}

func copyPreferences(p preferences.SessionPreferences) preferences.SessionPreferences {
	genres := make([]string, len(p.Genres))
	copy(genres, p.Genres)
	return preferences.SessionPreferences{Genres: genres, Mood: p.Mood, Keywords: p.Keywords}
}

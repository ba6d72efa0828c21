package services

import (
	"sync"

	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
)

// FormStore keeps the interaction state of every live form instance in memory, keyed by
// form id. The browser only carries the id, so mood and keywords are not size-limited
// by the cookie. Nothing is persisted; the oldest forms are evicted beyond the cap.
type FormStore struct {
	mu       sync.Mutex
	forms    map[string]*formEntry
	order    []string
	maxForms int
}

type formEntry struct {
	mu    sync.Mutex
	state preferences.SelectionState
}

func NewFormStore() *FormStore {
	return &FormStore{
		forms:    make(map[string]*formEntry),
		maxForms: maxTrackedForms,
	}
}

// Update runs fn on the stored state of formID and stores what it returns.
// An unknown form starts empty. Updates to the same form are serialized.
func (s *FormStore) Update(formID string, fn func(preferences.SelectionState) preferences.SelectionState) preferences.SelectionState {
	entry := s.entry(formID)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state = copyState(fn(copyState(entry.state)))
	return copyState(entry.state)
}

// Get returns the stored state of formID
func (s *FormStore) Get(formID string) (preferences.SelectionState, bool) {
	s.mu.Lock()
	entry, ok := s.forms[formID]
	s.mu.Unlock()
	if !ok {
		return preferences.SelectionState{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return copyState(entry.state), true
}

// Forget drops the state of formID
func (s *FormStore) Forget(formID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[formID]; !ok {
		return
	}
	delete(s.forms, formID)
	for i, id := range s.order {
		if id == formID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of live forms
func (s *FormStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

func (s *FormStore) entry(formID string) *formEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.forms[formID]; ok {
		return entry
	}
	entry := &formEntry{state: preferences.SelectionState{Genres: []string{}}}
	s.forms[formID] = entry
	s.order = append(s.order, formID)

	for len(s.order) > s.maxForms {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.forms, oldest)
	}
	return entry
}

func copyState(st preferences.SelectionState) preferences.SelectionState {
	genres := make([]string, len(st.Genres))
	copy(genres, st.Genres)
	return preferences.SelectionState{Genres: genres, Mood: st.Mood, Keywords: st.Keywords}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSubmission struct {
	genreCount  int
	hasMood     bool
	hasKeywords bool
}

type fakeRecorder struct {
	calls []recordedSubmission
}

func (f *fakeRecorder) RecordSubmission(genreCount int, hasMood, hasKeywords bool) {
	f.calls = append(f.calls, recordedSubmission{genreCount, hasMood, hasKeywords})
}

func TestHandlerRemembersAndRecords(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewSubmissionService(rec)

	c := preferences.New(svc.Handler(context.Background(), "form-1"))
	c.ToggleGenre("Action")
	c.SetMood("light-hearted comedy")
	c.SetKeywords("space exploration")
	require.True(t, c.Trigger(svc.Busy("form-1")))

	got, ok := svc.Last("form-1")
	require.True(t, ok)
	assert.Equal(t, preferences.SessionPreferences{
		Genres:   []string{"Action"},
		Mood:     "light-hearted comedy",
		Keywords: "space exploration",
	}, got)
	assert.Equal(t, []recordedSubmission{{1, true, true}}, rec.calls)
	assert.False(t, svc.Busy("form-1"))
}

func TestHandlerAcceptsEmptySubmission(t *testing.T) {
	svc := NewSubmissionService(nil)
	preferences.New(svc.Handler(context.Background(), "form-1")).Submit()

	got, ok := svc.Last("form-1")
	require.True(t, ok)
	assert.Empty(t, got.Genres)
	assert.Equal(t, "", got.Mood)
}

func TestTryBeginIsExclusivePerForm(t *testing.T) {
	svc := NewSubmissionService(nil)

	require.True(t, svc.TryBegin("form-1"))
	assert.True(t, svc.Busy("form-1"))
	assert.False(t, svc.TryBegin("form-1"))
	assert.True(t, svc.TryBegin("form-2"), "other forms are not blocked")

	// The trigger ignores an activation while the form is in flight
	calls := 0
	c := preferences.New(func(preferences.SessionPreferences) { calls++ })
	assert.False(t, c.Trigger(!svc.TryBegin("form-1")))
	assert.Equal(t, 0, calls)

	svc.End("form-1")
	assert.False(t, svc.Busy("form-1"))
	assert.True(t, svc.TryBegin("form-1"))
	svc.End("form-1")
	svc.End("form-2")
}

func TestTryBeginConcurrent(t *testing.T) {
	svc := NewSubmissionService(nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.TryBegin("form-1") {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
}

func TestHandlerDoesNotMarkBusy(t *testing.T) {
	svc := NewSubmissionService(nil)
	handler := svc.Handler(context.Background(), "form-1")

	var busyInside bool
	c := preferences.New(func(p preferences.SessionPreferences) {
		handler(p)
		busyInside = svc.Busy("form-1")
	})
	c.Submit()

	assert.False(t, busyInside)
}

func TestLastReturnsCopy(t *testing.T) {
	svc := NewSubmissionService(nil)
	c := preferences.New(svc.Handler(context.Background(), "form-1"))
	c.ToggleGenre("Drama")
	c.Submit()

	got, _ := svc.Last("form-1")
	got.Genres[0] = "mutated"

	again, _ := svc.Last("form-1")
	assert.Equal(t, []string{"Drama"}, again.Genres)
}

func TestEvictsOldestForms(t *testing.T) {
	svc := NewSubmissionService(nil)
	svc.maxForms = 3

	for i := 0; i < 5; i++ {
		preferences.New(svc.Handler(context.Background(), fmt.Sprintf("form-%d", i))).Submit()
	}

	_, ok := svc.Last("form-0")
	assert.False(t, ok)
	_, ok = svc.Last("form-1")
	assert.False(t, ok)
	_, ok = svc.Last("form-4")
	assert.True(t, ok)
	assert.Len(t, svc.order, 3)
}

func TestForget(t *testing.T) {
	svc := NewSubmissionService(nil)
	preferences.New(svc.Handler(context.Background(), "form-1")).Submit()

	svc.Forget("form-1")
	svc.Forget("unknown")

	_, ok := svc.Last("form-1")
	assert.False(t, ok)
	assert.Empty(t, svc.order)
}

package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormStoreUnknownFormStartsEmpty(t *testing.T) {
	store := NewFormStore()

	_, ok := store.Get("form-1")
	assert.False(t, ok)

	st := store.Update("form-1", func(st preferences.SelectionState) preferences.SelectionState {
		assert.Empty(t, st.Genres)
		assert.Equal(t, "", st.Mood)
		return st
	})
	assert.NotNil(t, st.Genres)
	assert.Equal(t, 1, store.Len())
}

func TestFormStoreKeepsLongText(t *testing.T) {
	store := NewFormStore()
	mood := strings.Repeat("a mind-bending thriller ", 1000)

	store.Update("form-1", func(st preferences.SelectionState) preferences.SelectionState {
		st.Mood = mood
		st.Genres = append(st.Genres, "Thriller")
		return st
	})

	got, ok := store.Get("form-1")
	require.True(t, ok)
	assert.Equal(t, mood, got.Mood)
	assert.Equal(t, []string{"Thriller"}, got.Genres)
}

func TestFormStoreReturnsCopies(t *testing.T) {
	store := NewFormStore()
	st := store.Update("form-1", func(st preferences.SelectionState) preferences.SelectionState {
		st.Genres = append(st.Genres, "Drama")
		return st
	})
	st.Genres[0] = "mutated"

	got, _ := store.Get("form-1")
	assert.Equal(t, []string{"Drama"}, got.Genres)
}

func TestFormStoreSerializesUpdates(t *testing.T) {
	store := NewFormStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("form-1", func(st preferences.SelectionState) preferences.SelectionState {
				st.Keywords += "x"
				return st
			})
		}()
	}
	wg.Wait()

	got, _ := store.Get("form-1")
	assert.Len(t, got.Keywords, 100)
}

func TestFormStoreEvictsOldest(t *testing.T) {
	store := NewFormStore()
	store.maxForms = 3

	for i := 0; i < 5; i++ {
		store.Update(fmt.Sprintf("form-%d", i), func(st preferences.SelectionState) preferences.SelectionState {
			return st
		})
	}

	_, ok := store.Get("form-0")
	assert.False(t, ok)
	_, ok = store.Get("form-4")
	assert.True(t, ok)
	assert.Equal(t, 3, store.Len())
}

func TestFormStoreForget(t *testing.T) {
	store := NewFormStore()
	store.Update("form-1", func(st preferences.SelectionState) preferences.SelectionState { return st })

	store.Forget("form-1")
	store.Forget("unknown")

	_, ok := store.Get("form-1")
	assert.False(t, ok)
	assert.Empty(t, store.order)
}

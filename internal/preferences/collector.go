package preferences

// MaxGenres is the selection cap: at most this many genres can be selected at once.
const MaxGenres = 5

// SessionPreferences is the value produced by a submission.
type SessionPreferences struct {
	Genres   []string `json:"genres"`
	Mood     string   `json:"mood"`
	Keywords string   `json:"keywords"`
}

// SelectionState is the interaction state owned by a Collector.
// Genres keeps selection order and never holds more than MaxGenres entries.
type SelectionState struct {
	Genres   []string `json:"genres"`
	Mood     string   `json:"mood"`
	Keywords string   `json:"keywords"`
}

// SubmitFunc receives each accepted submission.
type SubmitFunc func(SessionPreferences)

// Collector manages the preference form state for a single form instance.
// It is not safe for concurrent use.
type Collector struct {
	state    SelectionState
	onSubmit SubmitFunc
}

// New creates a collector with an empty selection and empty text buffers.
func New(onSubmit SubmitFunc) *Collector {
	return &Collector{
		state:    SelectionState{Genres: []string{}},
		onSubmit: onSubmit,
	}
}

// Restore rebuilds a collector from a captured state.
// Genres are replayed through ToggleGenre, so duplicates are dropped and the cap holds
// even for state that did not come from a Collector.
func Restore(st SelectionState, onSubmit SubmitFunc) *Collector {
	c := New(onSubmit)
	for _, g := range st.Genres {
		if !c.IsSelected(g) {
			c.ToggleGenre(g)
		}
	}
	c.state.Mood = st.Mood
	c.state.Keywords = st.Keywords
	return c
}

// ToggleGenre removes the genre if selected, otherwise appends it while below the cap.
// Adding past the cap is a no-op. Catalog membership is not checked.
func (c *Collector) ToggleGenre(name string) {
	if i := c.indexOf(name); i >= 0 {
		c.state.Genres = append(c.state.Genres[:i:i], c.state.Genres[i+1:]...)
		return
	}
	if len(c.state.Genres) >= MaxGenres {
		return
	}
	c.state.Genres = append(c.state.Genres, name)
}

// SetMood replaces the mood text.
func (c *Collector) SetMood(text string) {
	c.state.Mood = text
}

// SetKeywords replaces the keywords text.
func (c *Collector) SetKeywords(text string) {
	c.state.Keywords = text
}

// Submit hands the current preferences to the submission handler once.
// State is left as is.
func (c *Collector) Submit() {
	prefs := SessionPreferences{
		Genres:   c.SelectedGenres(),
		Mood:     c.state.Mood,
		Keywords: c.state.Keywords,
	}
	if c.onSubmit != nil {
		c.onSubmit(prefs)
	}
}

// Trigger is the submit control binding. While busy, activation is ignored.
// Reports whether Submit ran.
func (c *Collector) Trigger(busy bool) bool {
	if busy {
		return false
	}
	c.Submit()
	return true
}

// IsGenreSelectable reports whether the control for name is interactive:
// it is either selected (removable) or there is room to add it.
func (c *Collector) IsGenreSelectable(name string) bool {
	return c.IsSelected(name) || len(c.state.Genres) < MaxGenres
}

// IsAtSelectionLimit reports whether the selection is full.
func (c *Collector) IsAtSelectionLimit() bool {
	return len(c.state.Genres) == MaxGenres
}

func (c *Collector) IsSelected(name string) bool {
	return c.indexOf(name) >= 0
}

// SelectedGenres returns a copy of the selection in selection order.
func (c *Collector) SelectedGenres() []string {
	out := make([]string, len(c.state.Genres))
	copy(out, c.state.Genres)
	return out
}

func (c *Collector) Mood() string {
	return c.state.Mood
}

func (c *Collector) Keywords() string {
	return c.state.Keywords
}

// State returns a copy of the interaction state.
func (c *Collector) State() SelectionState {
	return SelectionState{
		Genres:   c.SelectedGenres(),
		Mood:     c.state.Mood,
		Keywords: c.state.Keywords,
	}
}

func (c *Collector) indexOf(name string) int {
	for i, g := range c.state.Genres {
		if g == name {
			return i
		}
	}
	return -1
}

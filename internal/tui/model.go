// Package tui renders the preference form in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/moviepicks/internal/icons"
	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type focusArea int

const (
	focusGenres focusArea = iota
	focusMood
	focusKeywords
	focusSubmit
	focusCount
)

const (
	moodPlaceholder     = "A light-hearted comedy, a mind-bending thriller..."
	keywordsPlaceholder = "space exploration, strong female lead, based on a true story"
)

// SubmittedMsg is emitted after the submission handler accepted the preferences.
type SubmittedMsg struct {
	Preferences preferences.SessionPreferences
}

// BusyMsg sets the external busy flag. While busy, submit activations are ignored.
type BusyMsg bool

// Option configures a Model.
type Option func(*Model)

// WithQuitOnSubmit ends the program after the first accepted submission.
func WithQuitOnSubmit() Option {
	return func(m *Model) {
		m.quitOnSubmit = true
	}
}

// Model is the bubbletea model of the preference form. It owns one Collector.
type Model struct {
	collector *preferences.Collector
	genres    []string
	cursor    int
	focus     focusArea
	mood      textinput.Model
	keywords  textinput.Model
	keys      KeyMap

	busy         bool
	quitOnSubmit bool
	pending      *preferences.SessionPreferences
	submitted    *preferences.SessionPreferences
	quitting     bool
}

// New creates the form for genres, in catalog order. onSubmit receives every accepted
// submission synchronously; it may be nil.
func New(genres []string, onSubmit preferences.SubmitFunc, opts ...Option) *Model {
	m := &Model{
		genres:   append([]string(nil), genres...),
		mood:     newInput(moodPlaceholder),
		keywords: newInput(keywordsPlaceholder),
		keys:     DefaultKeyMap(),
	}
	m.collector = preferences.New(func(p preferences.SessionPreferences) {
		m.pending = &p
		if onSubmit != nil {
			onSubmit(p)
		}
	})
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 0
	ti.Prompt = "> "
	return ti
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BusyMsg:
		m.busy = bool(msg)
		return m, nil

	case SubmittedMsg:
		p := msg.Preferences
		m.submitted = &p
		if m.quitOnSubmit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.Submit):
		return m, m.trigger()
	}

	switch m.focus {
	case focusGenres:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.genres)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if len(m.genres) > 0 {
				// Disabled rows are not interactive
				if name := m.genres[m.cursor]; m.collector.IsGenreSelectable(name) {
					m.collector.ToggleGenre(name)
				}
			}
		}
		return m, nil

	case focusMood:
		var cmd tea.Cmd
		m.mood, cmd = m.mood.Update(msg)
		m.collector.SetMood(m.mood.Value())
		return m, cmd

	case focusKeywords:
		var cmd tea.Cmd
		m.keywords, cmd = m.keywords.Update(msg)
		m.collector.SetKeywords(m.keywords.Value())
		return m, cmd

	case focusSubmit:
		if msg.Type == tea.KeyEnter {
			return m, m.trigger()
		}
	}

	return m, nil
}

// trigger activates the submit control. The handler runs synchronously; the accepted
// value is reported back to Update as a SubmittedMsg.
func (m *Model) trigger() tea.Cmd {
	m.pending = nil
	if !m.collector.Trigger(m.busy) || m.pending == nil {
		return nil
	}
	prefs := *m.pending
	m.pending = nil
	return func() tea.Msg {
		return SubmittedMsg{Preferences: prefs}
	}
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.mood.Blur()
	m.keywords.Blur()
	switch f {
	case focusMood:
		return m.mood.Focus()
	case focusKeywords:
		return m.keywords.Focus()
	}
	return nil
}

// Submitted returns the last accepted submission, if any.
func (m *Model) Submitted() (preferences.SessionPreferences, bool) {
	if m.submitted == nil {
		return preferences.SessionPreferences{}, false
	}
	return *m.submitted, true
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(question(icons.KeyQuestionGenre,
		fmt.Sprintf("What kind of movie are you in the mood for now? (select up to %d genres)", preferences.MaxGenres), false))
	b.WriteString("\n")
	for i, name := range m.genres {
		b.WriteString(m.genreRow(i, name))
		b.WriteString("\n")
	}
	if m.collector.IsAtSelectionLimit() {
		b.WriteString(NoticeStyle.Render(fmt.Sprintf("Maximum %d genres selected.", preferences.MaxGenres)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(question(icons.KeyQuestionMood, "Describe the mood, vibe, or plot", true))
	b.WriteString("\n")
	b.WriteString(m.mood.View())
	b.WriteString("\n\n")
	b.WriteString(question(icons.KeyQuestionKeywords, "Any specific keywords?", true))
	b.WriteString("\n")
	b.WriteString(m.keywords.View())
	b.WriteString("\n\n")
	b.WriteString(m.submitButton())
	b.WriteString("\n")

	if m.submitted != nil {
		b.WriteString("\n")
		b.WriteString(SelectedStyle.Render("Preferences received: " + summary(*m.submitted)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())

	return PanelStyle.Render(b.String())
}

func (m *Model) genreRow(i int, name string) string {
	cursor := "  "
	if m.focus == focusGenres && i == m.cursor {
		cursor = "> "
	}

	mark := "[ ]"
	style := GenreStyle
	switch {
	case m.collector.IsSelected(name):
		mark = "[x]"
		style = SelectedStyle
	case !m.collector.IsGenreSelectable(name):
		style = DisabledStyle
	}

	return cursor + style.Render(fmt.Sprintf("%s %s %s", mark, icons.ForGenre(name), name))
}

func (m *Model) submitButton() string {
	if m.busy {
		return ButtonBusyStyle.Render("Working...")
	}
	label := fmt.Sprintf("Go! %s", icons.Resolve(icons.KeySubmitCTA))
	if m.focus == focusSubmit {
		return ButtonFocusedStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

func (m *Model) helpView() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return HelpStyle.Render(strings.Join(parts, "  "))
}

func question(glyphKey, text string, optional bool) string {
	out := QuestionStyle.Render(fmt.Sprintf("%s %s", icons.Resolve(glyphKey), text))
	if optional {
		out += " " + OptionalStyle.Render("(optional)")
	}
	return out
}

func summary(p preferences.SessionPreferences) string {
	genres := "any genre"
	if len(p.Genres) > 0 {
		genres = strings.Join(p.Genres, ", ")
	}
	parts := []string{genres}
	if p.Mood != "" {
		parts = append(parts, "mood: "+p.Mood)
	}
	if p.Keywords != "" {
		parts = append(parts, "keywords: "+p.Keywords)
	}
	return strings.Join(parts, "; ")
}

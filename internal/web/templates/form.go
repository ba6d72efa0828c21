package templates

import (
	"strings"

	"github.com/Conceptual-Machines/moviepicks/internal/icons"
	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
)

const (
	limitNotice         = "Maximum 5 genres selected."
	moodPlaceholder     = "e.g., 'A light-hearted comedy', 'A mind-bending thriller' (optional)"
	keywordsPlaceholder = "e.g., 'space exploration, strong female lead, based on a true story'"
)

// GenreOption is one genre control. Selected and Disabled come from the collector.
type GenreOption struct {
	Name     string
	Glyph    icons.Glyph
	Selected bool
	Disabled bool
}

// FormView is everything the form needs to render one form instance
type FormView struct {
	FormID    string
	Genres    []GenreOption
	AtLimit   bool
	Mood      string
	Keywords  string
	Busy      bool
	Submitted *preferences.SessionPreferences
}

// NewFormView derives the view for the given catalog order from the collector's state
func NewFormView(formID string, genres []string, c *preferences.Collector) FormView {
	options := make([]GenreOption, 0, len(genres))
	for _, name := range genres {
		options = append(options, GenreOption{
			Name:     name,
			Glyph:    icons.ForGenre(name),
			Selected: c.IsSelected(name),
			Disabled: !c.IsGenreSelectable(name),
		})
	}
	return FormView{
		FormID:   formID,
		Genres:   options,
		AtLimit:  c.IsAtSelectionLimit(),
		Mood:     c.Mood(),
		Keywords: c.Keywords(),
	}
}

// genreSummary lists the submitted genres; an empty selection means any genre
func genreSummary(genres []string) string {
	if len(genres) == 0 {
		return "Any"
	}
	return strings.Join(genres, ", ")
}

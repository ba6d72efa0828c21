package icons

import (
	"regexp"
	"strings"
)

// Glyph is a renderable icon. Presentation layers emit it as-is.
type Glyph string

// Semantic keys for the fixed parts of the form
const (
	KeyQuestionGenre    = "question-genre"
	KeyQuestionMood     = "question-mood"
	KeyQuestionKeywords = "question-keywords"
	KeySubmitCTA        = "submit-cta"
	KeyDefault          = "default"
)

// DefaultGlyph is returned for any key without an entry
const DefaultGlyph Glyph = "🎬"

var whitespaceRun = regexp.MustCompile(`\s+`)

var glyphs = map[string]Glyph{
	KeyQuestionGenre:    "🍿",
	KeyQuestionMood:     "🎭",
	KeyQuestionKeywords: "🔎",
	KeySubmitCTA:        "🚀",
	KeyDefault:          DefaultGlyph,

	"action":      "💥",
	"adventure":   "🧭",
	"animation":   "🎨",
	"comedy":      "😂",
	"crime":       "🕵️",
	"documentary": "🎥",
	"drama":       "🎭",
	"family":      "👪",
	"fantasy":     "🐉",
	"film_noir":   "🚬",
	"history":     "📜",
	"horror":      "👻",
	"music":       "🎵",
	"mystery":     "🔍",
	"romance":     "💘",
	"sci_fi":      "🚀",
	"thriller":    "🔪",
	"war":         "🪖",
	"western":     "🤠",
}

// Key derives the lookup key for a genre name: lowercase, each whitespace run
// becomes one underscore, every hyphen becomes an underscore.
func Key(genre string) string {
	key := strings.ToLower(genre)
	key = whitespaceRun.ReplaceAllString(key, "_")
	return strings.ReplaceAll(key, "-", "_")
}

// Resolve returns the glyph for key, or DefaultGlyph when the key is unknown
func Resolve(key string) Glyph {
	if g, ok := glyphs[key]; ok {
		return g
	}
	return DefaultGlyph
}

// ForGenre resolves the glyph for a genre name
func ForGenre(genre string) Glyph {
	return Resolve(Key(genre))
}

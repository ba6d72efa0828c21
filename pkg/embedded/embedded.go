package embedded

import (
	_ "embed"
)

// Embed default data files
//
//go:embed data/genres.json
var GenresJSON []byte

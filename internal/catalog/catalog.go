package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Conceptual-Machines/moviepicks/pkg/embedded"
)

// ErrEmptyCatalog is returned when a catalog source lists no genres
var ErrEmptyCatalog = errors.New("genre catalog is empty")

// Catalog is the ordered, read-only list of known genre names
type Catalog struct {
	names []string
	index map[string]struct{}
}

// Default returns the catalog embedded in the binary
func Default() *Catalog {
	c, err := Parse(embedded.GenresJSON)
	if err != nil {
		// The embedded file is part of the build
		panic(fmt.Sprintf("embedded genre catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a JSON file, or returns the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genre catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid genre catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from a JSON array of genre names
func Parse(data []byte) (*Catalog, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to decode genre list: %w", err)
	}
	return New(names)
}

// New builds a catalog from names, keeping their order
func New(names []string) (*Catalog, error) {
	if len(names) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("genre %d is blank", i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("duplicate genre %q", name)
		}
		c.index[name] = struct{}{}
		c.names = append(c.names, name)
	}
	return c, nil
}

// Names returns the genres in catalog order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Contains reports whether name is in the catalog (case-sensitive)
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.names)
}

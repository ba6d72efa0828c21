package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	names := c.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "Action", names[0])
	assert.True(t, c.Contains("Sci-Fi"))
	assert.True(t, c.Contains("Film Noir"))
	assert.False(t, c.Contains("sci-fi"))
	assert.Equal(t, len(names), c.Len())
}

func TestNamesReturnsCopy(t *testing.T) {
	c := Default()
	names := c.Names()
	names[0] = "changed"

	assert.Equal(t, "Action", c.Names()[0])
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genres.json")
	require.NoError(t, os.WriteFile(path, []byte(`["Giallo", "Wuxia", "Mumblecore"]`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Giallo", "Wuxia", "Mumblecore"}, c.Names())
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), c.Names())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"not json", `Action, Drama`},
		{"empty", `[]`},
		{"blank name", `["Action", "  "]`},
		{"duplicate", `["Action", "Drama", "Action"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	_, err = Parse([]byte(`[]`))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

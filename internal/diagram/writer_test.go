package diagram

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidatePattern verifies the placeholder and suffix checks.
func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern("out-{}.svg"))
	assert.NoError(t, ValidatePattern("out-{}.SVG"))
	assert.Error(t, ValidatePattern("out.svg"), "missing placeholder")
	assert.Error(t, ValidatePattern("out-{}.png"), "unsupported format")
	assert.Error(t, ValidatePattern("out-{}"), "no suffix")
}

// TestFileName verifies zero padding of the move number.
func TestFileName(t *testing.T) {
	w, err := NewWriter("ANALYZED-{}.svg", log.New(io.Discard))
	require.NoError(t, err)

	assert.Equal(t, "ANALYZED-05w.svg", w.FileName("5w"))
	assert.Equal(t, "ANALYZED-13b.svg", w.FileName("13b"))
	assert.Equal(t, "ANALYZED-101w.svg", w.FileName("101w"))
}

// TestWriteFile verifies the diagram lands on disk.
func TestWriteFile(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "d-{}.svg"), log.New(io.Discard))
	require.NoError(t, err)

	name := w.FileName("1w")
	require.NoError(t, w.WriteFile(name, "<svg/>"))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

package diagram

import (
	"strings"
	"testing"

	"github.com/corentings/chess"
	"github.com/stretchr/testify/assert"
)

// TestRender verifies the board geometry: 64 squares, 32 starting pieces and
// one line plus head per arrow.
func TestRender(t *testing.T) {
	arrows := []Arrow{{From: chess.E2, To: chess.E4, Color: "#ff0000c0"}}
	svg := Render(chess.StartingPosition(), arrows, chess.White, 480)

	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	assert.Equal(t, 64, strings.Count(svg, "<rect "))
	assert.Equal(t, 32, strings.Count(svg, "<text "))
	assert.Equal(t, 1, strings.Count(svg, "<line "))
	assert.Equal(t, 1, strings.Count(svg, "<polygon "))
	assert.Contains(t, svg, `stroke="#ff0000"`)
}

// TestSquareOrigin verifies the orientation flip.
func TestSquareOrigin(t *testing.T) {
	cell := 60.0

	// a1 is bottom-left for white, top-right for black
	x, y := squareOrigin(0, 0, chess.White, cell)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 420.0, y)

	x, y = squareOrigin(0, 0, chess.Black, cell)
	assert.Equal(t, 420.0, x)
	assert.Equal(t, 0.0, y)
}

// TestSplitColor verifies alpha extraction.
func TestSplitColor(t *testing.T) {
	rgb, opacity := splitColor("#ff0000c0")
	assert.Equal(t, "#ff0000", rgb)
	assert.InDelta(t, 0.753, opacity, 0.001)

	rgb, opacity = splitColor("#ff0000")
	assert.Equal(t, "#ff0000", rgb)
	assert.Equal(t, 1.0, opacity)
}

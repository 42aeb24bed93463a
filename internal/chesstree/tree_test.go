package chesstree

import (
	"testing"

	"github.com/corentings/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMove(t *testing.T, pos *chess.Position, san string) *chess.Move {
	t.Helper()
	m, err := chess.AlgebraicNotation{}.Decode(pos, san)
	require.NoError(t, err)
	return m
}

// TestAddVariation_Dedup verifies one node per distinct move.
func TestAddVariation_Dedup(t *testing.T) {
	g := NewGame()
	root := g.Root()

	e4 := mustMove(t, root.Position(), "e4")
	first := root.AddVariation(e4)
	second := root.AddVariation(e4)

	assert.Same(t, first, second)
	assert.Len(t, root.Variations(), 1)
	assert.Equal(t, "e4", first.SAN())
	assert.Equal(t, "e2e4", first.UCI())
	assert.Equal(t, 1, first.Ply())
}

// TestPromoteToMain verifies promotion reorders without duplicating.
func TestPromoteToMain(t *testing.T) {
	g := NewGame()
	root := g.Root()

	e4 := root.AddVariation(mustMove(t, root.Position(), "e4"))
	d4 := root.AddVariation(mustMove(t, root.Position(), "d4"))
	c4 := root.AddVariation(mustMove(t, root.Position(), "c4"))

	promoted := root.PromoteToMain(d4.Move())
	require.NotNil(t, promoted)
	assert.Same(t, d4, promoted)
	assert.Equal(t, []*Node{d4, e4, c4}, root.Variations())
	assert.Len(t, root.Variations(), 3)

	// promoting an unknown move is a no-op
	g2 := NewGame()
	assert.Nil(t, g2.Root().PromoteToMain(e4.Move()))
}

// TestAddMainVariation verifies insertion in front of existing variations.
func TestAddMainVariation(t *testing.T) {
	g := NewGame()
	root := g.Root()

	e4 := root.AddVariation(mustMove(t, root.Position(), "e4"))
	d4 := root.AddMainVariation(mustMove(t, root.Position(), "d4"))

	assert.Equal(t, []*Node{d4, e4}, root.Variations())
	assert.Same(t, d4, root.MainChild())
}

// TestAddLine verifies a PV chain becomes nested continuations.
func TestAddLine(t *testing.T) {
	g := NewGame()
	root := g.Root()
	pos := root.Position()

	e4 := mustMove(t, pos, "e4")
	e5 := mustMove(t, pos.Update(e4), "e5")

	last := root.AddLine([]*chess.Move{e4, e5})
	assert.Equal(t, "e5", last.SAN())
	assert.Equal(t, "e4", last.Parent().SAN())
	assert.Same(t, root, last.Parent().Parent())
}

// TestAddNAG verifies glyph ordering and dedup.
func TestAddNAG(t *testing.T) {
	g := NewGame()
	n := g.Root().AddVariation(mustMove(t, g.Root().Position(), "e4"))

	n.AddNAG(146)
	n.AddNAG(1)
	n.AddNAG(146)

	assert.Equal(t, []int{1, 146}, n.NAGs())
}

// TestVariationSAN verifies move numbering for white-start and black-start
// lines.
func TestVariationSAN(t *testing.T) {
	g := NewGame()
	pos := g.Root().Position()

	e4 := mustMove(t, pos, "e4")
	afterE4 := pos.Update(e4)
	e5 := mustMove(t, afterE4, "e5")
	afterE5 := afterE4.Update(e5)
	nf3 := mustMove(t, afterE5, "Nf3")

	assert.Equal(t, "1. e4 e5 2. Nf3", VariationSAN(pos, []*chess.Move{e4, e5, nf3}))
	assert.Equal(t, "1... e5 2. Nf3", VariationSAN(afterE4, []*chess.Move{e5, nf3}))
}

// TestFullmoveNumber verifies FEN-derived counters.
func TestFullmoveNumber(t *testing.T) {
	g, err := NewGameFromFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	require.NoError(t, err)

	assert.Equal(t, 2, FullmoveNumber(g.Root().Position()))
	assert.Equal(t, 2, g.Root().Ply())
}

// TestTags verifies tag replacement semantics.
func TestTags(t *testing.T) {
	g := NewGame()
	g.SetTag("White", "Carlsen")
	g.SetTag("Black", "Nepo")
	g.SetTag("White", "Caruana")

	assert.Equal(t, "Caruana", g.Tag("White"))
	assert.Equal(t, "", g.Tag("Event"))
	assert.Len(t, g.Tags(), 2)
}

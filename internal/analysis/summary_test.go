package analysis

import (
	"strings"
	"testing"

	"github.com/corentings/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiminki/novelty-grinder/internal/chesstree"
)

// TestAddSurprise_Novelty verifies a white novelty reads naturally: reply
// without a move number, then numbered continuation.
func TestAddSurprise_Novelty(t *testing.T) {
	g := chesstree.NewGame()
	pos := g.Root().Position()

	e4 := mustMove(t, pos, "e4")
	afterE4 := pos.Update(e4)
	e5 := mustMove(t, afterE4, "e5")
	nf3 := mustMove(t, afterE4.Update(e5), "Nf3")

	s := NewSummary("lc0")
	s.addSurprise(g.Root(), []*chess.Move{e4, e5, nf3}, 0, true, false)

	plies, surprises := s.Surprises()
	require.Equal(t, []int{0}, plies)
	assert.Equal(t, []string{"1. e4N e5 2. Nf3"}, surprises[0])
}

// TestAddSurprise_BookRarity verifies rare book moves carry their popularity
// and number the reply explicitly.
func TestAddSurprise_BookRarity(t *testing.T) {
	g := chesstree.NewGame()
	pos := g.Root().Position()

	d4 := mustMove(t, pos, "d4")
	d5 := mustMove(t, pos.Update(d4), "d5")

	s := NewSummary("lc0")
	s.addSurprise(g.Root(), []*chess.Move{d4, d5}, 0.025, false, true)

	_, surprises := s.Surprises()
	assert.Equal(t, []string{"1. d4! Popularity=2.50% 1... d5"}, surprises[0])
}

// TestAddSurprise_BlackMove verifies a black surprise starts with a "..."
// number.
func TestAddSurprise_BlackMove(t *testing.T) {
	g := chesstree.NewGame()
	pos := g.Root().Position()

	e4 := mustMove(t, pos, "e4")
	node := g.Root().AddVariation(e4)
	c5 := mustMove(t, node.Position(), "c5")

	s := NewSummary("lc0")
	s.addSurprise(node, []*chess.Move{c5}, 0, true, false)

	plies, surprises := s.Surprises()
	require.Equal(t, []int{1}, plies)
	assert.Equal(t, []string{"1... c5N"}, surprises[1])
}

// TestSummaryPrint verifies the report block layout.
func TestSummaryPrint(t *testing.T) {
	g := chesstree.NewGame()
	g.SetTag("Round", "3")
	g.SetTag("White", "Alice")
	g.SetTag("Black", "Bob")

	s := NewSummary("lc0 v0.31")
	s.AnalyzedLine = "1. e4 e5"
	s.addBookStats(0, 42)
	s.addSurprise(g.Root(), []*chess.Move{mustMove(t, g.Root().Position(), "a3")}, 0, true, false)

	var sb strings.Builder
	s.Print(&sb, g)
	out := sb.String()

	assert.Contains(t, out, "Engine: lc0 v0.31\n")
	assert.Contains(t, out, "Round 3: Alice - Bob\n")
	assert.Contains(t, out, "1. e4 e5\n")
	assert.Contains(t, out, "1. a3N\n(N=42)\n")
	assert.True(t, strings.HasPrefix(out, "==================================\n"))
}

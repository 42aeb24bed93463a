package analysis

import (
	"fmt"
	"io"

	"github.com/corentings/chess"

	"github.com/skiminki/novelty-grinder/internal/chesstree"
)

// Summary accumulates the human-readable run report of one game: per-ply
// surprise move descriptions and book sizes, plus the analyzed mainline.
type Summary struct {
	// EngineName is the engine credited in the report.
	EngineName string

	// AnalyzedLine is the numbered SAN of the analyzed mainline.
	AnalyzedLine string

	plies     []int
	surprises map[int][]string
	bookSizes map[int]int
}

// NewSummary returns an empty summary for one game.
func NewSummary(engineName string) *Summary {
	return &Summary{
		EngineName: engineName,
		surprises:  make(map[int][]string),
		bookSizes:  make(map[int]int),
	}
}

func (s *Summary) addBookStats(ply, totalGames int) {
	s.bookSizes[ply] = totalGames
}

// addSurprise records one surprise move found at the position of node,
// described as numbered SAN with its continuation. Input moves get a "!"
// marker, novelties an "N" suffix, book rarities their popularity.
func (s *Summary) addSurprise(node *chesstree.Node, pv []*chess.Move, freq float64, novelty, inputMove bool) {
	pos := node.Position()
	desc := chesstree.VariationSAN(pos, pv[:1])
	forceMoveNumber := false

	if inputMove {
		desc += "!"
	}
	if novelty {
		desc += "N"
	} else {
		desc += fmt.Sprintf(" Popularity=%.2f%%", 100*freq)
		forceMoveNumber = true
	}

	remaining := pv

	// print the reply without a move number when it reads naturally
	if len(remaining) > 1 && pos.Turn() == chess.White && !forceMoveNumber {
		pos = pos.Update(remaining[0])
		desc += " " + chess.AlgebraicNotation{}.Encode(pos, remaining[1])
		remaining = remaining[1:]
	}

	if len(remaining) > 1 {
		pos = pos.Update(remaining[0])
		desc += " " + chesstree.VariationSAN(pos, remaining[1:])
	}

	ply := node.Ply()
	if _, ok := s.surprises[ply]; !ok {
		s.plies = append(s.plies, ply)
	}
	s.surprises[ply] = append(s.surprises[ply], desc)
}

// Surprises returns the surprise descriptions per ply, in discovery order.
func (s *Summary) Surprises() ([]int, map[int][]string) {
	return s.plies, s.surprises
}

// Print writes the report block for one game.
func (s *Summary) Print(w io.Writer, g *chesstree.Game) {
	fmt.Fprintf(w, "==================================\n")
	fmt.Fprintf(w, "Summary:\n\n")
	fmt.Fprintf(w, "Engine: %s\n", s.EngineName)
	fmt.Fprintf(w, "Round %s: %s - %s\n\n", g.Tag("Round"), g.Tag("White"), g.Tag("Black"))
	fmt.Fprintf(w, "%s\n", s.AnalyzedLine)

	for _, ply := range s.plies {
		fmt.Fprintf(w, "\n")
		for _, desc := range s.surprises[ply] {
			fmt.Fprintf(w, "%s\n", desc)
		}
		fmt.Fprintf(w, "(N=%d)\n", s.bookSizes[ply])
	}

	fmt.Fprintf(w, "\n==================================\n")
}

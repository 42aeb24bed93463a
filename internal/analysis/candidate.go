// Package analysis implements the surprise-move pipeline: candidate
// classification against engine evaluations and the opening book, and the
// game walker that drives it over an input line.
package analysis

import (
	"strings"

	"github.com/corentings/chess"

	"github.com/skiminki/novelty-grinder/internal/explorer"
	"github.com/skiminki/novelty-grinder/internal/uci"
)

// Engine is the analysis engine surface the pipeline needs. *uci.Engine
// implements it; tests substitute fakes.
type Engine interface {
	Name() string
	Analyze(fen string, limits uci.Limits, req uci.Request) ([]uci.Line, error)
}

// Book is the opening reference surface. *explorer.Client implements it.
type Book interface {
	Lookup(fen string) (*explorer.Stats, error)
}

// Candidate is one analyzed move at a position, with its classification
// flags. New candidates start out as strong, unpopular novelties; the
// pipeline stages refine the flags.
type Candidate struct {
	Move   *chess.Move
	SAN    string
	UCI    string
	EvalCP int
	Nodes  int64
	PV     []*chess.Move

	// Freq is the fraction of book games containing this move; 0 for
	// novelties.
	Freq float64

	Novelty       bool
	InputMove     bool
	StrongMove    bool
	UnpopularMove bool
}

func newCandidate(pos *chess.Position, evalCP int, nodes int64, pv []*chess.Move) *Candidate {
	return &Candidate{
		Move:          pv[0],
		SAN:           chess.AlgebraicNotation{}.Encode(pos, pv[0]),
		UCI:           chess.UCINotation{}.Encode(pos, pv[0]),
		EvalCP:        evalCP,
		Nodes:         nodes,
		PV:            pv,
		Novelty:       true,
		StrongMove:    true,
		UnpopularMove: true,
	}
}

// decodePV decodes a UCI move sequence against pos. Undecodable tails are
// dropped; an undecodable first move drops the whole line.
func decodePV(pos *chess.Position, ucis []string) []*chess.Move {
	var pv []*chess.Move
	for _, s := range ucis {
		m, err := chess.UCINotation{}.Decode(pos, s)
		if err != nil {
			break
		}
		pv = append(pv, m)
		pos = pos.Update(m)
	}
	return pv
}

// candidateListString renders the candidate moves for diagnostics.
func candidateListString(cands []*Candidate) string {
	sans := make([]string, len(cands))
	for i, c := range cands {
		sans[i] = c.SAN
	}
	return strings.Join(sans, " ")
}

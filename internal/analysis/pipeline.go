package analysis

import (
	"fmt"

	"github.com/corentings/chess"

	"github.com/skiminki/novelty-grinder/internal/chesstree"
	"github.com/skiminki/novelty-grinder/internal/explorer"
	"github.com/skiminki/novelty-grinder/internal/uci"
)

// engineAnalysis runs the initial multi-line analysis and builds one
// candidate per line, preserving engine rank order. The returned threshold
// is the first line's score minus the eval threshold; an empty engine
// response yields an empty list and a threshold of 0.
func (r *Runner) engineAnalysis(engine Engine, pos *chess.Position) ([]*Candidate, int, error) {
	lines, err := engine.Analyze(pos.String(), uci.Limits{Nodes: r.cfg.AnalysisNodes}, uci.Request{
		MultiPV: multiLineCount,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("engine analysis: %w", err)
	}

	var cands []*Candidate
	for _, line := range lines {
		pv := decodePV(pos, line.PV)
		if len(pv) == 0 {
			continue
		}
		cands = append(cands, newCandidate(pos, line.ScoreCP, line.Nodes, pv))
	}
	if len(cands) == 0 {
		return nil, 0, nil
	}
	return cands, cands[0].EvalCP - r.cfg.EvalThreshold, nil
}

// forceAddInputMoves ensures a candidate exists for every variation already
// present in the input tree at this position. Input moves go in front; an
// engine candidate for the same move is flagged instead of duplicated.
func forceAddInputMoves(cands []*Candidate, node *chesstree.Node) []*Candidate {
	var merged []*Candidate
	for _, v := range node.Variations() {
		c := newCandidate(node.Position(), 0, 0, []*chess.Move{v.Move()})
		c.InputMove = true
		merged = append(merged, c)
	}
	numInputs := len(merged)

	for _, c := range cands {
		appended := false
		for i := 0; i < numInputs; i++ {
			if merged[i].SAN == c.SAN {
				c.InputMove = true
				merged[i] = c
				appended = true
			}
		}
		if !appended {
			merged = append(merged, c)
		}
	}
	return merged
}

// pruneWeakMoves drops non-input candidates scoring below the threshold and
// records strength per candidate.
func pruneWeakMoves(cands []*Candidate, threshold int) []*Candidate {
	var kept []*Candidate
	for _, c := range cands {
		c.StrongMove = c.EvalCP >= threshold
		if c.StrongMove || c.InputMove {
			kept = append(kept, c)
		}
	}
	return kept
}

// filterOutVariations drops candidates whose move is already a variation in
// the input tree, so the system never rediscovers the supplied line.
func filterOutVariations(cands []*Candidate, node *chesstree.Node) []*Candidate {
	var kept []*Candidate
	for _, c := range cands {
		if !node.HasVariation(c.Move) {
			kept = append(kept, c)
		}
	}
	return kept
}

// classifyPopularity classifies the candidates against the book stats:
// moves absent from the book are novelties, moves at or below the games
// threshold are unpopular, and popular moves are dropped unless they come
// from the input line. Book moves are keyed by SAN in the position's own
// notation to avoid encoding mismatches.
func (r *Runner) classifyPopularity(pos *chess.Position, cands []*Candidate, stats *explorer.Stats, gamesThreshold float64, totalGames int) []*Candidate {
	bookGames := make(map[string]int, len(stats.Moves))
	for _, sm := range stats.Moves {
		m, err := chess.UCINotation{}.Decode(pos, sm.UCI)
		if err != nil {
			r.log.Debug("undecodable book move", "uci", sm.UCI, "err", err)
			continue
		}
		bookGames[chess.AlgebraicNotation{}.Encode(pos, m)] = sm.Games()
	}

	var kept []*Candidate
	for _, c := range cands {
		games, inBook := bookGames[c.SAN]
		if !inBook {
			c.Freq = 0
			c.Novelty = true
			c.UnpopularMove = true
			kept = append(kept, c)
			continue
		}
		c.UnpopularMove = float64(games) <= gamesThreshold
		if c.UnpopularMove || c.InputMove {
			c.Freq = float64(games) / float64(totalGames)
			c.Novelty = false
			kept = append(kept, c)
		}
	}
	return kept
}

// doubleCheck refines each candidate with a focused search restricted to
// its move. The engine first reports the nodes already spent on the move;
// candidates short of the node target are re-searched with the difference
// added to the budget and replaced wholesale with the refined result. The
// refined top move may differ from the original; that is intentional.
func (r *Runner) doubleCheck(engine Engine, pos *chess.Position, cands []*Candidate) ([]*Candidate, error) {
	fen := pos.String()
	for _, c := range cands {
		lines, err := engine.Analyze(fen, uci.Limits{Nodes: 0}, uci.Request{
			MultiPV:     multiLineCount,
			SearchMoves: []string{c.UCI},
			Temporary:   map[string]string{"PerPVCounters": "false"},
		})
		if err != nil {
			return nil, fmt.Errorf("double-check node query: %w", err)
		}
		var spentNodes int64
		if len(lines) > 0 {
			spentNodes = lines[0].Nodes
		}

		if c.Nodes >= r.cfg.DoubleCheckNodes {
			continue
		}
		newNodes := r.cfg.DoubleCheckNodes - c.Nodes

		lines, err = engine.Analyze(fen, uci.Limits{Nodes: spentNodes + newNodes}, uci.Request{
			MultiPV:     multiLineCount,
			SearchMoves: []string{c.UCI},
		})
		if err != nil {
			return nil, fmt.Errorf("double-check refinement: %w", err)
		}
		if len(lines) == 0 {
			r.log.Warn("empty double-check response, keeping candidate", "move", c.SAN)
			continue
		}
		pv := decodePV(pos, lines[0].PV)
		if len(pv) == 0 {
			r.log.Warn("undecodable double-check PV, keeping candidate", "move", c.SAN)
			continue
		}
		c.Move = pv[0]
		c.SAN = chess.AlgebraicNotation{}.Encode(pos, pv[0])
		c.UCI = chess.UCINotation{}.Encode(pos, pv[0])
		c.Nodes = lines[0].Nodes
		c.EvalCP = lines[0].ScoreCP
		c.PV = pv
	}
	return cands, nil
}

package analysis

import (
	"fmt"
	"strings"

	"github.com/corentings/chess"

	"github.com/skiminki/novelty-grinder/internal/chesstree"
)

// Numeric annotation glyphs used in the output.
// See https://en.wikipedia.org/wiki/Numeric_Annotation_Glyphs
const (
	nagGoodMove = 1
	nagNovelty  = 146
)

// annotate writes the surviving candidates into the output node as
// variations with comments, glyphs and arrow directives, and records the
// surprise moves into the summary. Reports whether any strong unpopular
// candidate was found (the diagram trigger).
func (r *Runner) annotate(node, outNode *chesstree.Node, cands []*Candidate, summary *Summary) bool {
	var unpopularArrows, noveltyArrows []string
	enableDiagram := false

	for _, c := range cands {
		comment := "Eval=" + scoreToString(c.EvalCP, node.Position().Turn())
		var nags []int
		if c.Novelty {
			nags = append(nags, nagNovelty)
			if c.StrongMove {
				noveltyArrows = appendArrow(noveltyArrows, "R"+c.UCI)
			}
		} else {
			comment += fmt.Sprintf(" Popularity=%.2f%%", c.Freq*100)
			if c.UnpopularMove && c.StrongMove {
				unpopularArrows = appendArrow(unpopularArrows, "G"+c.UCI)
			}
		}
		if c.InputMove && c.UnpopularMove && c.StrongMove {
			nags = append(nags, nagGoodMove)
		}

		varNode := outNode.AddVariation(c.Move)
		varNode.Comment = comment
		for _, nag := range nags {
			varNode.AddNAG(nag)
		}

		if !c.InputMove && r.cfg.PVPlies > 1 {
			end := r.cfg.PVPlies
			if end > len(c.PV) {
				end = len(c.PV)
			}
			varNode.AddLine(c.PV[1:end])
		}

		if c.UnpopularMove && c.StrongMove {
			enableDiagram = true
			pvMoves := []*chess.Move{varNode.Move()}
			for n := varNode.MainChild(); n != nil; n = n.MainChild() {
				pvMoves = append(pvMoves, n.Move())
			}
			summary.addSurprise(node, pvMoves, c.Freq, c.Novelty, c.InputMove)
		}
	}

	// Unpopular-move arrows go before novelties: overlapping arrows are
	// drawn in order by renderers, and novelties should end up on top.
	if r.cfg.Arrows && len(unpopularArrows)+len(noveltyArrows) > 0 {
		arrows := append(unpopularArrows, noveltyArrows...)
		outNode.Comment += " [%cal " + strings.Join(arrows, ",") + "]"
	}

	return enableDiagram
}

func appendArrow(arrows []string, arrow string) []string {
	for _, a := range arrows {
		if a == arrow {
			return arrows
		}
	}
	return append(arrows, arrow)
}

// scoreToString formats an engine score as a win percentage for the side to
// move. The engine reports 0..10000 for 0..100% from the mover's view;
// black's scores are flipped for presentation.
func scoreToString(cp int, turn chess.Color) string {
	if turn == chess.White {
		return fmt.Sprintf("%.2f%%", float64(cp)/100.0)
	}
	return fmt.Sprintf("%.2f%%", float64(10000-cp)/100.0)
}

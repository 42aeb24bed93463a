package analysis

import (
	"github.com/skiminki/novelty-grinder/internal/chesstree"
	"github.com/skiminki/novelty-grinder/internal/diagram"
)

// Diagram arrow colors. Candidates matching the input line's own next move
// ("primary") get the lighter shade.
const (
	colorNoveltyPrimary   = "#ffa0a0d0"
	colorNovelty          = "#ff0000c0"
	colorUnpopularPrimary = "#a0ffa0d0"
	colorUnpopular        = "#00ff00c0"
	colorPreviousMove     = "#2020b060"
	colorInputNextMove    = "#40404060"
)

// writeDiagram renders the position diagram for an analyzed node: the
// previous played move, the input line's next move, and the strong
// unpopular candidates, novelties drawn last so they stay on top.
func (r *Runner) writeDiagram(node *chesstree.Node, cands []*Candidate) error {
	var unpopularArrows, noveltyArrows []diagram.Arrow
	primaryInputMoveDrawn := false

	inputNext := node.MainChild()
	for _, c := range cands {
		if !(c.StrongMove && c.UnpopularMove) {
			continue
		}

		primaryInputMove := inputNext != nil && inputNext.UCI() == c.UCI
		if primaryInputMove {
			primaryInputMoveDrawn = true
		}

		arrow := diagram.Arrow{From: c.Move.S1(), To: c.Move.S2()}
		if c.Novelty {
			arrow.Color = colorNovelty
			if primaryInputMove {
				arrow.Color = colorNoveltyPrimary
			}
			noveltyArrows = append(noveltyArrows, arrow)
		} else {
			arrow.Color = colorUnpopular
			if primaryInputMove {
				arrow.Color = colorUnpopularPrimary
			}
			unpopularArrows = append(unpopularArrows, arrow)
		}
	}

	var arrows []diagram.Arrow
	if prev := node.Move(); prev != nil {
		arrows = append(arrows, diagram.Arrow{From: prev.S1(), To: prev.S2(), Color: colorPreviousMove})
	}
	if inputNext != nil && !primaryInputMoveDrawn {
		m := inputNext.Move()
		arrows = append(arrows, diagram.Arrow{From: m.S1(), To: m.S2(), Color: colorInputNextMove})
	}
	arrows = append(arrows, unpopularArrows...)
	arrows = append(arrows, noveltyArrows...)

	pos := node.Position()
	svg := diagram.Render(pos, arrows, pos.Turn(), 480)
	return r.diagrams.WriteFile(r.diagrams.FileName(moveNumString(pos)), svg)
}

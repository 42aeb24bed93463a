package chesstree

import (
	"strconv"
	"strings"

	"github.com/corentings/chess"
)

// String serializes the game as PGN: tag pairs, movetext with comments,
// NAGs and variations, and the result token.
func (g *Game) String() string {
	var sb strings.Builder
	for _, t := range g.tags {
		sb.WriteString("[")
		sb.WriteString(t.Key)
		sb.WriteString(" \"")
		sb.WriteString(strings.ReplaceAll(t.Value, `"`, `\"`))
		sb.WriteString("\"]\n")
	}
	if len(g.tags) > 0 {
		sb.WriteString("\n")
	}

	w := &movetextWriter{sb: &sb}
	needNumber := false
	if g.root.Comment != "" {
		w.word("{ " + g.root.Comment + " }")
		needNumber = true
	}
	writeLine(w, g.root, needNumber)
	w.word(g.Result)
	sb.WriteString("\n")
	return sb.String()
}

type movetextWriter struct {
	sb    *strings.Builder
	dirty bool
}

func (w *movetextWriter) word(s string) {
	if w.dirty {
		w.sb.WriteString(" ")
	}
	w.sb.WriteString(s)
	w.dirty = true
}

// writeLine writes the movetext of every line below position node p. The
// first child is the mainline continuation; the rest are rendered as
// parenthesized variations.
func writeLine(w *movetextWriter, p *Node, needNumber bool) {
	for len(p.variations) > 0 {
		main := p.variations[0]
		emitMove(w, main, needNumber)
		interrupted := main.Comment != ""
		for _, alt := range p.variations[1:] {
			w.word("(")
			emitMove(w, alt, true)
			writeLine(w, alt, alt.Comment != "")
			w.word(")")
			interrupted = true
		}
		p = main
		needNumber = interrupted
	}
}

// emitMove writes one move with its number indicator, NAGs and comment.
func emitMove(w *movetextWriter, n *Node, needNumber bool) {
	parentPos := n.parent.pos
	if parentPos.Turn() == chess.White {
		w.word(strconv.Itoa(FullmoveNumber(parentPos)) + ".")
	} else if needNumber {
		w.word(strconv.Itoa(FullmoveNumber(parentPos)) + "...")
	}
	w.word(n.san)
	for _, nag := range n.nags {
		w.word("$" + strconv.Itoa(nag))
	}
	if n.Comment != "" {
		w.word("{ " + n.Comment + " }")
	}
}

// Package chesstree models an annotated chess game tree: positions linked by
// moves, with comments, numeric annotation glyphs and recursive variations.
// It is the shared data model for both the input game and the annotated
// output game.
package chesstree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/corentings/chess"
)

// Node is one node in the game tree. The root node carries the starting
// position and no move; every other node carries the move that produced its
// position. Variations keep insertion order; index 0 is the mainline
// continuation.
type Node struct {
	parent     *Node
	pos        *chess.Position
	move       *chess.Move
	san        string
	uci        string
	ply        int
	nags       []int
	variations []*Node

	// Comment is the PGN comment attached after this node's move (or, for
	// the root node, before the first move).
	Comment string
}

// Position returns the position after this node's move.
func (n *Node) Position() *chess.Position { return n.pos }

// Move returns the move leading to this node, or nil for the root.
func (n *Node) Move() *chess.Move { return n.move }

// SAN returns the move in standard algebraic notation ("" for the root).
func (n *Node) SAN() string { return n.san }

// UCI returns the move in UCI notation ("" for the root).
func (n *Node) UCI() string { return n.uci }

// Ply returns the number of half-moves played to reach this node's position.
func (n *Node) Ply() int { return n.ply }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Variations returns the child nodes in order. The returned slice is owned
// by the node.
func (n *Node) Variations() []*Node { return n.variations }

// MainChild returns the mainline continuation, or nil at the end of a line.
func (n *Node) MainChild() *Node {
	if len(n.variations) == 0 {
		return nil
	}
	return n.variations[0]
}

// NAGs returns the numeric annotation glyphs attached to this node's move,
// in ascending order.
func (n *Node) NAGs() []int { return n.nags }

// AddNAG attaches a numeric annotation glyph, keeping the set ordered and
// free of duplicates.
func (n *Node) AddNAG(nag int) {
	i := sort.SearchInts(n.nags, nag)
	if i < len(n.nags) && n.nags[i] == nag {
		return
	}
	n.nags = append(n.nags, 0)
	copy(n.nags[i+1:], n.nags[i:])
	n.nags[i] = nag
}

func (n *Node) newChild(m *chess.Move) *Node {
	return &Node{
		parent: n,
		pos:    n.pos.Update(m),
		move:   m,
		san:    chess.AlgebraicNotation{}.Encode(n.pos, m),
		uci:    chess.UCINotation{}.Encode(n.pos, m),
		ply:    n.ply + 1,
	}
}

// AddVariation appends m as a new variation of this node and returns the new
// child. If a variation for m already exists it is returned unchanged.
func (n *Node) AddVariation(m *chess.Move) *Node {
	if v := n.Variation(m); v != nil {
		return v
	}
	child := n.newChild(m)
	n.variations = append(n.variations, child)
	return child
}

// AddMainVariation inserts m as the new mainline continuation, in front of
// any existing variations.
func (n *Node) AddMainVariation(m *chess.Move) *Node {
	child := n.newChild(m)
	n.variations = append([]*Node{child}, n.variations...)
	return child
}

// Variation returns the child node for m, or nil.
func (n *Node) Variation(m *chess.Move) *Node {
	uci := chess.UCINotation{}.Encode(n.pos, m)
	for _, v := range n.variations {
		if v.uci == uci {
			return v
		}
	}
	return nil
}

// HasVariation reports whether a child node for m exists.
func (n *Node) HasVariation(m *chess.Move) bool { return n.Variation(m) != nil }

// PromoteToMain moves the existing variation for m to the front, making it
// the mainline continuation, and returns it. Returns nil when no variation
// for m exists.
func (n *Node) PromoteToMain(m *chess.Move) *Node {
	v := n.Variation(m)
	if v == nil {
		return nil
	}
	for i, c := range n.variations {
		if c == v {
			copy(n.variations[1:i+1], n.variations[:i])
			n.variations[0] = v
			break
		}
	}
	return v
}

// AddLine appends moves as a chain of mainline continuations starting at
// this node and returns the last node added.
func (n *Node) AddLine(moves []*chess.Move) *Node {
	cur := n
	for _, m := range moves {
		cur = cur.AddVariation(m)
	}
	return cur
}

// Tag is one PGN tag pair.
type Tag struct {
	Key   string
	Value string
}

// Game is a game tree plus its PGN tag pairs and result.
type Game struct {
	tags   []Tag
	root   *Node
	Result string
}

// NewGame returns a game starting from the standard initial position.
func NewGame() *Game {
	return &Game{
		root:   rootNode(chess.StartingPosition()),
		Result: "*",
	}
}

// NewGameFromFEN returns a game starting from the given FEN position.
func NewGameFromFEN(fen string) (*Game, error) {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	return &Game{root: rootNode(pos), Result: "*"}, nil
}

func rootNode(pos *chess.Position) *Node {
	return &Node{pos: pos, ply: plyOf(pos)}
}

// Root returns the root node.
func (g *Game) Root() *Node { return g.root }

// Tags returns the tag pairs in order.
func (g *Game) Tags() []Tag { return g.tags }

// Tag returns the value of the named tag pair, or "".
func (g *Game) Tag(key string) string {
	for _, t := range g.tags {
		if t.Key == key {
			return t.Value
		}
	}
	return ""
}

// SetTag replaces the named tag pair, appending it if absent.
func (g *Game) SetTag(key, value string) {
	for i, t := range g.tags {
		if t.Key == key {
			g.tags[i].Value = value
			return
		}
	}
	g.tags = append(g.tags, Tag{Key: key, Value: value})
}

// MainlineMoves returns the mainline moves from the root.
func (g *Game) MainlineMoves() []*chess.Move {
	var moves []*chess.Move
	for n := g.root.MainChild(); n != nil; n = n.MainChild() {
		moves = append(moves, n.move)
	}
	return moves
}

// MainlineSAN returns the mainline as numbered SAN movetext.
func (g *Game) MainlineSAN() string {
	return VariationSAN(g.root.pos, g.MainlineMoves())
}

// FullmoveNumber returns the full-move counter of the position, as recorded
// in its FEN.
func FullmoveNumber(pos *chess.Position) int {
	fields := strings.Fields(pos.String())
	if len(fields) < 6 {
		return 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func plyOf(pos *chess.Position) int {
	ply := (FullmoveNumber(pos) - 1) * 2
	if pos.Turn() == chess.Black {
		ply++
	}
	return ply
}

// VariationSAN renders moves played from pos as numbered SAN movetext, e.g.
// "13. Nf3 Nf6 14. Bg5". A line starting with a black move is rendered with
// a "13..." style number.
func VariationSAN(pos *chess.Position, moves []*chess.Move) string {
	var words []string
	fullmove := FullmoveNumber(pos)
	for i, m := range moves {
		switch {
		case pos.Turn() == chess.White:
			words = append(words, strconv.Itoa(fullmove)+".")
		case i == 0:
			words = append(words, strconv.Itoa(fullmove)+"...")
		}
		words = append(words, chess.AlgebraicNotation{}.Encode(pos, m))
		if pos.Turn() == chess.Black {
			fullmove++
		}
		pos = pos.Update(m)
	}
	return strings.Join(words, " ")
}

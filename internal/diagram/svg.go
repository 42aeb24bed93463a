// Package diagram renders chess positions with highlight arrows as SVG
// board diagrams.
package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/corentings/chess"
)

// Arrow is one highlight arrow. Color is an 8-digit "#rrggbbaa" value;
// arrows are drawn in slice order, later arrows on top.
type Arrow struct {
	From  chess.Square
	To    chess.Square
	Color string
}

const (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
)

// pieceGlyphs maps FEN piece letters to figurine glyphs.
var pieceGlyphs = map[byte]string{
	'K': "♔", 'Q': "♕", 'R': "♖", 'B': "♗", 'N': "♘", 'P': "♙",
	'k': "♚", 'q': "♛", 'r': "♜", 'b': "♝", 'n': "♞", 'p': "♟",
}

// Render draws the position as an SVG board of the given pixel size,
// oriented with the given color at the bottom.
func Render(pos *chess.Position, arrows []Arrow, orientation chess.Color, size int) string {
	cell := float64(size) / 8

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		size, size, size, size)

	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			fill := lightSquare
			if (rank+file)%2 == 1 {
				fill = darkSquare
			}
			x, y := squareOrigin(file, rank, orientation, cell)
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				x, y, cell, cell, fill)
		}
	}

	writePieces(&sb, pos, orientation, cell)
	for _, a := range arrows {
		writeArrow(&sb, a, orientation, cell)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// squareOrigin maps board coordinates (file 0=a, rank 0=first rank) to the
// top-left pixel of the square.
func squareOrigin(file, rank int, orientation chess.Color, cell float64) (float64, float64) {
	if orientation == chess.Black {
		file = 7 - file
		rank = 7 - rank
	}
	return float64(file) * cell, float64(7-rank) * cell
}

func squareCenter(sq chess.Square, orientation chess.Color, cell float64) (float64, float64) {
	x, y := squareOrigin(int(sq)%8, int(sq)/8, orientation, cell)
	return x + cell/2, y + cell/2
}

func writePieces(sb *strings.Builder, pos *chess.Position, orientation chess.Color, cell float64) {
	board := strings.Fields(pos.String())[0]
	rank := 7
	file := 0
	for i := 0; i < len(board); i++ {
		c := board[i]
		switch {
		case c == '/':
			rank--
			file = 0
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			if glyph, ok := pieceGlyphs[c]; ok {
				x, y := squareOrigin(file, rank, orientation, cell)
				fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
					x+cell/2, y+cell*0.78, cell*0.8, glyph)
			}
			file++
		}
	}
}

func writeArrow(sb *strings.Builder, a Arrow, orientation chess.Color, cell float64) {
	rgb, opacity := splitColor(a.Color)
	x1, y1 := squareCenter(a.From, orientation, cell)
	x2, y2 := squareCenter(a.To, orientation, cell)

	dx, dy := x2-x1, y2-y1
	length := math.Max(1.0, math.Hypot(dx, dy))
	ux, uy := dx/length, dy/length

	// shaft ends where the head begins
	head := cell * 0.35
	bx, by := x2-ux*head, y2-uy*head
	// head base corners, perpendicular to the shaft
	wing := cell * 0.18
	px, py := -uy*wing, ux*wing

	fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.1f"/>`+"\n",
		x1, y1, bx, by, rgb, opacity, cell*0.2)
	fmt.Fprintf(sb, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		x2, y2, bx+px, by+py, bx-px, by-py, rgb, opacity)
}

// splitColor splits "#rrggbbaa" into "#rrggbb" and an opacity fraction.
// Colors without an alpha component are fully opaque.
func splitColor(color string) (string, float64) {
	if len(color) != 9 {
		return color, 1.0
	}
	alpha := 0
	for i := 7; i < 9; i++ {
		alpha <<= 4
		c := color[i]
		switch {
		case c >= '0' && c <= '9':
			alpha |= int(c - '0')
		case c >= 'a' && c <= 'f':
			alpha |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			alpha |= int(c-'A') + 10
		}
	}
	return color[:7], float64(alpha) / 255.0
}

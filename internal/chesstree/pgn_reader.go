package chesstree

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/corentings/chess"
)

// Reader reads games one at a time from PGN text, preserving comments,
// numeric annotation glyphs and recursive variations.
type Reader struct {
	tokens []token
	pos    int
}

type tokenKind int

const (
	tokTag tokenKind = iota
	tokComment
	tokNAG
	tokOpenParen
	tokCloseParen
	tokMove
	tokResult
)

type token struct {
	kind  tokenKind
	text  string // move SAN, comment text or result
	key   string // tag key
	value string // tag value
	nag   int
	line  int
}

// NewReader tokenizes the whole input up front. Tokenization errors surface
// from ReadGame.
func NewReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading PGN: %w", err)
	}
	tokens, err := tokenize(string(data))
	if err != nil {
		return nil, err
	}
	return &Reader{tokens: tokens}, nil
}

// ReadGame parses the next game. Returns io.EOF when the input is
// exhausted.
func (r *Reader) ReadGame() (*Game, error) {
	if r.pos >= len(r.tokens) {
		return nil, io.EOF
	}

	g := NewGame()

	// tag section
	for r.pos < len(r.tokens) && r.tokens[r.pos].kind == tokTag {
		t := r.tokens[r.pos]
		g.SetTag(t.key, t.value)
		r.pos++
	}
	if fen := g.Tag("FEN"); fen != "" {
		fg, err := NewGameFromFEN(fen)
		if err != nil {
			return nil, err
		}
		fg.tags = g.tags
		g = fg
	}
	if res := g.Tag("Result"); res != "" {
		g.Result = res
	}

	// movetext section
	cur := g.root
	var stack []*Node
	for r.pos < len(r.tokens) {
		t := r.tokens[r.pos]
		switch t.kind {
		case tokTag:
			// next game's tag section; current game had no result token
			return g, nil
		case tokComment:
			if cur.Comment == "" {
				cur.Comment = t.text
			} else {
				cur.Comment += " " + t.text
			}
		case tokNAG:
			cur.AddNAG(t.nag)
		case tokOpenParen:
			if cur.parent == nil {
				return nil, fmt.Errorf("line %d: variation before any move", t.line)
			}
			stack = append(stack, cur)
			cur = cur.parent
		case tokCloseParen:
			if len(stack) == 0 {
				return nil, fmt.Errorf("line %d: unbalanced ')'", t.line)
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case tokMove:
			san, nags := splitSuffixNAGs(t.text)
			m, err := chess.AlgebraicNotation{}.Decode(cur.pos, san)
			if err != nil {
				return nil, fmt.Errorf("line %d: illegal move %q: %w", t.line, san, err)
			}
			cur = cur.AddVariation(m)
			for _, nag := range nags {
				cur.AddNAG(nag)
			}
		case tokResult:
			g.Result = t.text
			r.pos++
			return g, nil
		}
		r.pos++
	}
	return g, nil
}

// suffixNAGs maps traditional SAN suffix annotations to their glyphs.
var suffixNAGs = map[string]int{
	"!": 1, "?": 2, "!!": 3, "??": 4, "!?": 5, "?!": 6,
}

func splitSuffixNAGs(san string) (string, []int) {
	cut := len(san)
	for cut > 0 && (san[cut-1] == '!' || san[cut-1] == '?') {
		cut--
	}
	if cut == len(san) {
		return san, nil
	}
	if nag, ok := suffixNAGs[san[cut:]]; ok {
		return san[:cut], []int{nag}
	}
	return san[:cut], nil
}

func tokenize(s string) ([]token, error) {
	var tokens []token
	line := 1
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\n':
			line++
			i++
		case unicode.IsSpace(rune(c)):
			i++
		case c == '%' && (i == 0 || s[i-1] == '\n'):
			// escape line
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == ';':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("line %d: unterminated tag pair", line)
			}
			key, value, err := parseTagPair(s[i+1 : i+end])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			tokens = append(tokens, token{kind: tokTag, key: key, value: value, line: line})
			i += end + 1
		case c == '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("line %d: unterminated comment", line)
			}
			text := strings.Join(strings.Fields(s[i+1:i+end]), " ")
			line += strings.Count(s[i:i+end], "\n")
			tokens = append(tokens, token{kind: tokComment, text: text, line: line})
			i += end + 1
		case c == '(':
			tokens = append(tokens, token{kind: tokOpenParen, line: line})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokCloseParen, line: line})
			i++
		case c == '$':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("line %d: bad NAG", line)
			}
			n, _ := strconv.Atoi(s[i+1 : j])
			tokens = append(tokens, token{kind: tokNAG, nag: n, line: line})
			i = j
		case c == '*':
			tokens = append(tokens, token{kind: tokResult, text: "*", line: line})
			i++
		default:
			j := i
			for j < len(s) && !isWordBreak(s[j]) {
				j++
			}
			word := s[i:j]
			i = j
			switch {
			case word == "1-0" || word == "0-1" || word == "1/2-1/2":
				tokens = append(tokens, token{kind: tokResult, text: word, line: line})
			case isMoveNumber(word):
				// move number indicators carry no information
			default:
				tokens = append(tokens, token{kind: tokMove, text: word, line: line})
			}
		}
	}
	return tokens, nil
}

func isWordBreak(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '{', '}', '[', ']', ';':
		return true
	}
	return false
}

func isMoveNumber(word string) bool {
	word = strings.TrimRight(word, ".")
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < '0' || word[i] > '9' {
			return false
		}
	}
	return true
}

func parseTagPair(body string) (string, string, error) {
	body = strings.TrimSpace(body)
	sp := strings.IndexFunc(body, unicode.IsSpace)
	if sp < 0 {
		return "", "", fmt.Errorf("malformed tag pair %q", body)
	}
	key := body[:sp]
	rest := strings.TrimSpace(body[sp:])
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", "", fmt.Errorf("malformed tag value in %q", body)
	}
	value := strings.ReplaceAll(rest[1:len(rest)-1], `\"`, `"`)
	return key, value, nil
}

package analysis

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/corentings/chess"
	"github.com/stretchr/testify/require"

	"github.com/skiminki/novelty-grinder/internal/explorer"
	"github.com/skiminki/novelty-grinder/internal/uci"
)

type engineCall struct {
	fen    string
	limits uci.Limits
	req    uci.Request
}

// fakeEngine records every Analyze call and delegates responses to handler.
type fakeEngine struct {
	calls   []engineCall
	handler func(fen string, limits uci.Limits, req uci.Request) ([]uci.Line, error)
}

func (e *fakeEngine) Name() string { return "fake 1.0" }

func (e *fakeEngine) Analyze(fen string, limits uci.Limits, req uci.Request) ([]uci.Line, error) {
	e.calls = append(e.calls, engineCall{fen: fen, limits: limits, req: req})
	return e.handler(fen, limits, req)
}

// fakeBook serves canned stats per FEN. Unknown positions get an empty book.
type fakeBook struct {
	calls int
	stats map[string]*explorer.Stats
}

func (b *fakeBook) Lookup(fen string) (*explorer.Stats, error) {
	b.calls++
	if s, ok := b.stats[fen]; ok {
		return s, nil
	}
	return &explorer.Stats{}, nil
}

func testRunner(cfg Config, engine Engine, book Book) *Runner {
	return NewRunner(cfg, engine, engine, book, nil, log.New(io.Discard))
}

func mustMove(t *testing.T, pos *chess.Position, san string) *chess.Move {
	t.Helper()
	m, err := chess.AlgebraicNotation{}.Decode(pos, san)
	require.NoError(t, err)
	return m
}

func testCandidate(t *testing.T, pos *chess.Position, san string, evalCP int, nodes int64) *Candidate {
	t.Helper()
	return newCandidate(pos, evalCP, nodes, []*chess.Move{mustMove(t, pos, san)})
}

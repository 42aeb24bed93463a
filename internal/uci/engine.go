package uci

import (
	"bufio"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// mateScore is the sentinel magnitude mate distances collapse to, so that
// mate scores order above (or below) every centipawn score while still
// preferring shorter mates.
const mateScore = 1000000

// analysisOptions are applied to every engine on top of its registry
// configuration. These are Lc0-specific and need revising when other
// engines are supported.
var analysisOptions = map[string]string{
	// Don't stop early, we want all the nodes for the PVs regardless of
	// whether the top move has been decided.
	"SmartPruningFactor": "0",

	// Expected score output. Range is 0..10000 for 0..100%.
	"ScoreType": "win_percentage",

	// For per-PV node counts.
	"PerPVCounters": "true",
}

// Limits bounds one analysis request. Node-budget-bounded search is the
// engine's own responsibility; there is no timeout here.
type Limits struct {
	Nodes int64
}

// Request carries the non-limit parameters of one analysis call.
type Request struct {
	// MultiPV is the number of independently evaluated lines to request.
	MultiPV int

	// SearchMoves restricts the search to the given UCI moves.
	SearchMoves []string

	// Temporary options are applied for this call only and restored
	// afterwards.
	Temporary map[string]string
}

// Line is one ranked engine line.
type Line struct {
	// ScoreCP is the score relative to the side to move, in the engine's
	// configured unit. Mate distances are collapsed to ±(mateScore−N).
	ScoreCP int
	Nodes   int64
	PV      []string // UCI moves, first entry is the line's move
}

// Engine wraps a running UCI engine process. All calls are synchronous; a
// hung engine blocks its caller.
type Engine struct {
	name    string
	cmd     *exec.Cmd
	stdin   *bufio.Writer
	stdout  *bufio.Scanner
	current map[string]string
	log     *log.Logger
}

// Start spawns the engine, performs the UCI handshake and applies the
// registry plus analysis options. On configuration failure the process is
// closed before the error is returned.
func Start(path string, conf EngineConf, logger *log.Logger) (*Engine, error) {
	logger.Info("initializing engine", "path", path)

	cmd := exec.Command(path, conf.Args...)

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting engine %s: %w", path, err)
	}

	stdout := bufio.NewScanner(stdoutPipe)
	stdout.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	e := &Engine{
		name:    path,
		cmd:     cmd,
		stdin:   bufio.NewWriter(stdinPipe),
		stdout:  stdout,
		current: make(map[string]string),
		log:     logger,
	}

	if err := e.configure(conf); err != nil {
		e.log.Error("failed to configure engine", "path", path, "err", err)
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) configure(conf EngineConf) error {
	e.sendCommand("uci")
	if _, ok := e.waitForResponse("uciok"); !ok {
		return fmt.Errorf("engine %s: no uciok", e.name)
	}

	for name, value := range conf.Options {
		e.setOption(name, formatOptionValue(value))
	}
	for name, value := range analysisOptions {
		e.setOption(name, value)
	}

	e.sendCommand("isready")
	if _, ok := e.waitForResponse("readyok"); !ok {
		return fmt.Errorf("engine %s: no readyok", e.name)
	}
	return nil
}

// Name returns the engine executable path.
func (e *Engine) Name() string { return e.name }

// Close asks the engine to quit and waits for the process. Failures are
// logged, never escalated.
func (e *Engine) Close() {
	e.sendCommand("quit")
	if err := e.cmd.Wait(); err != nil {
		e.log.Warn("failed to close engine", "engine", e.name, "err", err)
	}
}

// Analyze runs one node-limited, optionally move-restricted search and
// returns the ranked lines. Lines lacking a score or a principal variation
// are dropped. An exhausted output stream (engine died) is an error.
func (e *Engine) Analyze(fen string, limits Limits, req Request) ([]Line, error) {
	restore := e.applyTemporary(req.Temporary)
	defer restore()

	e.setOption("MultiPV", strconv.Itoa(req.MultiPV))
	e.sendCommand("position fen " + fen)

	goCmd := fmt.Sprintf("go nodes %d", limits.Nodes)
	if len(req.SearchMoves) > 0 {
		goCmd += " searchmoves " + strings.Join(req.SearchMoves, " ")
	}
	e.sendCommand(goCmd)

	acc := make(map[int]*infoLine)
	sawBestmove := false
	for e.stdout.Scan() {
		line := e.stdout.Text()
		if strings.HasPrefix(line, "bestmove") {
			sawBestmove = true
			break
		}
		if strings.HasPrefix(line, "info ") && !strings.HasPrefix(line, "info string") {
			parseInfoLine(line, acc)
		}
	}
	if !sawBestmove {
		return nil, fmt.Errorf("engine %s: output ended before bestmove", e.name)
	}
	return collectLines(acc), nil
}

// applyTemporary applies per-call options and returns a func restoring the
// previous values.
func (e *Engine) applyTemporary(opts map[string]string) func() {
	if len(opts) == 0 {
		return func() {}
	}
	prev := make(map[string]string, len(opts))
	for name, value := range opts {
		prev[name] = e.current[name]
		e.setOption(name, value)
	}
	return func() {
		for name, value := range prev {
			if value != "" {
				e.setOption(name, value)
			}
		}
	}
}

func (e *Engine) setOption(name, value string) {
	e.sendCommand(fmt.Sprintf("setoption name %s value %s", name, value))
	e.current[name] = value
}

func (e *Engine) sendCommand(cmd string) {
	e.stdin.WriteString(cmd + "\n")
	e.stdin.Flush()
}

func (e *Engine) waitForResponse(expected string) (string, bool) {
	for e.stdout.Scan() {
		line := e.stdout.Text()
		if strings.HasPrefix(line, expected) {
			return line, true
		}
	}
	return "", false
}

type infoLine struct {
	score    int
	hasScore bool
	nodes    int64
	pv       []string
}

// parseInfoLine folds one "info ..." line into the per-multipv accumulator,
// keeping the latest line per index. Lines without a multipv token count as
// index 1.
func parseInfoLine(line string, acc map[int]*infoLine) {
	parts := strings.Fields(line)
	info := infoLine{}
	idx := 1
	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "multipv":
			if i+1 < len(parts) {
				if n, err := strconv.Atoi(parts[i+1]); err == nil {
					idx = n
				}
			}
		case "score":
			if i+2 < len(parts) {
				n, err := strconv.Atoi(parts[i+2])
				if err != nil {
					break
				}
				switch parts[i+1] {
				case "cp":
					info.score = n
					info.hasScore = true
				case "mate":
					info.score = collapseMate(n)
					info.hasScore = true
				}
			}
		case "nodes":
			if i+1 < len(parts) {
				info.nodes, _ = strconv.ParseInt(parts[i+1], 10, 64)
			}
		case "pv":
			info.pv = parts[i+1:]
			i = len(parts)
		}
	}
	acc[idx] = &info
}

func collapseMate(distance int) int {
	if distance < 0 {
		return -mateScore - distance
	}
	return mateScore - distance
}

// collectLines orders the accumulated lines by multipv index and drops
// lines lacking either a score or a principal variation.
func collectLines(acc map[int]*infoLine) []Line {
	indexes := make([]int, 0, len(acc))
	for idx := range acc {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	lines := make([]Line, 0, len(acc))
	for _, idx := range indexes {
		info := acc[idx]
		if !info.hasScore || len(info.pv) == 0 {
			continue
		}
		lines = append(lines, Line{ScoreCP: info.score, Nodes: info.nodes, PV: info.pv})
	}
	return lines
}

func formatOptionValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

package analysis

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/corentings/chess"

	"github.com/skiminki/novelty-grinder/internal/chesstree"
	"github.com/skiminki/novelty-grinder/internal/diagram"
)

// Version is the tool version recorded in the Annotator header.
const Version = "0.1-dev"

// Runner drives the candidate pipeline over games. It owns the per-run
// state: engine references, book client and diagram writer. The book
// cutoff latch is per game, not per run.
type Runner struct {
	cfg      Config
	white    Engine
	black    Engine
	book     Book
	diagrams *diagram.Writer
	log      *log.Logger
}

// NewRunner assembles a runner. Either engine may be nil, in which case
// that side's positions are not analyzed. diagrams may be nil.
func NewRunner(cfg Config, white, black Engine, book Book, diagrams *diagram.Writer, logger *log.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		white:    white,
		black:    black,
		book:     book,
		diagrams: diagrams,
		log:      logger,
	}
}

// AnalyzeGame walks the mainline of g, analyzing each position and building
// the annotated output game in lock-step. The book cutoff latch is one-way:
// once a position's book size falls below the cutoff, every later ply is
// skipped, though the mainline is still copied.
func (r *Runner) AnalyzeGame(g *chesstree.Game, num int) (*chesstree.Game, *Summary, error) {
	r.log.Info("analyzing game", "num", num)

	out, err := chesstree.NewGameFromFEN(g.Root().Position().String())
	if err != nil {
		return nil, nil, err
	}
	for _, t := range g.Tags() {
		out.SetTag(t.Key, t.Value)
	}
	out.Result = g.Result
	out.SetTag("Annotator", r.annotatorHeader())

	summary := NewSummary(r.summaryEngineName())

	node := g.Root()
	outNode := out.Root()
	stopAnalysis := false

	for {
		skip := stopAnalysis
		pos := node.Position()

		if outNode.Comment != "" {
			outNode.Comment += "; "
		}

		if chesstree.FullmoveNumber(pos) < r.cfg.FirstMove {
			skip = true
		}

		engine := r.white
		if pos.Turn() == chess.Black {
			engine = r.black
		}

		if !skip && engine != nil {
			cont, err := r.analyzePosition(engine, node, outNode, summary)
			if err != nil {
				return nil, nil, err
			}
			stopAnalysis = !cont
		}

		next := node.MainChild()
		if next == nil {
			break
		}
		node = next

		if promoted := outNode.PromoteToMain(next.Move()); promoted != nil {
			outNode = promoted
		} else {
			outNode = outNode.AddMainVariation(next.Move())
		}

		if !skip {
			summary.AnalyzedLine = out.MainlineSAN()
		}
	}

	return out, summary, nil
}

func (r *Runner) annotatorHeader() string {
	parts := []string{"Novelty Grinder " + Version}
	if r.cfg.EngineName != "" {
		parts = append(parts, "White: "+r.cfg.EngineName, "Black: "+r.cfg.EngineName)
	}
	if r.cfg.WhiteEngineName != "" {
		parts = append(parts, "White: "+r.cfg.WhiteEngineName)
	}
	if r.cfg.BlackEngineName != "" {
		parts = append(parts, "Black: "+r.cfg.BlackEngineName)
	}
	parts = append(parts, "Lichess Masters DB", time.Now().Format("2006-01-02"))

	header := ""
	for i, p := range parts {
		if i > 0 {
			header += "; "
		}
		header += p
	}
	return header
}

func (r *Runner) summaryEngineName() string {
	name := r.cfg.EngineName
	if r.cfg.WhiteEngineName != "" {
		name = r.cfg.WhiteEngineName
	}
	if r.cfg.BlackEngineName != "" {
		name = r.cfg.BlackEngineName
	}
	return name
}

// analyzePosition classifies the candidate moves of one position and writes
// the resulting annotations into the mirrored output node. Returns false
// when the book cutoff latches.
func (r *Runner) analyzePosition(engine Engine, node, outNode *chesstree.Node, summary *Summary) (bool, error) {
	pos := node.Position()
	r.log.Info("analyzing position", "move", moveNumString(pos))

	stats, err := r.book.Lookup(pos.String())
	if err != nil {
		return false, err
	}

	totalGames := stats.TotalGames()
	gamesThreshold := float64(totalGames) * r.cfg.RarityThresholdFreq
	if gamesThreshold < float64(r.cfg.RarityThresholdCount) {
		gamesThreshold = float64(r.cfg.RarityThresholdCount)
	}

	// annotate the book size for this position
	outNode.Comment += fmt.Sprintf("N=%d", totalGames)

	if totalGames < r.cfg.BookCutoff {
		r.log.Info("book cut-off triggered", "bookGames", totalGames)
		return false, nil
	}

	cands, threshold, err := r.engineAnalysis(engine, pos)
	if err != nil {
		return false, err
	}

	if r.cfg.IncludeInput {
		cands = forceAddInputMoves(cands, node)
	}

	cands = pruneWeakMoves(cands, threshold-r.cfg.InitialEvalMargin)

	if len(cands) > 0 {
		outNode.Comment += " Eval=" + scoreToString(cands[0].EvalCP, pos.Turn())
	}

	r.log.Debug("initial analysis", "candidates", candidateListString(cands))

	if !r.cfg.IncludeInput {
		cands = filterOutVariations(cands, node)
	}

	summary.addBookStats(node.Ply(), totalGames)

	cands = r.classifyPopularity(pos, cands, stats, gamesThreshold, totalGames)

	r.log.Debug("after book and input move reduction",
		"candidates", candidateListString(cands), "bookGames", totalGames)

	cands, err = r.doubleCheck(engine, pos, cands)
	if err != nil {
		return false, err
	}

	cands = pruneWeakMoves(cands, threshold)

	r.log.Debug("after final analysis", "candidates", candidateListString(cands))

	enableDiagram := r.annotate(node, outNode, cands, summary)

	if enableDiagram && r.diagrams != nil {
		if err := r.writeDiagram(node, cands); err != nil {
			return false, err
		}
	}

	return true, nil
}

// moveNumString renders a position as "<fullmove><side-letter>", e.g. "13w".
func moveNumString(pos *chess.Position) string {
	side := "b"
	if pos.Turn() == chess.White {
		side = "w"
	}
	return strconv.Itoa(chesstree.FullmoveNumber(pos)) + side
}

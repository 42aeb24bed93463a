package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skiminki/novelty-grinder/internal/analysis"
	"github.com/skiminki/novelty-grinder/internal/diagram"
	"github.com/skiminki/novelty-grinder/internal/uci"
)

var opts struct {
	enginesJSONPath  string
	lichessTokenFile string
	whiteEngine      string
	blackEngine      string
	engine           string

	analysisNodes        int64
	evalThresholdCp      int
	initialEvalMarginCp  int
	rarityThresholdFreq  float64
	rarityThresholdCount int
	firstMove            int
	bookCutoff           int
	doubleCheckNodes     int64
	pvPlies              int

	arrows         bool
	includeInput   bool
	summary        bool
	diagramPattern string
	debug          bool
}

var rootCmd = &cobra.Command{
	Use:   "novelty-grinder [flags] FILE.pgn...",
	Short: "The Grand Novelty Grinder searches for surprise moves and novelties",
	Long: `The Grand Novelty Grinder searches for surprise moves and novelties with
Lc0 and Lichess.

Quick instructions:
(1) Configure Lc0 for Nibbler. When using contempt, configure both colors
separately.
(2) Prepare lines or games to analyze in FILE.pgn.
(3) Run the novelty grinder to find interesting novelties and rarities.
Annotated PGN is written in stdout.`,
	Version:      analysis.Version,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.SetVersionTemplate("novelty-grinder {{.Version}}\n")

	f := rootCmd.Flags()
	f.StringVarP(&opts.enginesJSONPath, "engines-json", "E", uci.DefaultRegistryPath(),
		"Nibbler engines.json file")
	f.StringVarP(&opts.lichessTokenFile, "lichess-token-file", "T", "",
		"Lichess API token file. Optional, may help in case of getting API rate-limited.")
	f.StringVarP(&opts.whiteEngine, "white-engine", "w", "",
		"Engine for white side analysis. Full path can be omitted as long as the engine is unambiguous.")
	f.StringVarP(&opts.blackEngine, "black-engine", "b", "",
		"Engine for black side analysis. Full path can be omitted as long as the engine is unambiguous.")
	f.StringVarP(&opts.engine, "engine", "e", "",
		"Analysis engine for both sides. Full path can be omitted as long as the engine is unambiguous.")
	f.Int64VarP(&opts.analysisNodes, "nodes", "n", 100000,
		"Nodes per move to analyze.")
	f.IntVar(&opts.evalThresholdCp, "eval-threshold", 200,
		"Engine evaluation score threshold for considering novelties. Moves with at least "+
			"(FIRST_PV_SCORE - EVAL_DIFF) evaluation score are considered for novelties. In centipawns. "+
			"Note: Comparison is against the first PV move, not the highest PV evaluation.")
	f.IntVar(&opts.initialEvalMarginCp, "initial-eval-margin", 300,
		"Extra margin for initial analysis score threshold. In centipawns. The extra margin allows "+
			"considering moves that have lower score with low node count but improved score with more nodes.")
	f.Float64Var(&opts.rarityThresholdFreq, "rarity-threshold-freq", 0.05,
		"Book moves that are played at most FREQ frequency are considered 'rare' moves.")
	f.IntVar(&opts.rarityThresholdCount, "rarity-threshold-count", 0,
		"Book move that is played at most NUM times total are considered 'rare' moves regardless of the frequency.")
	f.IntVar(&opts.firstMove, "first-move", 1,
		"First move to analyze (skip previous).")
	f.IntVar(&opts.bookCutoff, "book-cutoff", 2,
		"Stop analysis when the book has fewer than at most NUM games.")
	f.Int64Var(&opts.doubleCheckNodes, "double-check-nodes", -1,
		"After initial analysis, do focused analysis on candidate moves until they have at least NUM nodes. "+
			"This improves quality of suggested alternative moves. Default (-1) stands for 10% of NODES as "+
			"specified with --nodes.")
	f.IntVar(&opts.pvPlies, "pv-plies", 1,
		"Number of PV plies (half-moves) to add in PGN variations for surprise moves.")
	f.BoolVar(&opts.arrows, "arrows", false,
		"Add arrows in the annotated PGN: red = novelty; green = unpopular move.")
	f.BoolVar(&opts.includeInput, "include-input", false,
		"Include input moves in analysis.")
	f.BoolVar(&opts.summary, "summary", false,
		"Produce a summary of potential surprise moves.")
	f.StringVar(&opts.diagramPattern, "diagrams", "",
		"Produce diagrams from positions where moves were found. In PATTERN, '{}' is replaced with move "+
			"number and side to move. For example: --diagrams=ANALYZED-{}.svg. Formats supported: svg")
	f.BoolVar(&opts.debug, "debug", false,
		"Enable debug mode")
}

// validateOptions surfaces configuration errors before any engine is
// spawned.
func validateOptions(args []string) error {
	if opts.engine != "" && opts.whiteEngine != "" {
		return errors.New("--engine and --white-engine are mutually exclusive")
	}
	if opts.engine != "" && opts.blackEngine != "" {
		return errors.New("--engine and --black-engine are mutually exclusive")
	}
	if opts.enginesJSONPath == "" {
		return errors.New("--engines-json must be specified")
	}
	if opts.engine == "" && opts.whiteEngine == "" && opts.blackEngine == "" {
		return errors.New("an analysis engine must be specified, try -h for help")
	}
	if len(args) == 0 {
		return errors.New("no input PGN was specified")
	}
	if opts.pvPlies < 1 {
		return errors.New("--pv-plies: must be at least 1")
	}
	if opts.diagramPattern != "" {
		if err := diagram.ValidatePattern(opts.diagramPattern); err != nil {
			return fmt.Errorf("--diagrams: %w", err)
		}
	}
	if opts.doubleCheckNodes == -1 {
		opts.doubleCheckNodes = (opts.analysisNodes + 9) / 10 // ceiling of 10%
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skiminki/novelty-grinder/internal/analysis"
	"github.com/skiminki/novelty-grinder/internal/chesstree"
	"github.com/skiminki/novelty-grinder/internal/diagram"
	"github.com/skiminki/novelty-grinder/internal/explorer"
)

func run(cmd *cobra.Command, args []string) error {
	if err := validateOptions(args); err != nil {
		return err
	}

	level := log.InfoLevel
	if opts.debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	logger.Info("engine configuration file", "path", opts.enginesJSONPath)
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	engines, err := initializeEngines(registry, logger)
	if err != nil {
		return err
	}
	defer engines.close(logger)

	token, err := readTokenFile(opts.lichessTokenFile)
	if err != nil {
		return err
	}
	book := explorer.NewClient(token, logger)

	var diagrams *diagram.Writer
	if opts.diagramPattern != "" {
		diagrams, err = diagram.NewWriter(opts.diagramPattern, logger)
		if err != nil {
			return err
		}
	}

	cfg := analysis.Config{
		AnalysisNodes:        opts.analysisNodes,
		EvalThreshold:        opts.evalThresholdCp,
		InitialEvalMargin:    opts.initialEvalMarginCp,
		RarityThresholdFreq:  opts.rarityThresholdFreq,
		RarityThresholdCount: opts.rarityThresholdCount,
		DoubleCheckNodes:     opts.doubleCheckNodes,
		FirstMove:            opts.firstMove,
		BookCutoff:           opts.bookCutoff,
		PVPlies:              opts.pvPlies,
		Arrows:               opts.arrows,
		IncludeInput:         opts.includeInput,
		EngineName:           opts.engine,
		WhiteEngineName:      opts.whiteEngine,
		BlackEngineName:      opts.blackEngine,
	}

	var white, black analysis.Engine
	if engines.white != nil {
		white = engines.white
	}
	if engines.black != nil {
		black = engines.black
	}
	runner := analysis.NewRunner(cfg, white, black, book, diagrams, logger)

	for _, path := range args {
		if err := processFile(runner, path); err != nil {
			return err
		}
	}
	return nil
}

func processFile(runner *analysis.Runner, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input PGN: %w", err)
	}
	defer f.Close()

	reader, err := chesstree.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for num := 1; ; num++ {
		game, err := reader.ReadGame()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		annotated, summary, err := runner.AnalyzeGame(game, num)
		if err != nil {
			return err
		}

		fmt.Println(annotated.String())

		if opts.summary {
			summary.Print(os.Stderr, game)
		}
	}
}

func readTokenFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading Lichess token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

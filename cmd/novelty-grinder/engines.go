package main

import (
	"github.com/charmbracelet/log"

	"github.com/skiminki/novelty-grinder/internal/uci"
)

// engineSet holds the per-side engine handles. Both sides may share one
// engine instance.
type engineSet struct {
	white *uci.Engine
	black *uci.Engine
}

func loadRegistry() (uci.Registry, error) {
	return uci.LoadRegistry(opts.enginesJSONPath)
}

// initializeEngines resolves and spawns the configured engines. On any
// failure, already-opened engines are closed before the error is returned.
func initializeEngines(registry uci.Registry, logger *log.Logger) (*engineSet, error) {
	engines := &engineSet{}

	if opts.engine != "" {
		path, conf, err := registry.Resolve(opts.engine)
		if err != nil {
			return nil, err
		}
		e, err := uci.Start(path, conf, logger)
		if err != nil {
			return nil, err
		}
		engines.white = e
		engines.black = e
	}

	if opts.whiteEngine != "" {
		path, conf, err := registry.Resolve(opts.whiteEngine)
		if err != nil {
			return nil, err
		}
		e, err := uci.Start(path, conf, logger)
		if err != nil {
			return nil, err
		}
		engines.white = e
	}

	if opts.blackEngine != "" {
		path, conf, err := registry.Resolve(opts.blackEngine)
		if err != nil {
			engines.close(logger)
			return nil, err
		}
		e, err := uci.Start(path, conf, logger)
		if err != nil {
			engines.close(logger)
			return nil, err
		}
		engines.black = e
	}

	return engines, nil
}

// close releases the engines, closing a shared instance only once. Close
// failures are logged by the engine, not escalated.
func (s *engineSet) close(logger *log.Logger) {
	logger.Info("closing engines...")
	if s.white != nil {
		s.white.Close()
	}
	if s.black != nil && s.black != s.white {
		s.black.Close()
	}
}

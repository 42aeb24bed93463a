package analysis

// Config carries the per-run analysis parameters. All thresholds are in the
// engine's score unit (win-percentage centi-points for Lc0).
type Config struct {
	// AnalysisNodes is the node budget of the initial multi-line analysis.
	AnalysisNodes int64

	// EvalThreshold is subtracted from the first line's score to form the
	// candidate strength threshold. The comparison is against the first
	// line, not the highest evaluation.
	EvalThreshold int

	// InitialEvalMargin is additionally subtracted for the pre-refinement
	// prune only, admitting moves whose score may improve with more nodes.
	InitialEvalMargin int

	// RarityThresholdFreq classifies book moves played at most this
	// frequency as unpopular.
	RarityThresholdFreq float64

	// RarityThresholdCount classifies book moves played at most this many
	// times as unpopular regardless of frequency.
	RarityThresholdCount int

	// DoubleCheckNodes is the per-candidate node target of the focused
	// refinement analysis.
	DoubleCheckNodes int64

	// FirstMove skips analysis of earlier full moves.
	FirstMove int

	// BookCutoff stops analysis for the rest of the game once a position
	// has fewer book games than this.
	BookCutoff int

	// PVPlies is the number of principal variation half-moves added to the
	// annotated output for surprise moves.
	PVPlies int

	// Arrows enables the [%cal ...] arrow directives in the output.
	Arrows bool

	// IncludeInput merges the input line's own variations into the
	// candidate set instead of excluding them.
	IncludeInput bool

	// Engine names as given on the command line, for the Annotator header
	// and the summary.
	EngineName      string
	WhiteEngineName string
	BlackEngineName string
}

// multiLineCount is the multi-PV count requested from the engine. Large
// enough that the candidate set is never truncated by the engine's own
// ranking.
const multiLineCount = 100

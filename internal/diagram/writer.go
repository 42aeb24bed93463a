package diagram

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Writer produces per-position diagram files from a filename pattern. The
// pattern's "{}" placeholder is replaced with the zero-padded move number
// and side letter, e.g. "ANALYZED-{}.svg" → "ANALYZED-013w.svg".
type Writer struct {
	pattern string
	log     *log.Logger
}

// NewWriter validates the pattern and returns a writer.
func NewWriter(pattern string, logger *log.Logger) (*Writer, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}
	return &Writer{pattern: pattern, log: logger}, nil
}

// ValidatePattern checks that the pattern has the move-number placeholder
// and a supported format suffix.
func ValidatePattern(pattern string) error {
	if !strings.Contains(pattern, "{}") {
		return fmt.Errorf("bad diagram pattern (missing {})")
	}
	dot := strings.LastIndexByte(pattern, '.')
	suffix := ""
	if dot >= 0 {
		suffix = strings.ToUpper(pattern[dot+1:])
	}
	if suffix != "SVG" {
		return fmt.Errorf("bad diagram format: %s", suffix)
	}
	return nil
}

// FileName resolves the pattern for one position, identified by its
// "<fullmove><side-letter>" string.
func (w *Writer) FileName(moveNum string) string {
	for len(moveNum) < 3 {
		moveNum = "0" + moveNum
	}
	return strings.Replace(w.pattern, "{}", moveNum, 1)
}

// WriteFile writes one rendered diagram.
func (w *Writer) WriteFile(name, svg string) error {
	w.log.Info("writing diagram file", "file", name)
	if err := os.WriteFile(name, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("writing diagram: %w", err)
	}
	return nil
}

package quote

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Writer persists quote documents as JSON files in an output directory.
// File names follow quote_<YYYYMMDD_HHMMSS>.json; two generations within
// the same second overwrite each other, which is an accepted limitation.
type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

func (w *Writer) Write(doc *Document) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("quote_%s.json", doc.Date.Format("20060102_150405"))
	path := filepath.Join(w.outputDir, name)

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal quote document: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write quote file: %w", err)
	}

	log.Info().Str("path", path).Str("quote_id", doc.ID).Msg("quote document written")
	return path, nil
}

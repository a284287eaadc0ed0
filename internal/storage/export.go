package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/fireworks/internal/sim"
)

type ExportData struct {
	RunMetadata
	Samples []sim.Sample `json:"samples"`
}

// ExportJSON writes meta and the samples of result as one indented JSON
// document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	meta.Steps = result.Steps
	meta.Metrics = result.Metrics
	data := ExportData{RunMetadata: meta, Samples: result.Samples}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONFile(path string, meta RunMetadata, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ExportJSON(f, meta, result)
}

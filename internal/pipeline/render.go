package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/phishlens/internal/model"
)

// Renderer writes verdicts to the console and to JSON files
type Renderer struct {
	now func() time.Time
}

// NewRenderer creates a renderer stamping reports with the current time
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// RenderSummary prints the label, score and reasons of a verdict
func (r *Renderer) RenderSummary(w io.Writer, v model.Verdict) error {
	if _, err := fmt.Fprintf(w, "[%s] score=%3d  url=%s\n", v.Label, v.Score, v.URL); err != nil {
		return err
	}
	for _, reason := range v.Reasons {
		if _, err := fmt.Fprintf(w, "  - %s\n", reason); err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes verdicts wrapped in a generated_at envelope to path
func (r *Renderer) RenderJSON(verdicts []model.Verdict, path string) (err error) {
	report := model.NewBatchReport(verdicts, r.now())

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", closeErr)
		}
	}()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

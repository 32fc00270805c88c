package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/phishlens/internal/model"
)

// Analyzer classifies a single URL
type Analyzer interface {
	AnalyzeURL(ctx context.Context, url string) model.Verdict
}

// AnalyzeJob classifies one URL
type AnalyzeJob struct {
	URL      string
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	verdict := j.Analyzer.AnalyzeURL(ctx, j.URL)
	return &ScanResult{URL: j.URL, Verdict: &verdict}
}

// ScanResult is the outcome of one batch entry. Verdict is nil only when the
// analyzer panicked.
type ScanResult struct {
	URL     string
	Verdict *model.Verdict
	Error   error
}

// GetError returns the error from the scan result
func (r *ScanResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many URLs concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessURLs analyzes urls and returns exactly one result per input, in
// input order. A failing entry never affects the others. Every URL is
// analyzed even after ctx is done; lookups then fail fast and the verdict
// records the failed check.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ScanResult {
	if len(urls) == 0 {
		return []*ScanResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, u := range urls {
		pool.Submit(&AnalyzeJob{URL: u, Analyzer: b.analyzer})
	}

	results := pool.Wait()

	out := make([]*ScanResult, len(urls))
	for i, r := range results {
		switch res := r.(type) {
		case *ScanResult:
			out[i] = res
		default:
			out[i] = &ScanResult{URL: urls[i], Error: res.GetError()}
		}
	}

	return out
}

// ProcessFile reads URLs from a file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// Verdicts returns the verdicts of successful results, preserving order
func Verdicts(results []*ScanResult) []model.Verdict {
	verdicts := make([]model.Verdict, 0, len(results))
	for _, r := range results {
		if r.Verdict != nil {
			verdicts = append(verdicts, *r.Verdict)
		}
	}
	return verdicts
}

// ReadURLsFromFile reads URLs from a file, one per line. Blank lines and
// lines starting with '#' are skipped; duplicates are kept.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}

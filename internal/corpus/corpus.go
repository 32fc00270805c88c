package corpus

import (
	"bufio"
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// Reference list file names, shared by the embedded defaults and user directories
const (
	SuspiciousTLDsFile = "suspicious_tlds.txt"
	ShortenersFile     = "shorteners.txt"
	LegitDomainsFile   = "legit_domains.txt"
	KeywordsFile       = "keywords.txt"
)

//go:embed data/*.txt
var embedded embed.FS

// builtinKeywords are always merged into the keyword list so that keyword
// coverage never depends on an external file.
var builtinKeywords = []string{
	"login", "signin", "verify", "verification", "secure", "account",
	"password", "update", "billing", "payment", "confirm", "support",
	"security", "auth", "oauth", "bank", "invoice",
}

// Corpus is the read-only reference data used by the extractor.
// It is safe for concurrent use once built.
type Corpus struct {
	suspiciousTLDs map[string]struct{}
	shorteners     map[string]struct{}
	legitDomains   []string
	keywords       []string
}

// Stats summarises corpus sizes
type Stats struct {
	SuspiciousTLDs int `yaml:"suspicious_tlds"`
	Shorteners     int `yaml:"shorteners"`
	LegitDomains   int `yaml:"legit_domains"`
	Keywords       int `yaml:"keywords"`
}

// Load builds a corpus from the four reference files in fsys.
// Missing files contribute nothing.
func Load(fsys fs.FS) *Corpus {
	c := &Corpus{
		suspiciousTLDs: toSet(LoadLines(fsys, SuspiciousTLDsFile)),
		shorteners:     toSet(trimDots(LoadLines(fsys, ShortenersFile))),
		legitDomains:   dedupe(trimDots(LoadLines(fsys, LegitDomainsFile))),
	}

	keywords := toSet(LoadLines(fsys, KeywordsFile))
	for _, kw := range builtinKeywords {
		keywords[kw] = struct{}{}
	}
	c.keywords = make([]string, 0, len(keywords))
	for kw := range keywords {
		c.keywords = append(c.keywords, kw)
	}
	sort.Strings(c.keywords)

	return c
}

// LoadDir loads a corpus from a directory, or the built-in lists when dir is empty
func LoadDir(dir string) *Corpus {
	if dir == "" {
		return Default()
	}
	return Load(os.DirFS(dir))
}

var (
	defaultOnce   sync.Once
	defaultCorpus *Corpus
)

// Default returns the process-wide corpus built from the embedded lists.
// It is constructed on first use.
func Default() *Corpus {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			// embed paths are fixed at build time
			panic(err)
		}
		defaultCorpus = Load(sub)
	})
	return defaultCorpus
}

// LoadLines reads a newline-delimited list, skipping blank and '#' lines
// and lower-casing every entry. A missing or unreadable file yields nil.
func LoadLines(fsys fs.FS, name string) []string {
	f, err := fsys.Open(name)
	if err != nil {
		slog.Debug("corpus file unavailable", "file", name, "error", err)
		return nil
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("corpus file truncated", "file", name, "error", err)
	}

	return lines
}

// IsSuspiciousTLD reports whether tld is on the abused-TLD list
func (c *Corpus) IsSuspiciousTLD(tld string) bool {
	if tld == "" {
		return false
	}
	_, ok := c.suspiciousTLDs[tld]
	return ok
}

// IsShortener reports whether host is a known URL shortener
func (c *Corpus) IsShortener(host string) bool {
	_, ok := c.shorteners[strings.TrimRight(strings.ToLower(host), ".")]
	return ok
}

// LegitDomains returns the reference domains in file order
func (c *Corpus) LegitDomains() []string {
	return append([]string(nil), c.legitDomains...)
}

// Keywords returns the sorted keyword list
func (c *Corpus) Keywords() []string {
	return append([]string(nil), c.keywords...)
}

// Stats returns the size of each list
func (c *Corpus) Stats() Stats {
	return Stats{
		SuspiciousTLDs: len(c.suspiciousTLDs),
		Shorteners:     len(c.shorteners),
		LegitDomains:   len(c.legitDomains),
		Keywords:       len(c.keywords),
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func trimDots(items []string) []string {
	for i, item := range items {
		items[i] = strings.TrimRight(item, ".")
	}
	return items
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

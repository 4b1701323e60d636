package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/ctlearl/internal/ctllog"
	"github.com/roach88/ctlearl/internal/earl"
	"github.com/roach88/ctlearl/internal/rdf"
)

// FileName is the name of the report written into the output directory.
const FileName = "earl-results.rdf"

// DefaultBaseURIPrefix prefixes the output directory name to form the
// report's base IRI.
const DefaultBaseURIPrefix = "http://example.org/earl/"

// Generator converts CTL execution logs into EARL reports.
// The zero value is ready to use.
type Generator struct {
	Assertor      earl.Assertor
	Lang          string
	BaseURIPrefix string
	Clock         earl.Clock
	// Normalizer derives record keys; an empty Separator selects the
	// platform default.
	Normalizer ctllog.Normalizer
	Logger     *slog.Logger
}

// Summary describes a generated (or summarized) report.
type Summary struct {
	Suite        string             `json:"suite"`
	Subject      string             `json:"subject"`
	OutputPath   string             `json:"output_path,omitempty"`
	Created      time.Time          `json:"created"`
	Assertions   int                `json:"assertions"`
	Requirements []earl.Requirement `json:"requirements"`
	// Graph is the report graph the summary was taken from.
	Graph *rdf.Graph `json:"-"`
}

// Build parses logFile and walks it into a new report graph.
func (g *Generator) Build(logFile, suite, subject string) (*earl.Builder, error) {
	logger := g.logger()

	doc, err := ctllog.ParseFile(logFile)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", logFile, err)
	}
	logger.Debug("execution log parsed",
		"file", logFile,
		"executions", len(doc.Executions),
	)

	b := earl.NewBuilder(earl.Options{
		Assertor: g.Assertor,
		Lang:     g.Lang,
		Clock:    g.Clock,
	})
	if err := b.Initialize(suite, subject); err != nil {
		return nil, err
	}

	norm := g.Normalizer
	if norm.Separator == "" {
		norm = ctllog.DefaultNormalizer()
	}
	w := NewWalker(b, ctllog.NewLogIndex(norm), logger)
	if err := w.Walk(doc); err != nil {
		return nil, err
	}
	if err := b.AttachRequirements(); err != nil {
		return nil, err
	}
	return b, nil
}

// Summarize walks logFile and reports the per-requirement tallies without
// writing anything.
func (g *Generator) Summarize(logFile, suite, subject string) (*Summary, error) {
	b, err := g.Build(logFile, suite, subject)
	if err != nil {
		return nil, err
	}
	return summarize(b, suite, subject, ""), nil
}

// Generate writes the EARL report for logFile to outputDir/earl-results.rdf,
// replacing any existing report. The output directory is created when
// missing. On any error no report file is left behind.
func (g *Generator) Generate(outputDir, logFile, suite, subject string) (*Summary, error) {
	b, err := g.Build(logFile, suite, subject)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, &IOError{Path: outputDir, Op: "resolve", Err: err}
	}

	var buf bytes.Buffer
	opts := rdf.RDFXMLOptions{BaseIRI: BaseIRI(g.BaseURIPrefix, abs)}
	if err := rdf.WriteRDFXML(&buf, b.Graph(), opts); err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}

	dest := filepath.Join(abs, FileName)
	if err := writeFileAtomic(dest, &buf); err != nil {
		return nil, err
	}
	g.logger().Info("report written",
		"path", dest,
		"assertions", b.Assertions(),
		"requirements", len(b.Requirements()),
	)
	return summarize(b, suite, subject, dest), nil
}

// GenerateReport writes outputDir/earl-results.rdf for rawLogFile using the
// default assertor and base IRI.
func GenerateReport(outputDir, rawLogFile, suite, subject string) error {
	var g Generator
	_, err := g.Generate(outputDir, rawLogFile, suite, subject)
	return err
}

// BaseIRI returns prefix + the output directory's name + "/".
func BaseIRI(prefix, outputDir string) string {
	if prefix == "" {
		prefix = DefaultBaseURIPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + filepath.Base(outputDir) + "/"
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.Logger
}

func summarize(b *earl.Builder, suite, subject, path string) *Summary {
	return &Summary{
		Suite:        suite,
		Subject:      subject,
		OutputPath:   path,
		Created:      b.Created(),
		Assertions:   b.Assertions(),
		Requirements: b.Requirements(),
		Graph:        b.Graph(),
	}
}

// writeFileAtomic writes r to a temporary file next to dest and renames it
// over dest. The temporary file is removed on every failure path.
func writeFileAtomic(dest string, r io.Reader) (err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Path: dir, Op: "create directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+"-*")
	if err != nil {
		return &IOError{Path: dest, Op: "create", Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return &IOError{Path: dest, Op: "write", Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return &IOError{Path: dest, Op: "chmod", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Path: dest, Op: "close", Err: err}
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return &IOError{Path: dest, Op: "rename", Err: err}
	}
	return nil
}

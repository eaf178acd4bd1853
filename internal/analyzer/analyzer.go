package analyzer

import (
	"os"

	"github.com/logtally/internal/parser"
)

// Report holds the tallies collected from one pass over an access log.
type Report struct {
	Source   string
	Lines    int
	IPs      *Tally
	Pages    *Tally
	NotFound int
}

// NewReport returns an empty report for source.
func NewReport(source string) *Report {
	return &Report{
		Source: source,
		IPs:    NewTally(),
		Pages:  NewTally(),
	}
}

// Add feeds a single line into the report.
func (r *Report) Add(line string) {
	r.Lines++

	m := parser.Scan(line)
	if m.HasIP {
		r.IPs.Inc(m.IP)
	}
	if m.HasPath {
		r.Pages.Inc(m.Path)
	}
	if m.NotFound {
		r.NotFound++
	}
}

// AnalyzeLines tallies lines in order.
func AnalyzeLines(source string, lines []string) *Report {
	r := NewReport(source)
	for _, line := range lines {
		r.Add(line)
	}
	return r
}

// Analyze reads the whole log at inputPath and tallies it. Failing to read the
// file returns an *InputError.
func Analyze(inputPath string) (*Report, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, &InputError{Path: inputPath, Err: err}
	}
	return AnalyzeLines(inputPath, parser.SplitLines(data)), nil
}

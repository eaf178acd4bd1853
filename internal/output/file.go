package output

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/logtally/internal/analyzer"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts text, json or csv in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", errors.Errorf("unknown format %q (want text, json or csv)", s)
	}
}

// ErrOutputWrite is matched by errors.Is for any failure to write the report.
var ErrOutputWrite = errors.New("output write failed")

// OutputError reports that the report file could not be written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return "write: " + e.Err.Error()
}

func (e *OutputError) Unwrap() error { return e.Err }

func (e *OutputError) Is(target error) bool { return target == ErrOutputWrite }

// Render renders the whole report into memory.
func Render(r *analyzer.Report, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatJSON:
		err = WriteJSON(&buf, r)
	case FormatCSV:
		err = WriteCSV(&buf, r)
	case FormatText, "":
		err = WriteText(&buf, r)
	default:
		err = errors.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(err, "render report")
	}
	return buf.Bytes(), nil
}

// Write renders r and replaces the content of path with it in a single write.
// Nothing is written if rendering fails.
func Write(r *analyzer.Report, path string, f Format) error {
	data, err := Render(r, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}

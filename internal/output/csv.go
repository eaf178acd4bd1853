package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/logtally/internal/analyzer"
)

// WriteCSV writes the report as section,key,count rows.
// The 404 total is a single row with an empty key.
func WriteCSV(w io.Writer, r *analyzer.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"section", "key", "count"}); err != nil {
		return err
	}

	for _, item := range r.IPs.Items() {
		if err := cw.Write([]string{"ip", item.Name, strconv.Itoa(item.Count)}); err != nil {
			return err
		}
	}
	for _, item := range r.Pages.Items() {
		if err := cw.Write([]string{"page", item.Name, strconv.Itoa(item.Count)}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"404", "", strconv.Itoa(r.NotFound)}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

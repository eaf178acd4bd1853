package output

import (
	"fmt"
	"io"

	"github.com/logtally/internal/analyzer"
)

// WriteText writes the plain report:
//
//	IP Address Requests:
//	<ip>: <count>
//
//	Pages Requested:
//	<path>: <count>
//
//	404 Errors: <count>
func WriteText(w io.Writer, r *analyzer.Report) error {
	if _, err := fmt.Fprint(w, "IP Address Requests:\n"); err != nil {
		return err
	}
	if err := writeItems(w, r.IPs.Items()); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "\nPages Requested:\n"); err != nil {
		return err
	}
	if err := writeItems(w, r.Pages.Items()); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n404 Errors: %d\n", r.NotFound)
	return err
}

func writeItems(w io.Writer, items []analyzer.RankedItem) error {
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "%s: %d\n", item.Name, item.Count); err != nil {
			return err
		}
	}
	return nil
}

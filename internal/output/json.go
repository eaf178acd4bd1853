package output

import (
	"encoding/json"
	"io"

	"github.com/logtally/internal/analyzer"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Source         string                `json:"source"`
	Lines          int                   `json:"lines"`
	IPRequests     []analyzer.RankedItem `json:"ip_requests"`
	PagesRequested []analyzer.RankedItem `json:"pages_requested"`
	NotFound       int                   `json:"not_found"`
}

// WriteJSON writes the report as indented JSON to w. Lists keep first-seen order.
func WriteJSON(w io.Writer, r *analyzer.Report) error {
	out := JSONOutput{
		Source:         r.Source,
		Lines:          r.Lines,
		IPRequests:     r.IPs.Items(),
		PagesRequested: r.Pages.Items(),
		NotFound:       r.NotFound,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

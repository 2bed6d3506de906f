package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON encodes the report to w, optionally pretty-printed.
func WriteJSON(w io.Writer, r Report, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return nil
}

const rule = "=================================================="

// RenderText produces the human-readable summary report.
func RenderText(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sample Analysis:\n%s\n", rule)
	fmt.Fprintf(&b, "Window: %.2f seconds\n", r.WindowSeconds)
	fmt.Fprintf(&b, "Total Events: %d\n", r.TotalRecords)
	fmt.Fprintf(&b, "Forwarded Events: %d\n", r.ForwardedRecords)
	fmt.Fprintf(&b, "Filtering Efficiency: %.1f%% reduction\n", (1-r.ForwardedFraction)*100)
	if r.MalformedRecords > 0 || r.SchemaMismatches > 0 {
		fmt.Fprintf(&b, "Dropped: %d malformed, %d schema mismatches\n",
			r.MalformedRecords, r.SchemaMismatches)
	}

	fmt.Fprintf(&b, "\nDaily Estimates:\n%s\n", rule)
	fmt.Fprintf(&b, "Events per Day: %.0f\n", r.EventsPerDay)
	fmt.Fprintf(&b, "Forwarded Events per Day: %.0f\n", r.ForwardedPerDay)
	fmt.Fprintf(&b, "Events per Second (EPS): %.1f\n", r.TotalEPS)
	fmt.Fprintf(&b, "Forwarded EPS: %.1f\n", r.ForwardedEPS)
	fmt.Fprintf(&b, "SIEM Savings: %.1f EPS reduction\n", r.TotalEPS-r.ForwardedEPS)

	fmt.Fprintf(&b, "\nStorage Estimates:\n%s\n", rule)
	fmt.Fprintf(&b, "Daily Size: %.2f GB\n", r.RawDailyBytes/(1<<30))
	fmt.Fprintf(&b, "Retention Period: %d days\n", r.RetentionDays)
	fmt.Fprintf(&b, "Total Storage Required: %.2f GB\n", r.ProjectedStorageBytes/(1<<30))

	if rows := r.priorityRows(); len(rows) > 0 {
		fmt.Fprintf(&b, "\nPriority Breakdown:\n%s\n", rule)
		for _, row := range rows {
			fmt.Fprintf(&b, "%-14s %d events, %d forwarded\n",
				row.Priority+":", row.Counts.Records, row.Counts.Forwarded)
		}
	}

	return b.String()
}

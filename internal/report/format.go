package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dyluth/z32/internal/solver"
)

var csvHeader = []string{
	"Rank", "Plaintext", "Distance_in", "Clock_Hour",
	"Latitude", "Longitude", "Nearest_Scene", "Dist_mi", "Template",
}

// FormatJSON writes the record as indented JSON.
func FormatJSON(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

// FormatCSV writes one row per survivor, ranked from 1, in the order given.
func FormatCSV(w io.Writer, survivors []solver.Survivor) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, s := range survivors {
		row := []string{
			strconv.Itoa(i + 1),
			s.Readable,
			strconv.FormatFloat(s.Distance, 'f', -1, 64),
			strconv.Itoa(s.ClockHour),
			strconv.FormatFloat(s.Latitude, 'f', 6, 64),
			strconv.FormatFloat(s.Longitude, 'f', 6, 64),
			s.NearestLabel,
			strconv.FormatFloat(s.NearestMiles, 'f', 2, 64),
			s.Template,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// FormatTable writes the first limit survivors as an aligned table. A
// limit <= 0 writes all of them. Returns the number of rows written.
func FormatTable(w io.Writer, survivors []solver.Survivor, limit int) int {
	if len(survivors) == 0 {
		fmt.Fprintf(w, "No survivors\n")
		return 0
	}

	rows := survivors
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	fmt.Fprintf(w, "%-4s %-44s %-9s %-4s %-22s %-18s %7s %s\n",
		"RANK", "PLAINTEXT", "DIST_IN", "HOUR", "POSITION", "NEAREST", "MILES", "TPL")
	fmt.Fprintf(w, "%-4s %-44s %-9s %-4s %-22s %-18s %7s %s\n",
		"----", "--------------------------------------------", "---------", "----",
		"----------------------", "------------------", "-------", "---")

	for i, s := range rows {
		fmt.Fprintf(w, "%-4d %-44s %-9s %-4d %-22s %-18s %7.2f %s\n",
			i+1,
			formatPlaintext(s.Readable),
			strconv.FormatFloat(s.Distance, 'f', 4, 64),
			s.ClockHour,
			fmt.Sprintf("%.6f,%.6f", s.Latitude, s.Longitude),
			s.NearestLabel,
			s.NearestMiles,
			s.Template,
		)
	}

	if len(rows) < len(survivors) {
		fmt.Fprintf(w, "\n... %d more in %s\n", len(survivors)-len(rows), CSVFile)
	}
	return len(rows)
}

// formatPlaintext truncates long phrases for table display.
func formatPlaintext(s string) string {
	if len(s) > 44 {
		return s[:41] + "..."
	}
	return s
}

// FormatSummary writes the stage counts and the best survivor.
func FormatSummary(w io.Writer, res *solver.Result) {
	c := res.Counts
	fmt.Fprintf(w, "Total candidates:        %12d\n", c.Total)
	fmt.Fprintf(w, "Passed length (=%d):     %12d\n", res.Config.CipherLength, c.PassedLength)
	fmt.Fprintf(w, "Passed homophonic locks: %12d\n", c.PassedLocks)
	fmt.Fprintf(w, "Passed map bounds:       %12d\n", c.PassedBounds)
	fmt.Fprintf(w, "Rejection rate:          %11.4f%%\n", c.RejectionRatePct())
	fmt.Fprintf(w, "Survivors:               %12d\n", len(res.Survivors))

	if len(res.Survivors) == 0 {
		return
	}
	top := res.Survivors[0]
	fmt.Fprintf(w, "\nPrimary solution: %s\n", top.Readable)
	fmt.Fprintf(w, "  %g in x %g mi/in = %.1f mi at %d:00\n",
		top.Distance, res.Config.MapScale, top.Distance*res.Config.MapScale, top.ClockHour)
	fmt.Fprintf(w, "  (%.6f, %.6f)\n", top.Latitude, top.Longitude)
	fmt.Fprintf(w, "  Nearest: %s (%.2f mi)\n", top.NearestLabel, top.NearestMiles)
}

// Package output provides utilities for formatting and displaying the points table.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/standings-forecast/internal/standings"
	"github.com/iwvelando/standings-forecast/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatNRR renders a net run rate with an explicit sign and table precision.
func FormatNRR(nrr float64) string {
	return fmt.Sprintf("%+.*f", constants.TableNRRDecimals, nrr)
}

// PrettyFormat writes a human-readable rather than machine-readable table.
// Rows are written in the order given.
func PrettyFormat(w io.Writer, rows []standings.Row) {
	p := message.NewPrinter(language.English)

	width := len("Team")
	for _, row := range rows {
		if len(row.Team) > width {
			width = len(row.Team)
		}
	}

	_, _ = fmt.Fprintf(w, "--- Points table ---\n")
	_, _ = fmt.Fprintf(w, "Pos | %-*s | M  | W  | L  | Pts | NRR    | For        | Against\n", width, "Team")
	_, _ = fmt.Fprintf(w, "___ | %s | __ | __ | __ | ___ | ______ | __________ | _______\n", strings.Repeat("_", width))
	for i, row := range rows {
		team := fmt.Sprintf("%-*s", width, row.Team)
		_, _ = p.Fprintf(w, "%3d | %s | %2d | %2d | %2d | %3d | %s | %-10s | %s\n",
			i+1, team, row.Matches, row.Won, row.Lost, row.Points,
			FormatNRR(row.NRR), row.For, row.Against)
	}
}

// CsvFormat writes the table in comma-separated value format.
func CsvFormat(w io.Writer, rows []standings.Row) {
	_, _ = fmt.Fprintf(w, `"position","team","matches","won","lost","points","nrr","for","against"`)
	_, _ = fmt.Fprintf(w, "\n")
	for i, row := range rows {
		_, _ = fmt.Fprintf(w, `"%d","%s","%d","%d","%d","%d","%.*f","%s","%s"`,
			i+1, quote(row.Team), row.Matches, row.Won, row.Lost, row.Points,
			constants.TableNRRDecimals, row.NRR, quote(row.For), quote(row.Against))
		_, _ = fmt.Fprintf(w, "\n")
	}
}

// Write dispatches to the formatter named by format.
func Write(w io.Writer, format string, rows []standings.Row) error {
	switch format {
	case constants.OutputFormatPretty:
		PrettyFormat(w, rows)
	case constants.OutputFormatCSV:
		CsvFormat(w, rows)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}

func quote(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

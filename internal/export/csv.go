// Package export renders report data as downloadable CSV. The format is
// the dashboard's interchange contract: a header row, then one line per
// record, numeric cells rendered as whole-unit Indonesian rupiah text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var indonesian = message.NewPrinter(language.Indonesian)

// Currency formats an amount as whole-unit IDR with id-ID digit grouping,
// e.g. 150000 -> "Rp 150.000".
func Currency(amount float64) string {
	return indonesian.Sprintf("Rp %v", number.Decimal(amount, number.MaxFractionDigits(0)))
}

// Cell is one CSV field: either a string (written verbatim, the csv writer
// handles quoting) or a number (written as currency text).
type Cell struct {
	Text     string
	Number   float64
	IsNumber bool
}

func Str(s string) Cell    { return Cell{Text: s} }
func Money(v float64) Cell { return Cell{Number: v, IsNumber: true} }
func Count(n int) Cell     { return Cell{Text: fmt.Sprintf("%d", n)} }

// Write emits the header row followed by one row per record. Cells are
// quoted only when they contain commas, quotes or newlines; parsers see
// the same values as a writer that quotes every field.
func Write(w io.Writer, headers []string, rows [][]Cell) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, 0, len(headers))
	for _, row := range rows {
		record = record[:0]
		for _, cell := range row {
			if cell.IsNumber {
				record = append(record, Currency(cell.Number))
			} else {
				record = append(record, cell.Text)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename builds the download name for a report, `<report-name>.csv`.
func Filename(reportName string) string {
	return reportName + ".csv"
}

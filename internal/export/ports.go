// Package export renders collection reports to CSV and to external row
// sinks such as Google Sheets.
package export

import "context"

// RowSink is an outbound port for appending a single report row to an
// external destination. It returns a reference to where the row landed.
type RowSink interface {
	AppendRow(ctx context.Context, row []string) (rowRef string, err error)
}

/* sheets.go
 * Contains the Google Sheets writer that appends submission rows to a cube's spreadsheet
 */

package external

import (
	"context"
	"fmt"

	"deckdump-bot/api/shared"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsWriter appends rows through the Google Sheets API
type SheetsWriter struct {
	service *sheets.Service
}

// NewSheetsWriter creates a writer authenticated with a service account credentials file. Extra client options are
// applied after the credentials
func NewSheetsWriter(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*SheetsWriter, error) {
	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsWriter{service: service}, nil
}

// Append writes the request's rows after the last row of the destination range, in order
// Preconditions: Receives a context and the rows with their destination
// Postconditions: The rows are appended as raw values. A request with no rows or no destination does nothing
func (w *SheetsWriter) Append(ctx context.Context, request shared.SheetWriteRequest) error {
	if request.NoOp() {
		return nil
	}

	values := make([][]interface{}, 0, len(request.Rows))
	for _, row := range request.Rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}

	dest := request.Destination
	_, err := w.service.Spreadsheets.Values.
		Append(dest.SpreadsheetID, dest.Range, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		IncludeValuesInResponse(false).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append %d rows to %s %s: %w", len(values), dest.SpreadsheetID, dest.Range, err)
	}
	return nil
}

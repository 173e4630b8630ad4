/*
Package sheets reads raw cell blocks from Google Sheets.

PURPOSE:
  Implements grid.ValueFetcher on the Sheets API so the columnar and flat
  adapters can run against the production spreadsheets. The fetcher maps a
  sourceID to a spreadsheet ID and prefixes ranges with the configured tab
  name.

SEE ALSO:
  - source/grid: the layout adapters consuming this fetcher
*/
package sheets

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pulse/attendance-engine/attendance"
)

// Fetcher reads cell values from Google Sheets.
type Fetcher struct {
	svc *sheets.Service

	// Tab is the sheet tab name prefixed to every range, e.g. "tick".
	// Empty means ranges are passed through as given.
	Tab string
}

// NewFetcher builds a fetcher from an OAuth2 token source.
func NewFetcher(ctx context.Context, ts oauth2.TokenSource, tab string) (*Fetcher, error) {
	svc, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Fetcher{svc: svc, Tab: tab}, nil
}

// Values returns the cells of one A1 range. The sourceID is the spreadsheet
// ID; a missing spreadsheet or tab maps to ErrSourceNotFound.
func (f *Fetcher) Values(ctx context.Context, sourceID, a1Range string) ([][]any, error) {
	rng := a1Range
	if f.Tab != "" {
		rng = fmt.Sprintf("'%s'!%s", f.Tab, a1Range)
	}

	resp, err := f.svc.Spreadsheets.Values.Get(sourceID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok &&
			(apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusBadRequest) {
			return nil, fmt.Errorf("spreadsheet %s range %s: %w", sourceID, rng, attendance.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("read %s!%s: %w", sourceID, rng, err)
	}
	return resp.Values, nil
}

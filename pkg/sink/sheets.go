package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig configures the Google Sheets sink. Exactly one of
// CredentialsFile (service account) or TokenFile (previously acquired
// OAuth token) must be set; token acquisition itself is out of scope.
type SheetsConfig struct {
	SpreadsheetID   string `validate:"required"`
	SheetName       string `validate:"required"`
	CredentialsFile string
	TokenFile       string
}

// Sheets writes to a Google Sheets spreadsheet through the v4 API.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string

	sheetID *int64 // resolved lazily for formatting requests
}

// NewSheets creates the Sheets sink.
func NewSheets(ctx context.Context, cfg SheetsConfig) (*Sheets, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("sheets config: %w", err)
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.TokenFile != "":
		tok, err := loadToken(cfg.TokenFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(tok)))
	default:
		return nil, fmt.Errorf("sheets config: credentials file or token file required")
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Sheets{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// Clear implements Sink.
func (s *Sheets) Clear(ctx context.Context, rangeSpec string) error {
	_, err := s.svc.Spreadsheets.Values.
		Clear(s.spreadsheetID, rangeSpec, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return err
}

// Write implements Sink.
func (s *Sheets) Write(ctx context.Context, rangeSpec string, rows [][]string) error {
	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeSpec, &sheets.ValueRange{
			MajorDimension: "ROWS",
			Values:         values,
		}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return err
}

// Format implements Sink: bold header, frozen top row, auto-sized columns.
func (s *Sheets) Format(ctx context.Context, spec FormatSpec) error {
	sheetID, err := s.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	var requests []*sheets.Request
	if spec.BoldHeader {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat.bold",
			},
		})
	}
	if spec.FreezeHeader {
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		})
	}
	if spec.AutoResizeColumns > 0 {
		requests = append(requests, &sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(spec.AutoResizeColumns),
				},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.
		BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).
		Context(ctx).Do()
	return err
}

// resolveSheetID maps the configured sheet title to its numeric ID.
func (s *Sheets) resolveSheetID(ctx context.Context) (int64, error) {
	if s.sheetID != nil {
		return *s.sheetID, nil
	}

	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.sheetName {
			id := sh.Properties.SheetId
			s.sheetID = &id
			return id, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet %s", s.sheetName, s.spreadsheetID)
}

// loadToken reads a saved OAuth token file.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- operator-specified token file
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", path, err)
	}
	return &tok, nil
}

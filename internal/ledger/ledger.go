// Package ledger persists pipeline output to a Google Sheets spreadsheet.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/aashish5968778/ai-news-pipeline2/internal/news"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Ledger is the append-only record of published rows, stored in the first
// worksheet of a spreadsheet addressed by name. It doubles as the source of
// truth for duplicate detection: the pipeline reads its link and title
// columns before writing anything.
type Ledger struct {
	spreadsheetName string
	credentials     []byte

	sheets *sheets.Service
	drive  *drive.Service

	spreadsheetID string
	sheetTitle    string

	log *slog.Logger
}

// New prepares a ledger client. The service account JSON is injected here,
// already resolved by configuration; no further credential lookup happens
// later.
func New(spreadsheetName string, credentials []byte, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{
		spreadsheetName: spreadsheetName,
		credentials:     credentials,
		log:             log.With("component", "ledger"),
	}
}

// Open authenticates against the Google APIs and resolves the configured
// spreadsheet name down to its first worksheet. Any failure here counts as a
// ledger authentication failure and aborts the run before any write.
func (l *Ledger) Open(ctx context.Context) error {
	sheetsService, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(l.credentials),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return fmt.Errorf("create sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx,
		option.WithCredentialsJSON(l.credentials),
		option.WithScopes(drive.DriveMetadataReadonlyScope))
	if err != nil {
		return fmt.Errorf("create drive service: %w", err)
	}

	l.sheets = sheetsService
	l.drive = driveService

	id, err := l.findSpreadsheet(ctx)
	if err != nil {
		return err
	}
	l.spreadsheetID = id

	title, err := l.firstSheetTitle(ctx)
	if err != nil {
		return err
	}
	l.sheetTitle = title

	l.log.Debug("ledger opened", "spreadsheet_id", l.spreadsheetID, "sheet", l.sheetTitle)
	return nil
}

// ColumnValues reads an entire column (1-based index) as strings, empty cells
// included up to the last filled row.
func (l *Ledger) ColumnValues(ctx context.Context, column int) ([]string, error) {
	if column < 1 {
		return nil, fmt.Errorf("column %d out of range", column)
	}

	letter := columnLetter(column)
	rangeRef := fmt.Sprintf("'%s'!%s:%s", l.sheetTitle, letter, letter)

	resp, err := l.sheets.Spreadsheets.Values.Get(l.spreadsheetID, rangeRef).
		MajorDimension("COLUMNS").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read column %s: %w", letter, err)
	}
	return columnStrings(resp), nil
}

// Append writes the rows below the existing data in one batched call,
// preserving their order. USER_ENTERED lets the backend parse dates and
// formulas as if they had been typed in.
func (l *Ledger) Append(ctx context.Context, rows []news.Row) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Values())
	}

	rangeRef := fmt.Sprintf("'%s'!A1", l.sheetTitle)
	_, err := l.sheets.Spreadsheets.Values.Append(l.spreadsheetID, rangeRef, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %d rows: %w", len(rows), err)
	}

	return nil
}

// findSpreadsheet resolves the configured name to a file ID: exact name,
// spreadsheet mime type, not trashed. The first match wins.
func (l *Ledger) findSpreadsheet(ctx context.Context) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeName(l.spreadsheetName), spreadsheetMimeType)

	list, err := l.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(2).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("look up spreadsheet %q: %w", l.spreadsheetName, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", l.spreadsheetName)
	}
	return list.Files[0].Id, nil
}

func (l *Ledger) firstSheetTitle(ctx context.Context) (string, error) {
	meta, err := l.sheets.Spreadsheets.Get(l.spreadsheetID).
		Fields("sheets(properties(title,index))").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %q has no worksheets", l.spreadsheetName)
	}
	return meta.Sheets[0].Properties.Title, nil
}

// escapeName quotes a spreadsheet name for the Drive query language.
func escapeName(name string) string {
	name = strings.ReplaceAll(name, `\`, `\\`)
	return strings.ReplaceAll(name, `'`, `\'`)
}

// columnLetter converts a 1-based column index to its A1 notation letter.
func columnLetter(column int) string {
	var b []byte
	for column > 0 {
		column--
		b = append([]byte{byte('A' + column%26)}, b...)
		column /= 26
	}
	return string(b)
}

// columnStrings flattens a COLUMNS-major value range into the first column's
// cells as strings.
func columnStrings(vr *sheets.ValueRange) []string {
	if vr == nil || len(vr.Values) == 0 {
		return nil
	}
	out := make([]string, 0, len(vr.Values[0]))
	for _, cell := range vr.Values[0] {
		if s, ok := cell.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(cell))
	}
	return out
}

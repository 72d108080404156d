// Package sheets exports weekly flock reports to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/ovinet/internal/config"
	"github.com/mamadbah2/ovinet/internal/domain/models"
)

const reportRange = "FlockReports!A:J"

// Exporter defines the export operations supported by the Google Sheets adapter.
type Exporter interface {
	AppendReport(ctx context.Context, report models.FlockReport) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendReport appends a flock report as one spreadsheet row.
func (e *GoogleSheetExporter) AppendReport(ctx context.Context, report models.FlockReport) error {
	values := []interface{}{
		report.CreatedAt.Format("2006-01-02 15:04"),
		report.PeriodStart.Format("2006-01-02"),
		report.PeriodEnd.Format("2006-01-02"),
		report.TotalSheep,
		report.ActiveSheep,
		report.PregnantEwes,
		report.EwesInPlans,
		report.TasksCompleted,
		report.TasksPending,
		report.TasksOverdue,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report row into range %s: %w", reportRange, err)
	}

	e.logger.Debug("report appended to sheet", zap.String("range", reportRange), zap.Time("period_start", report.PeriodStart))
	return nil
}

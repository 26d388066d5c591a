package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bpariverside/skillswap-service/internal/repositories"
)

const sessionsSheet = "Sessions"

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ExportSessions writes the admin sessions report as an xlsx workbook:
// one row per session with host and headcount.
func (s *reportService) ExportSessions(ctx context.Context, w io.Writer) error {
	rows, err := s.repo.Session().Report(ctx)
	if err != nil {
		return fmt.Errorf("failed to build session report: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sessionsSheet)

	headers := []string{"Session ID", "Name", "Host", "Difficulty", "Event Date", "Duration (min)", "Registrations", "Created"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sessionsSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Session.ID,
			row.Session.Name,
			row.HostHandle,
			string(row.Session.Difficulty),
			row.Session.EventDate.Format(time.RFC3339),
			row.Session.Duration,
			row.RegistrationCount,
			row.Session.CreatedAt.Format(time.RFC3339),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sessionsSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("sessions report exported", "rows", len(rows))
	return nil
}

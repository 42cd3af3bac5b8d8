package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
	"github.com/mrmiscellaneous91/dsa-automation/internal/repository"
)

// Service is a tiny façade over the request repository that produces XLSX
// bytes for exports.
type Service struct {
	repo   repository.RequestRepository
	logger *slog.Logger
}

func NewService(repo repository.RequestRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportRequestsXLSX returns an XLSX workbook (as bytes) for stored
// provisioning requests. When needsReviewOnly is true only flagged rows are
// included.
func (s *Service) ExportRequestsXLSX(ctx context.Context, needsReviewOnly bool) ([]byte, error) {
	start := time.Now()

	recs, err := s.repo.List(ctx, needsReviewOnly)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}

	buf, err := WriteXLSX(recs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"needs_review_only", needsReviewOnly,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}

// WriteXLSX renders provisioning requests into a workbook without touching a
// repository, so batch tooling can reuse it.
func WriteXLSX(recs []*entity.ProvisioningRequest) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Provisioning Requests"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Excel opens on the default "Sheet1" otherwise.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Received",
		"Provider",
		"Contact",
		"Student Name",
		"First Name",
		"Last Name",
		"Student Email",
		"Licence Years",
		"PO Number",
		"Status",
		"Source",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !r.CreatedAt.IsZero() {
			write(1, r.CreatedAt.UTC().Format("2006-01-02 15:04"))
		} else {
			write(1, "")
		}
		write(2, string(r.Provider))
		write(3, r.ProviderContactName)
		write(4, r.StudentFullName)
		write(5, r.StudentFirstName)
		write(6, r.StudentLastName)
		write(7, r.StudentEmail)
		write(8, r.LicenseYears)
		write(9, r.PONumber)
		write(10, string(r.Status()))
		write(11, r.Source)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18) // received
	_ = f.SetColWidth(sheet, "B", "C", 16) // provider, contact
	_ = f.SetColWidth(sheet, "D", "D", 30) // full name
	_ = f.SetColWidth(sheet, "E", "F", 16) // first/last
	_ = f.SetColWidth(sheet, "G", "G", 34) // email
	_ = f.SetColWidth(sheet, "H", "H", 12) // years
	_ = f.SetColWidth(sheet, "I", "I", 24) // po
	_ = f.SetColWidth(sheet, "J", "K", 14) // status, source

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/logistica/partes-service/internal/model"
)

// ReportStore is the persistence surface the report service needs.
type ReportStore interface {
	List(ctx context.Context, driverName *string) ([]model.WorkReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.WorkReport, error)
	Create(ctx context.Context, report model.WorkReport) (*model.WorkReport, error)
	Update(ctx context.Context, id uuid.UUID, report model.WorkReport) (*model.WorkReport, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExcelGenerator interface {
	Generate(reports []model.WorkReport, from, to time.Time) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.WorkReport) ([]byte, error)
}

type ReportService struct {
	repo  ReportStore
	excel ExcelGenerator
	pdf   PDFGenerator
}

func NewReportService(repo ReportStore, excel ExcelGenerator, pdf PDFGenerator) *ReportService {
	return &ReportService{repo: repo, excel: excel, pdf: pdf}
}

// List returns reports newest-created-first. Drivers only ever see
// their own.
func (s *ReportService) List(ctx context.Context, principal model.Principal) ([]model.WorkReport, error) {
	if principal.IsDriver() {
		name := principal.Name
		return s.repo.List(ctx, &name)
	}
	return s.repo.List(ctx, nil)
}

func (s *ReportService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.WorkReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsDriver() && report.DriverName != principal.Name {
		return nil, ErrPermissionDenied
	}
	return report, nil
}

// Create persists a new report after mirroring the editor's full rule
// set server-side. Drivers may only file reports under their own name
// and always start in Pendiente.
func (s *ReportService) Create(ctx context.Context, principal model.Principal, report model.WorkReport) (*model.WorkReport, error) {
	if principal.IsDriver() {
		if report.DriverName != principal.Name {
			return nil, ErrPermissionDenied
		}
		report.Status = model.ReportStatusPending
	}
	if report.Status == "" {
		report.Status = model.ReportStatusPending
	}

	if errs := model.ValidateReport(report); len(errs) > 0 {
		return nil, &model.ValidationError{Messages: errs}
	}

	return s.repo.Create(ctx, report)
}

func (s *ReportService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, report model.WorkReport) (*model.WorkReport, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsDriver() {
		if existing.DriverName != principal.Name || report.DriverName != principal.Name {
			return nil, ErrPermissionDenied
		}
		report.Status = model.ReportStatusPending
	}
	if report.Status == "" {
		report.Status = existing.Status
	}

	if errs := model.ValidateReport(report); len(errs) > 0 {
		return nil, &model.ValidationError{Messages: errs}
	}

	saved, err := s.repo.Update(ctx, id, report)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *ReportService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportExcel renders every report in the period to a workbook, one
// sheet per parte. Admin only.
func (s *ReportService) ExportExcel(ctx context.Context, principal model.Principal, from, to time.Time) (*ExportResult, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}

	from = dateOnly(from)
	to = dateOnly(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: period start must be before or equal to period end", ErrInvalidInput)
	}

	reports, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	endExclusive := to.Add(24 * time.Hour)
	selected := make([]model.WorkReport, 0, len(reports))
	for _, report := range reports {
		if report.Date.Before(from) || !report.Date.Before(endExclusive) {
			continue
		}
		selected = append(selected, report)
	}

	content, err := s.excel.Generate(selected, from, to)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("partes-%s-%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

// ExportPDF renders a single report as a printable parte. Drivers may
// only print their own.
func (s *ReportService) ExportPDF(ctx context.Context, principal model.Principal, id uuid.UUID) (*ExportResult, error) {
	report, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("parte-%s-%s.pdf", report.Date.Format("20060102"), sanitizeFileName(report.DriverName))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

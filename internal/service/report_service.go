package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inymo/project-performance/internal/model"
)

// ReportData is everything a document renderer needs for one project.
type ReportData struct {
	Dashboard    Dashboard
	Deliverables []model.Deliverable
	Changes      []model.ChangeRequest
	Expenses     []model.LogEntry
	GeneratedAt  time.Time
}

// ReportRenderer turns report data into a document body.
type ReportRenderer interface {
	Render(data ReportData) ([]byte, error)
}

type ReportResult struct {
	FileName string
	Content  []byte
}

// ReportService assembles the derived output into downloadable documents.
type ReportService struct {
	perf   *PerformanceService
	ledger LedgerStore
	pdf    ReportRenderer
	excel  ReportRenderer
}

func NewReportService(perf *PerformanceService, ledger LedgerStore, pdf, excel ReportRenderer) *ReportService {
	return &ReportService{perf: perf, ledger: ledger, pdf: pdf, excel: excel}
}

func (s *ReportService) PDF(ctx context.Context, projectID uuid.UUID) (*ReportResult, error) {
	data, err := s.buildData(ctx, projectID)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Render(*data)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		FileName: s.buildFileName(data.Dashboard, "pdf"),
		Content:  content,
	}, nil
}

func (s *ReportService) Excel(ctx context.Context, projectID uuid.UUID) (*ReportResult, error) {
	data, err := s.buildData(ctx, projectID)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Render(*data)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		FileName: s.buildFileName(data.Dashboard, "xlsx"),
		Content:  content,
	}, nil
}

func (s *ReportService) buildData(ctx context.Context, projectID uuid.UUID) (*ReportData, error) {
	dashboard, err := s.perf.Dashboard(ctx, projectID, DateWindow{})
	if err != nil {
		return nil, err
	}

	view, err := s.ledger.ReadLedger(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	changes, err := s.ledger.ListChangeRequests(ctx, projectID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.ledger.ListExpenses(ctx, projectID, nil, nil)
	if err != nil {
		return nil, err
	}

	return &ReportData{
		Dashboard:    *dashboard,
		Deliverables: view.Deliverables,
		Changes:      changes,
		Expenses:     expenses,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (s *ReportService) buildFileName(dashboard Dashboard, extension string) string {
	code := sanitizeFileName(dashboard.Code)
	if code == "" {
		code = dashboard.ProjectID.String()
	}
	return fmt.Sprintf("performance-%s-%s.%s", code, time.Now().UTC().Format("20060102"), extension)
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

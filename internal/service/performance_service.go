package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/inymo/project-performance/internal/config"
	"github.com/inymo/project-performance/internal/evm"
	"github.com/inymo/project-performance/internal/model"
	"github.com/inymo/project-performance/internal/repository"
)

// PerformanceService owns the recompute-and-persist protocol and the
// presentation payloads derived from it.
type PerformanceService struct {
	projects ProjectStore
	ledger   LedgerStore
	cfg      *config.Config
	log      zerolog.Logger
	now      func() time.Time
}

func NewPerformanceService(
	projects ProjectStore,
	ledger LedgerStore,
	cfg *config.Config,
	log zerolog.Logger,
) *PerformanceService {
	return &PerformanceService{
		projects: projects,
		ledger:   ledger,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// KPI is the formatted indicator block for dashboards and reports.
type KPI struct {
	BAC               string `json:"bac"`
	PV                string `json:"pv"`
	EV                string `json:"ev"`
	AC                string `json:"ac"`
	CostVariance      string `json:"cost_variance"`
	ScheduleVariance  string `json:"schedule_variance"`
	EAC               string `json:"eac"`
	SPI               string `json:"spi"`
	CPI               string `json:"cpi"`
	SPIClass          string `json:"spi_class"`
	CPIClass          string `json:"cpi_class"`
	CostVarianceClass string `json:"cost_variance_class"`
	Diagnosis         string `json:"diagnosis"`
	SlipDays          int    `json:"slip_days"`
	AdjustedEnd       string `json:"adjusted_end"`
}

// Dashboard is the structured result consumed by presentation layers.
type Dashboard struct {
	ProjectID   uuid.UUID `json:"project_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Client      string    `json:"client"`
	Lead        string    `json:"lead"`
	Phase       string    `json:"phase"`
	Health      string    `json:"health"`
	ProgressPct int       `json:"progress_pct"`
	KPI         KPI       `json:"kpi"`
	Curve       evm.Curve `json:"curve"`
}

// Trend is the snapshot-history chart payload.
type Trend struct {
	Labels []string  `json:"labels"`
	PV     []float64 `json:"pv"`
	EV     []float64 `json:"ev"`
	AC     []float64 `json:"ac"`
	SPI    []float64 `json:"spi"`
	CPI    []float64 `json:"cpi"`
}

// DateWindow optionally restricts the sampled portion of a series.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

// Synchronize recomputes the project's indicators from the ledger and
// persists them. A missing project is a silent no-op: recompute requests for
// a just-deleted or not-yet-existing project are dropped, not failed.
func (s *PerformanceService) Synchronize(ctx context.Context, projectID uuid.UUID) error {
	view, err := s.ledger.ReadLedger(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Debug().Str("project_id", projectID.String()).Msg("synchronize: project not found, skipping")
			return nil
		}
		return err
	}

	_, _, err = s.recompute(ctx, view)
	return err
}

// Recalculate implements the Recalculator hook.
func (s *PerformanceService) Recalculate(ctx context.Context, projectID uuid.UUID) error {
	return s.Synchronize(ctx, projectID)
}

// recompute runs aggregation and calculation over one consistent read set
// and persists progress, SPI and CPI in a single update, then records
// today's snapshot. Values are rounded to two decimals before storage so a
// repeat run over an unchanged ledger writes identical rows.
func (s *PerformanceService) recompute(
	ctx context.Context,
	view *repository.LedgerView,
) (evm.Metrics, int, error) {
	project := view.Project

	pcts := make([]int, 0, len(view.Deliverables))
	for _, d := range view.Deliverables {
		pcts = append(pcts, d.ProgressPct)
	}
	progressPct, fraction := evm.AggregateProgress(pcts, project.ProgressPct)

	metrics := evm.Compute(evm.Inputs{
		Budget:            project.Budget,
		CostAdditions:     view.Changes.CostAdditions,
		LoggedExpense:     view.ExpenseTotal,
		ManualCost:        project.ManualCost,
		Progress:          fraction,
		StartAt:           project.StartAt,
		EndAt:             project.EndAt,
		ScheduleAdditions: view.Changes.ScheduleAdditions,
		Now:               s.now().UTC(),
	})

	spi := evm.Round2(metrics.SPI)
	cpi := evm.Round2(metrics.CPI)

	if err := s.projects.UpdateIndicators(ctx, project.ID, spi, cpi, progressPct); err != nil {
		return metrics, progressPct, err
	}

	cutDate := s.now().UTC().Truncate(24 * time.Hour)
	if err := s.ledger.UpsertSnapshot(ctx, model.PerformanceSnapshot{
		ProjectID: project.ID,
		CutDate:   cutDate,
		PV:        evm.Round2(metrics.PV),
		EV:        evm.Round2(metrics.EV),
		AC:        evm.Round2(metrics.AC),
		SPI:       spi,
		CPI:       cpi,
	}); err != nil {
		return metrics, progressPct, err
	}

	s.log.Info().
		Str("project", project.Code).
		Float64("spi", spi).
		Float64("cpi", cpi).
		Msg("indicators synchronized")
	return metrics, progressPct, nil
}

// Dashboard recomputes and persists fresh indicators, then assembles the
// formatted payload plus the time-phased curve for the requested window.
func (s *PerformanceService) Dashboard(
	ctx context.Context,
	projectID uuid.UUID,
	window DateWindow,
) (*Dashboard, error) {
	view, err := s.ledger.ReadLedger(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	metrics, progressPct, err := s.recompute(ctx, view)
	if err != nil {
		return nil, err
	}
	project := view.Project

	expenses, err := s.ledger.ListExpenses(ctx, projectID, nil, nil)
	if err != nil {
		return nil, err
	}
	laborCost, err := s.accruedLaborCost(ctx, project)
	if err != nil {
		return nil, err
	}

	dated := make([]evm.DatedAmount, 0, len(expenses))
	for _, e := range expenses {
		dated = append(dated, evm.DatedAmount{At: e.LoggedAt, Amount: e.Amount})
	}

	curve := evm.GenerateCurve(evm.CurveInputs{
		StartAt:       project.StartAt,
		AdjustedEnd:   metrics.AdjustedEnd,
		BAC:           metrics.BAC,
		Progress:      float64(progressPct) / 100,
		Expenses:      dated,
		RecurringCost: laborCost,
		Now:           s.now().UTC(),
		WindowStart:   window.Start,
		WindowEnd:     window.End,
		MaxSamples:    s.cfg.Engine.CurveMaxSamples,
	})

	spi := evm.Round2(metrics.SPI)
	cpi := evm.Round2(metrics.CPI)

	return &Dashboard{
		ProjectID:   project.ID,
		Code:        project.Code,
		Name:        project.Name,
		Client:      project.Client,
		Lead:        project.Lead,
		Phase:       project.Phase,
		Health:      project.Health,
		ProgressPct: progressPct,
		KPI: KPI{
			BAC:               evm.FormatMoney(metrics.BAC),
			PV:                evm.FormatMoney(metrics.PV),
			EV:                evm.FormatMoney(metrics.EV),
			AC:                evm.FormatMoney(metrics.AC),
			CostVariance:      evm.FormatMoney(metrics.CostVariance),
			ScheduleVariance:  evm.FormatMoney(metrics.ScheduleVariance),
			EAC:               evm.FormatMoney(metrics.EAC),
			SPI:               evm.FormatIndex(spi),
			CPI:               evm.FormatIndex(cpi),
			SPIClass:          evm.IndexClass(spi),
			CPIClass:          evm.IndexClass(cpi),
			CostVarianceClass: evm.VarianceClass(metrics.CostVariance),
			Diagnosis:         evm.Diagnose(spi, cpi, float64(progressPct)/100),
			SlipDays:          metrics.SlipDays,
			AdjustedEnd:       metrics.AdjustedEnd.Format("2 January 2006"),
		},
		Curve: curve,
	}, nil
}

// Trend serves the accumulated snapshot history for trend charts.
func (s *PerformanceService) Trend(
	ctx context.Context,
	projectID uuid.UUID,
	window DateWindow,
) (*Trend, error) {
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	snapshots, err := s.ledger.ListSnapshots(ctx, projectID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	trend := &Trend{
		Labels: make([]string, 0, len(snapshots)),
		PV:     make([]float64, 0, len(snapshots)),
		EV:     make([]float64, 0, len(snapshots)),
		AC:     make([]float64, 0, len(snapshots)),
		SPI:    make([]float64, 0, len(snapshots)),
		CPI:    make([]float64, 0, len(snapshots)),
	}
	for _, snap := range snapshots {
		trend.Labels = append(trend.Labels, snap.CutDate.Format("02 Jan"))
		trend.PV = append(trend.PV, snap.PV)
		trend.EV = append(trend.EV, snap.EV)
		trend.AC = append(trend.AC, snap.AC)
		trend.SPI = append(trend.SPI, snap.SPI)
		trend.CPI = append(trend.CPI, snap.CPI)
	}
	return trend, nil
}

// accruedLaborCost prorates the project lead's payroll across the elapsed
// days. This feeds only the dashboard actual-cost series; the persisted
// indices use logged expenses plus manual cost.
func (s *PerformanceService) accruedLaborCost(ctx context.Context, project model.Project) (float64, error) {
	hourly, err := s.ledger.LeadHourlyCost(ctx, project.Lead)
	if err != nil {
		return 0, err
	}
	if hourly == 0 {
		return 0, nil
	}

	elapsedDays := math.Ceil(s.now().UTC().Sub(project.StartAt).Hours() / 24)
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	hours := elapsedDays * s.cfg.Engine.LaborDailyHours * s.cfg.Engine.LaborUtilization
	return hours * hourly, nil
}

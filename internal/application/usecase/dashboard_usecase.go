package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/finops-latam-cli/internal/application/view"
	"github.com/diillson/finops-latam-cli/internal/domain/entity"
	"github.com/diillson/finops-latam-cli/internal/domain/repository"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
)

// Seções do dashboard, usadas nas mensagens de erro.
const (
	SectionFreeTier     = "free tier status"
	SectionEC2          = "EC2 recommendations"
	SectionCostOverview = "cost overview"
)

// ReportOptions controla a exportação do snapshot ao final do carregamento.
type ReportOptions struct {
	Name  string
	Types []string
	Dir   string
}

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	apiRepo    repository.APIRepository
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface
	now        func() time.Time
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	apiRepo repository.APIRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		apiRepo:    apiRepo,
		exportRepo: exportRepo,
		console:    console,
		now:        time.Now,
	}
}

// RunDashboard carrega o dashboard e, se houver nome de relatório, exporta o snapshot.
// O snapshot parcial também é exportado quando uma etapa falha.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, days int, report ReportOptions) error {
	snapshot, loadErr := uc.LoadDashboardData(ctx, days)

	if report.Name != "" {
		uc.ExportSnapshot(*snapshot, report)
	}
	return loadErr
}

// LoadDashboardData executa as etapas em sequência: Free Tier, EC2, custos e
// lista de recomendações. A primeira falha interrompe as etapas seguintes.
func (uc *DashboardUseCase) LoadDashboardData(ctx context.Context, days int) (*entity.DashboardSnapshot, error) {
	if days <= 0 {
		days = types.DefaultCostDays
	}
	snapshot := &entity.DashboardSnapshot{GeneratedAt: uc.now(), CostDays: days}

	status := uc.console.Status("Loading free tier status...")
	freeTier, err := uc.apiRepo.GetFreeTierStatus(ctx)
	status.Stop()
	if err != nil {
		return snapshot, uc.fail(snapshot, SectionFreeTier, err)
	}
	snapshot.FreeTier = freeTier
	uc.console.RenderFreeTier(view.ProjectFreeTier(*freeTier))

	status = uc.console.Status("Loading EC2 recommendations...")
	recos, err := uc.apiRepo.GetEC2Recommendations(ctx)
	status.Stop()
	if err != nil {
		return snapshot, uc.fail(snapshot, SectionEC2, err)
	}
	snapshot.EC2 = recos
	uc.console.RenderEC2Counts(view.ProjectEC2Counts(*recos))

	status = uc.console.Status(fmt.Sprintf("Loading cost overview for the last %d days...", days))
	overview, err := uc.apiRepo.GetCostOverview(ctx, days)
	status.Stop()
	if err != nil {
		return snapshot, uc.fail(snapshot, SectionCostOverview, err)
	}
	snapshot.CostOverview = overview
	snapshot.DailyCosts = overview.DailyTotals()
	snapshot.ServiceCosts = overview.ServiceTotals()
	if overview.IsMockData {
		uc.console.LogInfo("The backend returned sample cost data; AWS Cost Explorer is not configured")
	}
	uc.console.RenderCharts(view.ProjectCharts(overview))

	uc.console.RenderRecommendations(view.ProjectRecommendations(*recos))
	return snapshot, nil
}

func (uc *DashboardUseCase) fail(snapshot *entity.DashboardSnapshot, section string, err error) error {
	snapshot.FailedSection = section
	snapshot.Error = err.Error()

	uc.console.LogDebug("Error loading dashboard data (%s): %v", section, err)
	uc.console.Notify(types.NotifyDanger, fmt.Sprintf("Could not load %s: %v", section, err))
	return fmt.Errorf("error loading %s: %w", section, err)
}

// ExportSnapshot grava o snapshot em cada formato pedido (csv, json, pdf).
func (uc *DashboardUseCase) ExportSnapshot(snapshot entity.DashboardSnapshot, report ReportOptions) {
	for _, reportType := range report.Types {
		var (
			path string
			err  error
		)
		switch strings.ToLower(reportType) {
		case "csv":
			path, err = uc.exportRepo.ExportDashboardToCSV(snapshot, report.Name, report.Dir)
		case "json":
			path, err = uc.exportRepo.ExportDashboardToJSON(snapshot, report.Name, report.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportDashboardToPDF(snapshot, report.Name, report.Dir)
		default:
			uc.console.LogWarning("Unsupported report type '%s' (use csv, json or pdf)", reportType)
			continue
		}

		if err != nil {
			uc.console.LogError("Failed to export %s report: %s", strings.ToUpper(reportType), err)
			continue
		}
		uc.console.LogSuccess("%s report saved to: %s", strings.ToUpper(reportType), path)
	}
}

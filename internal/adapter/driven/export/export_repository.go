package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/finops-latam-cli/internal/application/view"
	"github.com/diillson/finops-latam-cli/internal/domain/entity"
	"github.com/diillson/finops-latam-cli/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// --- Funções de Exportação do Dashboard ---

// ExportDashboardToCSV grava o snapshot como linhas section,item,value.
func (r *ExportRepositoryImpl) ExportDashboardToCSV(snapshot entity.DashboardSnapshot, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(csvRecords(snapshot)); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func csvRecords(snapshot entity.DashboardSnapshot) [][]string {
	records := [][]string{
		{"Section", "Item", "Value"},
		{"Report", "Generated At", snapshot.GeneratedAt.Format(time.RFC3339)},
		{"Report", "Cost Days", strconv.Itoa(snapshot.CostDays)},
	}

	if ft := snapshot.FreeTier; ft != nil {
		cards := view.ProjectFreeTier(*ft)
		records = append(records,
			[]string{"Free Tier", "Remaining", cards.Remaining},
			[]string{"Free Tier", "Used", cards.Used},
			[]string{"Free Tier", "Monthly Cost", cards.MonthlyCost},
			[]string{"Free Tier", "Alerts", cards.AlertsCount},
		)
	}

	if ec2 := snapshot.EC2; ec2 != nil {
		records = append(records, []string{"EC2", "Total Recommendations", strconv.Itoa(ec2.TotalRecommendations)})
		for _, reco := range ec2.Recommendations {
			records = append(records, []string{
				"EC2 Recommendation",
				reco.InstanceID,
				fmt.Sprintf("%s (%s)", reco.Recommendation, reco.SavingsEstimate),
			})
		}
	}

	for _, sc := range snapshot.ServiceCosts {
		records = append(records, []string{"Cost By Service", sc.ServiceName, fmt.Sprintf("$%.2f", sc.Cost)})
	}
	for _, dc := range snapshot.DailyCosts {
		records = append(records, []string{"Daily Cost", dc.Date, fmt.Sprintf("$%.2f", dc.Cost)})
	}

	if snapshot.Error != "" {
		records = append(records, []string{"Error", snapshot.FailedSection, snapshot.Error})
	}
	return records
}

// ExportDashboardToJSON grava o snapshot em JSON indentado.
func (r *ExportRepositoryImpl) ExportDashboardToJSON(snapshot entity.DashboardSnapshot, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportDashboardToPDF gera um relatório A4 de uma página com as seções carregadas.
func (r *ExportRepositoryImpl) ExportDashboardToPDF(snapshot entity.DashboardSnapshot, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		if content == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, title)
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by FinOps Latam | %s", snapshot.GeneratedAt.Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  FinOps Dashboard"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	period := fmt.Sprintf("  Last %d days | %s", snapshot.CostDays, snapshot.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 8, tr(period), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	if snapshot.Error != "" {
		pdf.SetTextColor(192, 0, 0)
		drawSection("Incomplete Report", fmt.Sprintf("Could not load %s: %s", snapshot.FailedSection, snapshot.Error))
	}

	if ft := snapshot.FreeTier; ft != nil {
		cards := view.ProjectFreeTier(*ft)
		drawSection("Free Tier", fmt.Sprintf(
			"Remaining: %s (%s)\nMonthly cost: %s\nAlerts: %s",
			cards.Remaining, cards.Used, cards.MonthlyCost, cards.AlertsCount))
	}

	drawSection("Cost By Service", serviceCostsText(snapshot.ServiceCosts))
	drawSection("Daily Cost", dailyCostsText(snapshot.DailyCosts))

	if ec2 := snapshot.EC2; ec2 != nil {
		drawSection(fmt.Sprintf("EC2 Recommendations (%d)", ec2.TotalRecommendations), recommendationsText(ec2.Recommendations))
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func serviceCostsText(costs []entity.ServiceCost) string {
	var b strings.Builder
	for _, sc := range costs {
		fmt.Fprintf(&b, "%s: $%.2f\n", sc.ServiceName, sc.Cost)
	}
	return strings.TrimSpace(b.String())
}

func dailyCostsText(costs []entity.DailyCost) string {
	var b strings.Builder
	for _, dc := range costs {
		fmt.Fprintf(&b, "%s: $%.2f\n", dc.Date, dc.Cost)
	}
	return strings.TrimSpace(b.String())
}

func recommendationsText(recos []entity.EC2Recommendation) string {
	if len(recos) == 0 {
		return "No critical recommendations found."
	}
	var b strings.Builder
	for _, reco := range recos {
		fmt.Fprintf(&b, "%s: %s\n  Estimated savings: %s\n", reco.InstanceID, reco.Recommendation, reco.SavingsEstimate)
	}
	return strings.TrimSpace(b.String())
}

// --- Helpers ---

func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

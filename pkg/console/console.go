package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// SetDebug liga ou desliga as mensagens de debug.
func (c *Console) SetDebug(enabled bool) {
	if enabled {
		pterm.EnableDebugMessages()
	} else {
		pterm.DisableDebugMessages()
	}
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// LogDebug registra uma mensagem de debug (visível apenas com --debug).
func (c *Console) LogDebug(format string, a ...interface{}) {
	pterm.Debug.Printfln(format, a...)
}

// Notify exibe uma notificação transitória no nível indicado.
func (c *Console) Notify(level types.NotificationLevel, message string) {
	switch level {
	case types.NotifySuccess:
		pterm.Success.Println(message)
	case types.NotifyWarning:
		pterm.Warning.Println(message)
	case types.NotifyDanger:
		pterm.Error.Println(message)
	default:
		pterm.Info.Println(message)
	}
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores predefinidas para uso consistente
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table acumula colunas e linhas e renderiza com o estilo padrão do console.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() *Table {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// RenderAuth mostra a região de convidado ou a do usuário autenticado.
func (c *Console) RenderAuth(view types.AuthView) {
	if view.UserVisible {
		line := fmt.Sprintf("Signed in as %s", BrightCyan(view.Email))
		if view.Unverified {
			line += BrightYellow(" (not verified)")
		}
		fmt.Println(line)
		return
	}
	if view.GuestVisible {
		fmt.Println(BrightMagenta("Not signed in.") + " Use 'finops-latam login' or 'finops-latam register'.")
	}
}

// RenderFreeTier exibe os cards de Free Tier.
func (c *Console) RenderFreeTier(view types.FreeTierCards) {
	fmt.Println(freeTierTable(c.CreateTable(), view).Render())
}

func freeTierTable(table *Table, view types.FreeTierCards) *Table {
	table.AddColumn("Free Tier Remaining")
	table.AddColumn("Free Tier Used")
	table.AddColumn("Monthly Cost")
	table.AddColumn("Alerts")
	table.AddRow(BrightGreen(view.Remaining), view.Used, view.MonthlyCost, view.AlertsCount)
	return table
}

// RenderEC2Counts exibe o total de recomendações de EC2.
func (c *Console) RenderEC2Counts(view types.EC2Counts) {
	fmt.Printf("EC2 Right-sizing: %s (%s)\n", BrightYellow(view.Count), view.Summary)
}

// RenderCharts exibe os gráficos de distribuição e de tendência.
func (c *Console) RenderCharts(view types.ChartsView) {
	suffix := ""
	if view.Example {
		suffix = " (example data)"
	}

	distribution, _ := pterm.DefaultTable.WithHasHeader().WithData(distributionRows(view)).Srender()
	fmt.Println("\n" + pterm.DefaultBox.
		WithTitle(view.Distribution.Title+suffix).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(distribution))

	c.DisplayTrendBars(types.ChartSeries{Title: view.Trend.Title + suffix, Points: view.Trend.Points})
}

// RenderRecommendations exibe os cards de recomendação ou o banner de sucesso.
func (c *Console) RenderRecommendations(view types.RecommendationsView) {
	if view.State == types.RecommendationsEmpty {
		pterm.Success.Println(view.Banner)
		return
	}

	for _, card := range view.Cards {
		body := fmt.Sprintf("Recommendation: %s\nEstimated savings: %s", card.Recommendation, card.SavingsEstimate)
		for _, d := range card.Details {
			body += "\n" + d
		}
		fmt.Println(pterm.DefaultBox.WithTitle(card.InstanceID).Sprint(body))
	}
}

func distributionRows(view types.ChartsView) pterm.TableData {
	rows := pterm.TableData{{"Category", "Cost", "", "Share"}}
	for i, p := range view.Distribution.Points {
		share := 0.0
		if i < len(view.DistributionShares) {
			share = view.DistributionShares[i]
		}
		bar := strings.Repeat("█", int(math.Round(share/100*40)))
		rows = append(rows, []string{
			p.Label,
			fmt.Sprintf("$%.2f", p.Value),
			pterm.FgBlue.Sprint(bar),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return rows
}

// DisplayTrendBars exibe o gráfico de barras de tendência com a variação entre pontos.
func (c *Console) DisplayTrendBars(series types.ChartSeries) {
	rows, ok := trendRows(series.Points)
	if !ok {
		pterm.Warning.Println("All costs are $0.00 for this period")
		return
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(rows)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(series.Title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Println("\n" + panel)
}

// trendRows monta as linhas do gráfico de tendência; ok é false quando todos os valores são zero.
func trendRows(points []types.ChartPoint) (pterm.TableData, bool) {
	maxCost := 0.0
	for _, p := range points {
		if p.Value > maxCost {
			maxCost = p.Value
		}
	}
	if maxCost == 0 {
		return nil, false
	}

	tableData := pterm.TableData{
		{"Period", "Cost", "", "Change"},
	}

	var prevCost *float64
	for _, p := range points {
		barLength := int((p.Value / maxCost) * 40)
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		change := ""

		if prevCost != nil {
			change, barColor = changeCell(*prevCost, p.Value, bar)
		}

		tableData = append(tableData, []string{
			p.Label,
			fmt.Sprintf("$%.2f", p.Value),
			barColor,
			change,
		})

		current := p.Value
		prevCost = &current
	}
	return tableData, true
}

// changeCell calcula a variação percentual em relação ao ponto anterior e a cor da barra.
func changeCell(prev, cur float64, bar string) (string, string) {
	if prev < 0.01 {
		if cur < 0.01 {
			return pterm.FgYellow.Sprint("0%"), pterm.FgYellow.Sprint(bar)
		}
		return pterm.FgRed.Sprint("N/A"), pterm.FgRed.Sprint(bar)
	}

	changePercent := ((cur - prev) / prev) * 100.0
	switch {
	case math.Abs(changePercent) < 0.01:
		return pterm.FgYellow.Sprint("0%"), pterm.FgYellow.Sprint(bar)
	case changePercent > 999:
		return pterm.FgRed.Sprint(">+999%"), pterm.FgRed.Sprint(bar)
	case changePercent < -999:
		return pterm.FgGreen.Sprint(">-999%"), pterm.FgGreen.Sprint(bar)
	case changePercent > 0:
		return pterm.FgRed.Sprintf("+%.2f%%", changePercent), pterm.FgRed.Sprint(bar)
	default:
		return pterm.FgGreen.Sprintf("%.2f%%", changePercent), pterm.FgGreen.Sprint(bar)
	}
}

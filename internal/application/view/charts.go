package view

import (
	"fmt"

	"github.com/diillson/finops-latam-cli/internal/domain/entity"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/shopspring/decimal"
)

const (
	DistributionTitle = "Cost Distribution"
	TrendTitle        = "Daily Cost"

	// maxDistributionCategories inclui a categoria "Others".
	maxDistributionCategories = 5
	othersLabel               = "Others"
)

// Séries de exemplo usadas quando o payload não tem dados utilizáveis.
var (
	exampleDistribution = []types.ChartPoint{
		{Label: "EC2", Value: 45},
		{Label: "S3", Value: 25},
		{Label: "RDS", Value: 15},
		{Label: "Lambda", Value: 10},
		{Label: othersLabel, Value: 5},
	}
	exampleTrend = []float64{0.85, 1.20, 0.95, 1.50, 0.75, 1.10, 0.90}
)

// ProjectCharts builds the distribution and trend charts from the cost overview.
func ProjectCharts(overview *entity.CostOverview) types.ChartsView {
	if !overview.HasSeries() {
		return ExampleCharts()
	}

	distribution := distributionPoints(overview.ServiceTotals())
	if len(distribution) == 0 {
		distribution = copyPoints(exampleDistribution)
	}

	dist := types.ChartSeries{Title: DistributionTitle, Points: distribution}
	return types.ChartsView{
		Distribution:       dist,
		DistributionShares: Shares(dist),
		Trend:              types.ChartSeries{Title: TrendTitle, Points: trendPoints(overview.DailyTotals())},
	}
}

// ExampleCharts retorna os gráficos de exemplo, marcados como tal.
func ExampleCharts() types.ChartsView {
	trend := make([]types.ChartPoint, len(exampleTrend))
	for i, v := range exampleTrend {
		trend[i] = types.ChartPoint{Label: dayLabel(i), Value: v}
	}
	dist := types.ChartSeries{Title: DistributionTitle, Points: copyPoints(exampleDistribution)}
	return types.ChartsView{
		Distribution:       dist,
		DistributionShares: Shares(dist),
		Trend:              types.ChartSeries{Title: TrendTitle, Points: trend},
		Example:            true,
	}
}

// distributionPoints mantém os quatro maiores serviços e agrega o resto em "Others".
// services deve estar em ordem decrescente de custo.
func distributionPoints(services []entity.ServiceCost) []types.ChartPoint {
	points := make([]types.ChartPoint, 0, maxDistributionCategories)
	if len(services) <= maxDistributionCategories {
		for _, sc := range services {
			points = append(points, types.ChartPoint{Label: sc.ServiceName, Value: sc.Cost})
		}
		return points
	}

	others := decimal.Zero
	for i, sc := range services {
		if i < maxDistributionCategories-1 {
			points = append(points, types.ChartPoint{Label: sc.ServiceName, Value: sc.Cost})
			continue
		}
		others = others.Add(decimal.NewFromFloat(sc.Cost))
	}
	return append(points, types.ChartPoint{Label: othersLabel, Value: others.InexactFloat64()})
}

func trendPoints(days []entity.DailyCost) []types.ChartPoint {
	points := make([]types.ChartPoint, len(days))
	for i, d := range days {
		label := d.Date
		if label == "" {
			label = dayLabel(i)
		}
		points[i] = types.ChartPoint{Label: label, Value: d.Cost}
	}
	return points
}

func dayLabel(i int) string {
	return fmt.Sprintf("Day %d", i+1)
}

func copyPoints(points []types.ChartPoint) []types.ChartPoint {
	return append([]types.ChartPoint(nil), points...)
}

// Shares converts the points of a series into percentages of its total,
// rounded to one decimal place. A zero total yields zero shares.
func Shares(series types.ChartSeries) []float64 {
	total := decimal.Zero
	for _, p := range series.Points {
		total = total.Add(decimal.NewFromFloat(p.Value))
	}
	shares := make([]float64, len(series.Points))
	if total.IsZero() {
		return shares
	}
	hundred := decimal.NewFromInt(100)
	for i, p := range series.Points {
		shares[i] = decimal.NewFromFloat(p.Value).Mul(hundred).Div(total).Round(1).InexactFloat64()
	}
	return shares
}

package entity

import (
	"encoding/json"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"
)

// CostMetricPreference é a ordem em que as métricas do Cost Explorer são lidas.
var CostMetricPreference = []string{"BlendedCost", "UnblendedCost", "AmortizedCost"}

// ServiceCost represents a cost amount for a specific AWS service.
type ServiceCost struct {
	ServiceName string  `json:"service_name"`
	Cost        float64 `json:"cost"`
}

// DailyCost represents the total cost of one day of the overview.
type DailyCost struct {
	Date string  `json:"date"`
	Cost float64 `json:"cost"`
}

// CostOverview é o payload de /api/cost-overview: o resultado de GetCostAndUsage
// do Cost Explorer repassado pelo backend.
type CostOverview struct {
	ResultsByTime []ceTypes.ResultByTime `json:"ResultsByTime"`
	IsMockData    bool                   `json:"IsMockData"`

	// Raw guarda o payload original para exportação.
	Raw json.RawMessage `json:"-"`
}

// HasSeries reports whether the overview carries at least one usable amount.
func (c *CostOverview) HasSeries() bool {
	if c == nil {
		return false
	}
	for _, r := range c.ResultsByTime {
		if _, ok := metricAmount(r.Total); ok {
			return true
		}
		for _, g := range r.Groups {
			if _, ok := metricAmount(g.Metrics); ok {
				return true
			}
		}
	}
	return false
}

// DailyTotals retorna o custo total de cada período, na ordem do payload.
// Quando Total está ausente, soma os grupos do período.
func (c *CostOverview) DailyTotals() []DailyCost {
	if c == nil {
		return nil
	}
	totals := make([]DailyCost, 0, len(c.ResultsByTime))
	for _, r := range c.ResultsByTime {
		day := DailyCost{}
		if r.TimePeriod != nil {
			day.Date = aws.ToString(r.TimePeriod.Start)
		}

		if amount, ok := metricAmount(r.Total); ok {
			day.Cost = amount.InexactFloat64()
		} else {
			sum := decimal.Zero
			for _, g := range r.Groups {
				if amount, ok := metricAmount(g.Metrics); ok {
					sum = sum.Add(amount)
				}
			}
			day.Cost = sum.InexactFloat64()
		}
		totals = append(totals, day)
	}
	return totals
}

// ServiceTotals soma o custo de cada serviço no período, em ordem decrescente.
func (c *CostOverview) ServiceTotals() []ServiceCost {
	if c == nil {
		return nil
	}
	sums := make(map[string]decimal.Decimal)
	for _, r := range c.ResultsByTime {
		for _, g := range r.Groups {
			if len(g.Keys) == 0 {
				continue
			}
			amount, ok := metricAmount(g.Metrics)
			if !ok {
				continue
			}
			name := g.Keys[0]
			sums[name] = sums[name].Add(amount)
		}
	}

	services := make([]ServiceCost, 0, len(sums))
	for name, sum := range sums {
		services = append(services, ServiceCost{ServiceName: name, Cost: sum.InexactFloat64()})
	}
	sort.Slice(services, func(i, j int) bool {
		if services[i].Cost == services[j].Cost {
			return services[i].ServiceName < services[j].ServiceName
		}
		return services[i].Cost > services[j].Cost
	})
	return services
}

// metricAmount lê a primeira métrica disponível segundo CostMetricPreference.
func metricAmount(metrics map[string]ceTypes.MetricValue) (decimal.Decimal, bool) {
	for _, name := range CostMetricPreference {
		mv, ok := metrics[name]
		if !ok || mv.Amount == nil {
			continue
		}
		amount, err := decimal.NewFromString(aws.ToString(mv.Amount))
		if err != nil {
			continue
		}
		return amount, true
	}
	return decimal.Zero, false
}

package entity

import "time"

// DashboardSnapshot reúne os dados carregados em uma execução do dashboard.
// Seções não carregadas (por erro em uma etapa anterior) ficam nulas.
type DashboardSnapshot struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	CostDays      int                 `json:"cost_days"`
	FreeTier      *FreeTierStatus     `json:"free_tier,omitempty"`
	EC2           *EC2Recommendations `json:"ec2_recommendations,omitempty"`
	CostOverview  *CostOverview       `json:"-"`
	DailyCosts    []DailyCost         `json:"daily_costs,omitempty"`
	ServiceCosts  []ServiceCost       `json:"service_costs,omitempty"`
	FailedSection string              `json:"failed_section,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// Complete reports whether every section was loaded.
func (s *DashboardSnapshot) Complete() bool {
	return s.FreeTier != nil && s.EC2 != nil && s.CostOverview != nil && s.Error == ""
}

package entity

// Alert é um alerta de Free Tier; apenas a quantidade é exibida.
type Alert map[string]interface{}

// FreeTierStatus é o payload de /api/free-tier-status.
type FreeTierStatus struct {
	FreeTierRemaining float64 `json:"free_tier_remaining"`
	MonthlyCost       float64 `json:"monthly_cost"`
	Alerts            []Alert `json:"alerts"`
}

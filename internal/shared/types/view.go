package types

// AuthView é a projeção do estado de sessão nas duas regiões mutuamente
// exclusivas da interface: "guest-buttons" e "user-buttons".
type AuthView struct {
	GuestVisible bool
	UserVisible  bool
	Email        string
	Unverified   bool
}

// FreeTierCards holds the text of the four free-tier metric cards.
type FreeTierCards struct {
	Remaining   string // free-tier-remaining
	Used        string // free-tier-used
	MonthlyCost string // monthly-cost
	AlertsCount string // alerts-count
}

// EC2Counts holds the two places the recommendation total is shown.
type EC2Counts struct {
	Count   string // ec2-count
	Summary string // ec2-recommendations
}

// ChartPoint é um ponto (rótulo, valor) de um gráfico.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries é uma série nomeada de pontos.
type ChartSeries struct {
	Title  string       `json:"title"`
	Points []ChartPoint `json:"points"`
}

// ChartsView agrupa os dois gráficos do dashboard.
// Example indica que o payload não tinha séries utilizáveis e os valores de exemplo foram usados.
type ChartsView struct {
	Distribution       ChartSeries `json:"distribution"`
	DistributionShares []float64   `json:"distribution_shares"`
	Trend              ChartSeries `json:"trend"`
	Example            bool        `json:"example"`
}

// RecommendationsState é o estado da lista de recomendações.
type RecommendationsState int

const (
	RecommendationsEmpty RecommendationsState = iota
	RecommendationsPresent
)

// RecommendationCard is one rendered right-sizing recommendation.
type RecommendationCard struct {
	InstanceID      string
	Recommendation  string
	SavingsEstimate string
	Details         []string
}

// RecommendationsView é o conteúdo de "recommendations-list".
type RecommendationsView struct {
	State  RecommendationsState
	Cards  []RecommendationCard
	Banner string
}

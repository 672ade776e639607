package entity

// EC2Recommendation is a backend-computed right-sizing suggestion for one instance.
type EC2Recommendation struct {
	InstanceID      string `json:"instance_id"`
	Recommendation  string `json:"recommendation"`
	SavingsEstimate string `json:"savings_estimate"`

	// Campos opcionais emitidos pelo analisador de rightsizing.
	CurrentType       string `json:"current_type,omitempty"`
	RecommendedType   string `json:"recommended_type,omitempty"`
	CPUUtilizationAvg string `json:"cpu_utilization_avg,omitempty"`
	CPUUtilizationMax string `json:"cpu_utilization_max,omitempty"`
}

// EC2Recommendations é o payload de /api/ec2-recommendations.
type EC2Recommendations struct {
	TotalRecommendations int                 `json:"total_recommendations"`
	Recommendations      []EC2Recommendation `json:"recommendations"`
}

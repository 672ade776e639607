// Package view projeta o estado da sessão e os dados do dashboard em
// modelos de visualização, sem depender do terminal.
package view

import (
	"fmt"
	"strconv"

	"github.com/diillson/finops-latam-cli/internal/domain/entity"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/shopspring/decimal"
)

// NoRecommendationsBanner é exibido quando não há recomendações.
const NoRecommendationsBanner = "Excellent! No critical recommendations found."

// ProjectAuth decide qual região de autenticação fica visível.
func ProjectAuth(s entity.Session) types.AuthView {
	if s.Active() {
		return types.AuthView{
			UserVisible: true,
			Email:       s.Email(),
			Unverified:  s.Unverified,
		}
	}
	return types.AuthView{GuestVisible: true}
}

// ProjectFreeTier builds the four free-tier cards.
// Remaining and used show the raw amount, monthly cost is fixed to two decimals.
func ProjectFreeTier(status entity.FreeTierStatus) types.FreeTierCards {
	return types.FreeTierCards{
		Remaining:   "$" + rawAmount(status.FreeTierRemaining),
		Used:        "$" + rawAmount(status.MonthlyCost) + " used",
		MonthlyCost: "$" + decimal.NewFromFloat(status.MonthlyCost).StringFixed(2),
		AlertsCount: strconv.Itoa(len(status.Alerts)),
	}
}

// ProjectEC2Counts fills both places that show the recommendation total.
func ProjectEC2Counts(recos entity.EC2Recommendations) types.EC2Counts {
	return types.EC2Counts{
		Count:   strconv.Itoa(recos.TotalRecommendations),
		Summary: fmt.Sprintf("%d recommendations", recos.TotalRecommendations),
	}
}

// ProjectRecommendations escolhe entre a lista de cards e o banner de sucesso.
// A decisão depende apenas de a lista de recomendações estar vazia.
func ProjectRecommendations(recos entity.EC2Recommendations) types.RecommendationsView {
	if len(recos.Recommendations) == 0 {
		return types.RecommendationsView{
			State:  types.RecommendationsEmpty,
			Banner: NoRecommendationsBanner,
		}
	}

	cards := make([]types.RecommendationCard, 0, len(recos.Recommendations))
	for _, rec := range recos.Recommendations {
		card := types.RecommendationCard{
			InstanceID:      rec.InstanceID,
			Recommendation:  rec.Recommendation,
			SavingsEstimate: rec.SavingsEstimate,
		}
		if rec.CurrentType != "" && rec.RecommendedType != "" {
			card.Details = append(card.Details, fmt.Sprintf("Type: %s -> %s", rec.CurrentType, rec.RecommendedType))
		}
		if rec.CPUUtilizationAvg != "" || rec.CPUUtilizationMax != "" {
			card.Details = append(card.Details, fmt.Sprintf("CPU avg/max: %s / %s", orDash(rec.CPUUtilizationAvg), orDash(rec.CPUUtilizationMax)))
		}
		cards = append(cards, card)
	}
	return types.RecommendationsView{State: types.RecommendationsPresent, Cards: cards}
}

// rawAmount formata o valor sem casas fixas (87.5 -> "87.5", 100 -> "100").
func rawAmount(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

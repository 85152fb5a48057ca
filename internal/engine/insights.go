package engine

import (
	"fmt"

	"github.com/finsightapp/finsight-backend/internal/domain"
)

var factorTips = map[string]string{
	FactorSavingsRate:       "Your savings rate is low. Try setting aside part of your income before spending.",
	FactorBudgetAdherence:   "Several categories are running over budget. Revisit your category limits or cut back where you overshoot.",
	FactorExpenseVolatility: "Your day-to-day spending is uneven. Spreading out large one-off purchases keeps it predictable.",
	FactorCategoryDiversity: "Your spending is concentrated in a single category. Check whether that category can be trimmed.",
}

// GenerateInsights produces an ordered list of tips: one per alert (highest
// overBy first, matching the alert ordering contract), then one keyed to the
// factor with the lowest weighted contribution. The result is recomputed on
// every call.
func GenerateInsights(alerts []*domain.Alert, score *domain.HealthScore) []string {
	tips := make([]string, 0, len(alerts)+1)

	for _, alert := range alerts {
		tips = append(tips, fmt.Sprintf(
			"You spent %s on %s, %s over your %s limit of %s. Consider reducing %s expenses.",
			alert.Spent.StringFixed(2), alert.Category, alert.OverBy.StringFixed(2),
			alert.Period, alert.Limit.StringFixed(2), alert.Category,
		))
	}

	if score != nil && len(score.Factors) > 0 {
		weakest := score.Factors[0]
		for _, f := range score.Factors[1:] {
			if f.Contribution < weakest.Contribution {
				weakest = f
			}
		}
		if tip, ok := factorTips[weakest.Name]; ok {
			tips = append(tips, tip)
		}
	}

	if len(tips) == 0 {
		tips = append(tips, "No major issues detected. Keep tracking your expenses.")
	}

	return tips
}

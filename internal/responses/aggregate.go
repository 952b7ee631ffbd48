package responses

import (
	"giftforms/pkg/models"
)

// AggregateClaims sums claimed quantities per item across any number of
// responses. Lines without an item reference are skipped and quantities
// below one contribute nothing, so a restore can never subtract stock.
// Accumulation is commutative: input order does not matter.
func AggregateClaims(lines []models.ClaimLine) map[string]int {
	totals := make(map[string]int)
	for _, line := range lines {
		if line.FormItemID == "" {
			continue
		}
		if line.Quantity <= 0 {
			continue
		}
		totals[line.FormItemID] += line.Quantity
	}

	return totals
}

package items

import (
	"giftforms/pkg/models"
)

// IsEligible decides whether an item may be offered to a respondent who
// declared the given order amount. Always recomputed server-side at
// submission time: stock may have moved since the form page was loaded.
func IsEligible(item models.FormItem, declaredAmount float64) bool {
	return item.IsActive && item.CurrentStock > 0 && item.Price <= declaredAmount
}

// MaxClaimable is the largest quantity one response may claim for an item.
func MaxClaimable(item models.FormItem) int {
	if item.MaxPerResponse < item.CurrentStock {
		return item.MaxPerResponse
	}
	return item.CurrentStock
}

// ClampQuantity clamps a requested quantity into [1, MaxClaimable].
// Out-of-range requests are adjusted to the nearest valid bound rather
// than rejected.
func ClampQuantity(item models.FormItem, requested int) int {
	max := MaxClaimable(item)
	if requested > max {
		return max
	}
	if requested < 1 {
		return 1
	}
	return requested
}

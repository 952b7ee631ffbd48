package responses

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampStockNeverNegative(t *testing.T) {
	// initial=5, current=2: a -5 delta lands on 0, not -3
	assert.Equal(t, 0, clampStock(2, -5))

	assert.Equal(t, 0, clampStock(3, -3))
	assert.Equal(t, 1, clampStock(3, -2))
	assert.Equal(t, 0, clampStock(0, -1))
}

func TestClampStockRestoreUncapped(t *testing.T) {
	// restores have no upper bound; the owner edit flow reconciles
	// initial_stock if a restore ever overshoots it
	assert.Equal(t, 10, clampStock(8, 2))
	assert.Equal(t, 12, clampStock(10, 2))
}

func TestClampStockZeroDelta(t *testing.T) {
	assert.Equal(t, 7, clampStock(7, 0))
}

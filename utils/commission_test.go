package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCommission(t *testing.T) {
	// A 100.00 sale at a 10% platform fee and a 30% referrer share.
	platformFee, commission, err := ComputeCommission(10000, 10, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), platformFee)
	assert.Equal(t, int64(300), commission)
}

func TestComputeCommissionRoundsHalfUp(t *testing.T) {
	// 10% of 105 cents is 10.5, which rounds up to 11.
	platformFee, _, err := ComputeCommission(105, 10, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(11), platformFee)

	// 30% of 11 is 3.3, which rounds down to 3.
	_, commission, err := ComputeCommission(105, 10, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(3), commission)
}

func TestComputeCommissionZeroSale(t *testing.T) {
	platformFee, commission, err := ComputeCommission(0, 10, 30)
	require.NoError(t, err)
	assert.Zero(t, platformFee)
	assert.Zero(t, commission)
}

func TestComputeCommissionRejectsNegativeInput(t *testing.T) {
	_, _, err := ComputeCommission(-100, 10, 30)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = ComputeCommission(100, -1, 30)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = ComputeCommission(100, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestComputeCommissionNeverExceedsSale(t *testing.T) {
	samples := []int64{0, 1, 49, 50, 99, 100, 105, 999, 10000, 123457, 99999999}
	for _, sale := range samples {
		platformFee, commission, err := ComputeCommission(sale, 10, 30)
		require.NoError(t, err)
		assert.LessOrEqual(t, platformFee, sale, "platform fee exceeds sale for %d", sale)
		assert.LessOrEqual(t, commission, platformFee, "commission exceeds platform fee for %d", sale)
		assert.GreaterOrEqual(t, commission, int64(0))
	}
}

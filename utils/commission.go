package utils

// Default commission rates, overridable through config
const (
	DefaultPlatformFeePercent   = 10
	DefaultReferrerSharePercent = 30
)

// ComputeCommission turns a sale amount into the platform fee and the
// referrer commission. Amounts are integer cents and both roundings are
// half-up. The function is pure: no I/O, no side effects.
func ComputeCommission(saleAmountCents int64, platformFeePercent, referrerSharePercent int) (platformFeeCents, commissionCents int64, err error) {
	if saleAmountCents < 0 {
		return 0, 0, ErrInvalidAmount
	}
	if platformFeePercent < 0 || referrerSharePercent < 0 {
		return 0, 0, ErrInvalidAmount
	}

	platformFeeCents = roundHalfUpPercent(saleAmountCents, int64(platformFeePercent))
	commissionCents = roundHalfUpPercent(platformFeeCents, int64(referrerSharePercent))
	return platformFeeCents, commissionCents, nil
}

// roundHalfUpPercent computes round(amount * percent / 100) with half-up
// rounding. Callers guarantee amount and percent are non-negative.
func roundHalfUpPercent(amount, percent int64) int64 {
	return (amount*percent + 50) / 100
}

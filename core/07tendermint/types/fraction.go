package types

import errorsmod "cosmossdk.io/errors"

// Fraction is the trust-level n/d used by both ClientState.trust_level and
// the skipping-path voting-power threshold (spec §3, §4.1).
type Fraction struct {
	Numerator   uint64
	Denominator uint64
}

// NewFraction constructs a Fraction.
func NewFraction(numerator, denominator uint64) Fraction {
	return Fraction{Numerator: numerator, Denominator: denominator}
}

// DefaultTrustLevel is the commonly used 1/3 safety floor.
var DefaultTrustLevel = Fraction{Numerator: 1, Denominator: 3}

// Validate enforces spec §3: `0 ≤ n/d < 1`, non-zero, `1/3 ≤ n/d`.
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errorsmod.Wrap(ErrInvalidTrustThreshold, "denominator cannot be zero")
	}
	if f.Numerator == 0 {
		return errorsmod.Wrap(ErrInvalidTrustThreshold, "trust level cannot be zero")
	}
	if f.Numerator >= f.Denominator {
		return errorsmod.Wrap(ErrInvalidTrustThreshold, "trust level must be strictly less than 1")
	}
	// 1/3 <= n/d  <=>  n * 3 >= d
	if f.Numerator*3 < f.Denominator {
		return errorsmod.Wrap(ErrInvalidTrustThreshold, "trust level must be greater than or equal to 1/3")
	}
	return nil
}

// GTE reports whether power*f.Denominator >= f.Numerator*total, i.e.
// power/total >= f (avoids floating point in the power comparison).
func (f Fraction) GTE(power, total int64) bool {
	return power*int64(f.Denominator) >= int64(f.Numerator)*total
}

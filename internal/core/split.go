package core

import "math"

// Split divides an amount between the two parties, rounding each side
// independently half-up. Because the sides are rounded independently the
// pair can undershoot or overshoot the original amount by one unit; that
// discrepancy is intentional and is not corrected here.
func (r ShareRatio) Split(amount int64) (partyA, partyB int64) {
	partyA = int64(math.Round(float64(amount) * r.PartyA))
	partyB = int64(math.Round(float64(amount) * r.PartyB))
	return partyA, partyB
}

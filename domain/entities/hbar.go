package entities

import "fmt"

// Hbar is an amount of the network currency, held in tinybars
// (1 hbar = 100,000,000 tinybars). Kept integral so fee arithmetic is exact.
type Hbar int64

// TinybarsPerHbar is the tinybar value of one whole hbar.
const TinybarsPerHbar = 100_000_000

// NewHbar returns an amount of whole hbars.
func NewHbar(hbars int64) Hbar {
	return Hbar(hbars * TinybarsPerHbar)
}

// HbarFromTinybars returns an amount held as raw tinybars.
func HbarFromTinybars(tinybars int64) Hbar {
	return Hbar(tinybars)
}

// Tinybars returns the raw tinybar value.
func (h Hbar) Tinybars() int64 {
	return int64(h)
}

func (h Hbar) String() string {
	if h%TinybarsPerHbar == 0 {
		return fmt.Sprintf("%d ℏ", int64(h)/TinybarsPerHbar)
	}
	return fmt.Sprintf("%d tℏ", int64(h))
}
